package dashboard

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/wisetech/console/internal/models"
)

// GadgetForm carries the raw gadget editor input. Price and release date
// arrive as strings and are normalized before transmission.
type GadgetForm struct {
	Name        string `json:"name" form:"name"`
	Brand       string `json:"brand" form:"brand"`
	Category    string `json:"category" form:"category"`
	Description string `json:"description" form:"description"`
	ImageURL    string `json:"image_url" form:"image_url"`
	Price       string `json:"price" form:"price"`
	ReleaseDate string `json:"release_date" form:"release_date"`
}

// Normalize produces the wire payload: the price is coerced to a finite
// float and the release date is resolved against now.
func (f GadgetForm) Normalize(now time.Time) models.GadgetInput {
	return models.GadgetInput{
		Name:        f.Name,
		Brand:       f.Brand,
		Category:    f.Category,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Price:       CoercePrice(f.Price),
		ReleaseDate: NormalizeReleaseDate(f.ReleaseDate, now),
	}
}

// CoercePrice parses a price string into a finite float. Non-numeric input
// and non-finite values project to 0 so NaN never reaches the wire.
func CoercePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// NormalizeReleaseDate resolves the release-date input at submission time:
// empty input means now, a date-only value expands to UTC midnight, and a
// full timestamp passes through.
func NormalizeReleaseDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return now.UTC()
}
