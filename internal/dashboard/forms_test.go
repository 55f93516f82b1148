package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCoercePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"plain", "499.99", 499.99},
		{"integer", "1200", 1200},
		{"whitespace", "  42.5 ", 42.5},
		{"empty", "", 0},
		{"non numeric", "abc", 0},
		{"trailing junk", "12kr", 0},
		{"nan", "NaN", 0},
		{"positive inf", "+Inf", 0},
		{"negative inf", "-Inf", 0},
		{"negative", "-5", -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoercePrice(tt.input))
		})
	}
}

func TestNormalizeReleaseDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	t.Run("empty resolves to now in UTC", func(t *testing.T) {
		got := NormalizeReleaseDate("", now)
		assert.True(t, got.Equal(now))
		assert.Equal(t, time.UTC, got.Location())
	})

	t.Run("date only expands to UTC midnight", func(t *testing.T) {
		got := NormalizeReleaseDate("2025-11-07", now)
		assert.Equal(t, time.Date(2025, 11, 7, 0, 0, 0, 0, time.UTC), got)
	})

	t.Run("full timestamp passes through", func(t *testing.T) {
		got := NormalizeReleaseDate("2025-11-07T09:15:00Z", now)
		assert.Equal(t, time.Date(2025, 11, 7, 9, 15, 0, 0, time.UTC), got)
	})

	t.Run("unparseable falls back to now", func(t *testing.T) {
		got := NormalizeReleaseDate("next tuesday", now)
		assert.True(t, got.Equal(now))
	})
}

func TestGadgetFormNormalize(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	form := GadgetForm{
		Name:        "Pixel Slab",
		Brand:       "Acme",
		Category:    "tablets",
		Description: "A slab of pixels",
		ImageURL:    "https://img.example.com/slab.png",
		Price:       "only $99",
		ReleaseDate: "2026-01-15",
	}

	in := form.Normalize(now)
	assert.Equal(t, "Pixel Slab", in.Name)
	assert.Equal(t, float64(0), in.Price)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), in.ReleaseDate)
}
