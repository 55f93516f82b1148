package models

import "time"

// Gadget represents a catalog entry as returned by the WiseTech API.
type Gadget struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	ImageURL      string    `json:"image_url,omitempty"`
	ReleaseDate   time.Time `json:"release_date"`
	AverageRating float64   `json:"average_rating,omitempty"`
	ReviewCount   int       `json:"review_count,omitempty"`
}

// GadgetInput is the admin create/update payload. Price and release date are
// normalized before transmission; see dashboard.NormalizeGadgetInput.
type GadgetInput struct {
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	ReleaseDate time.Time `json:"release_date"`
}

// GadgetFilter holds the optional query parameters for catalog listing.
// Zero-valued fields are omitted from the request entirely.
type GadgetFilter struct {
	Category string
	Brand    string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Page     int
	PageSize int
}
