package wisetech

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wisetech/console/internal/models"
)

// Gadgets lists the catalog with optional filters. Unset filters are omitted
// from the query string entirely.
func (c *Client) Gadgets(ctx context.Context, filter models.GadgetFilter) ([]models.Gadget, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Brand != "" {
		q.Set("brand", filter.Brand)
	}
	if filter.MinPrice != nil {
		q.Set("min_price", strconv.FormatFloat(*filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice != nil {
		q.Set("max_price", strconv.FormatFloat(*filter.MaxPrice, 'f', -1, 64))
	}
	if filter.SortBy != "" {
		q.Set("sort_by", filter.SortBy)
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(filter.PageSize))
	}

	var gadgets []models.Gadget
	if err := c.call(ctx, http.MethodGet, withQuery("/api/gadgets", q), nil, &gadgets); err != nil {
		return nil, err
	}
	return gadgets, nil
}

// FeaturedGadgets returns the front-page selection.
func (c *Client) FeaturedGadgets(ctx context.Context, limit int) ([]models.Gadget, error) {
	endpoint := "/api/gadgets/featured"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var gadgets []models.Gadget
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &gadgets); err != nil {
		return nil, err
	}
	return gadgets, nil
}

// SearchGadgets runs a full-text catalog search, optionally scoped to a
// category. A category of "all" means unscoped.
func (c *Client) SearchGadgets(ctx context.Context, query, category string) ([]models.Gadget, error) {
	q := url.Values{}
	q.Set("query", query)
	if category != "" && category != "all" {
		q.Set("category", category)
	}
	var gadgets []models.Gadget
	if err := c.call(ctx, http.MethodGet, withQuery("/api/gadgets/search", q), nil, &gadgets); err != nil {
		return nil, err
	}
	return gadgets, nil
}

// Gadget returns a single catalog entry.
func (c *Client) Gadget(ctx context.Context, id int) (*models.Gadget, error) {
	var gadget models.Gadget
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/gadgets/%d", id), nil, &gadget); err != nil {
		return nil, err
	}
	return &gadget, nil
}

// GadgetReviews returns the reviews for a single gadget.
func (c *Client) GadgetReviews(ctx context.Context, gadgetID int) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/api/gadgets/%d/reviews", gadgetID), nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
