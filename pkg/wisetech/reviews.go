package wisetech

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wisetech/console/internal/models"
)

// ReviewPage is the paginated response of the public review listing.
type ReviewPage struct {
	Reviews     []models.Review `json:"reviews"`
	Total       int             `json:"total"`
	TotalPages  int             `json:"total_pages"`
	CurrentPage int             `json:"current_page"`
	Limit       int             `json:"limit"`
}

// Reviews lists reviews across the platform with optional filters.
func (c *Client) Reviews(ctx context.Context, filter models.ReviewFilter) (*ReviewPage, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.Search != "" {
		q.Set("search", filter.Search)
	}
	if filter.Rating > 0 {
		q.Set("rating", strconv.Itoa(filter.Rating))
	}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	var page ReviewPage
	if err := c.call(ctx, http.MethodGet, withQuery("/api/reviews", q), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// RecentReviews returns the latest reviews across all gadgets.
func (c *Client) RecentReviews(ctx context.Context, limit int) ([]models.Review, error) {
	endpoint := "/api/reviews/recent"
	if limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", endpoint, limit)
	}
	var reviews []models.Review
	if err := c.call(ctx, http.MethodGet, endpoint, nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview posts a new review as the authenticated user.
func (c *Client) CreateReview(ctx context.Context, in models.ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.call(ctx, http.MethodPost, "/api/reviews", in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview edits an existing review owned by the authenticated user.
func (c *Client) UpdateReview(ctx context.Context, id int, in models.ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.call(ctx, http.MethodPut, fmt.Sprintf("/api/reviews/%d", id), in, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review owned by the authenticated user.
func (c *Client) DeleteReview(ctx context.Context, id int) error {
	return c.call(ctx, http.MethodDelete, fmt.Sprintf("/api/reviews/%d", id), nil, nil)
}

// UserReviews returns the authenticated user's own reviews.
func (c *Client) UserReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.call(ctx, http.MethodGet, "/api/users/reviews", nil, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
