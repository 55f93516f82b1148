package wisetech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/wisetech/console/internal/models"
)

// Profile returns the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile edits the authenticated user's profile and returns the
// updated record.
func (c *Client) UpdateProfile(ctx context.Context, in models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodPut, "/api/users/profile", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// PhotoResponse is the upload endpoint response.
type PhotoResponse struct {
	ProfilePhoto string `json:"profile_photo"`
	Message      string `json:"message,omitempty"`
}

// UploadProfilePhoto sends a profile photo as multipart form data. This is
// the one request that bypasses the JSON content-type default; the bearer
// token is still attached.
func (c *Client) UploadProfilePhoto(ctx context.Context, filename string, file io.Reader) (*PhotoResponse, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var resp PhotoResponse
	if err := c.callMultipart(ctx, http.MethodPost, "/api/users/profile/photo", mw.FormDataContentType(), &buf, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProfilePhoto removes the authenticated user's profile photo.
func (c *Client) DeleteProfilePhoto(ctx context.Context) error {
	return c.call(ctx, http.MethodDelete, "/api/users/profile/photo", nil, nil)
}
