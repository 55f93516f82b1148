package wisetech

import (
	"context"
	"net/http"
	"net/url"

	"github.com/wisetech/console/internal/models"
)

// TokenResponse is the login endpoint response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for an access token. The endpoint expects
// form-encoded username/password; the username field carries the email.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var tok TokenResponse
	if err := c.callForm(ctx, http.MethodPost, "/api/auth/login", form, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, in models.UserCreate) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodPost, "/api/auth/register", in, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser returns the account bound to the client's token.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.call(ctx, http.MethodGet, "/api/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
