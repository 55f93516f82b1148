package wisetech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the development API server.
const DefaultBaseURL = "http://localhost:8000"

// Config holds WiseTech API client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Debug   bool
}

// Client talks to the WiseTech REST API. It is safe for concurrent use.
// A zero token means requests go out unauthenticated; use WithToken to bind
// a bearer token for a session's requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	debug      bool
}

// NewClient creates a WiseTech API client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		debug:      cfg.Debug,
	}
}

// WithToken returns a shallow copy of the client that attaches the given
// bearer token to every request. The underlying transport is shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// call performs a JSON request against the API. The bearer token is attached
// when present, and any non-2xx response is returned as *HTTPError. A nil
// result discards the response body.
func (c *Client) call(ctx context.Context, method, endpoint string, body any, result any) error {
	var reqBody io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("endpoint", endpoint).
			RawJSON("request", rawOrNull(raw)).
			Msg("[WISETECH] Outgoing request")
	}

	return c.do(req, endpoint, result)
}

// callForm performs a form-encoded request. The login endpoint expects
// username/password as form fields rather than JSON.
func (c *Client) callForm(ctx context.Context, method, endpoint string, form url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.do(req, endpoint, result)
}

// callMultipart performs a multipart request, bypassing the JSON content type
// but still attaching the bearer token. Used for the profile photo upload.
func (c *Client) callMultipart(ctx context.Context, method, endpoint, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.do(req, endpoint, result)
}

func (c *Client) do(req *http.Request, endpoint string, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			Msg("[WISETECH] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if result == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func rawOrNull(b []byte) []byte {
	if len(b) == 0 {
		return []byte("null")
	}
	return b
}

// withQuery appends encoded query parameters to an endpoint, leaving it
// untouched when there are none. Unset filters are omitted, not sent empty.
func withQuery(endpoint string, q url.Values) string {
	if len(q) == 0 {
		return endpoint
	}
	return endpoint + "?" + q.Encode()
}
