package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dgellow/review-front/internal/tokenstore"
	"github.com/dgellow/review-front/internal/urlutil"
)

// RequestError is returned for non-2xx responses from the backend API.
// The status code is logged, never shown to the user.
type RequestError struct {
	StatusCode int
	Path       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend request %s failed: status %d", e.Path, e.StatusCode)
}

// Client issues authenticated requests to the code-review backend API.
// It attaches the stored session token as a bearer credential. It never
// redirects and never retries; session decisions belong to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend API client for the given base URL
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
}

// NewClientWithHTTPClient creates a backend API client with a custom
// http.Client, used by tests
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// LoginURL returns the backend endpoint that starts the identity-provider
// sign-in flow. It is handed to the browser as a plain link, never fetched.
func (c *Client) LoginURL() string {
	return urlutil.MustJoinPath(c.baseURL, "/api/auth/login")
}

// Get reads the current session token and issues an authenticated GET to
// the backend at path, decoding the JSON response into out.
//
// When no token is stored it returns tokenstore.ErrNoToken without issuing
// a request; redirecting to sign-in is the caller's responsibility. Non-2xx
// responses are reported as *RequestError, transport failures as wrapped
// errors. Nothing is retried.
func (c *Client) Get(ctx context.Context, ts tokenstore.Store, path string, out any) error {
	token, err := ts.Read()
	if err != nil {
		return err
	}

	url, err := urlutil.JoinPath(c.baseURL, path)
	if err != nil {
		return fmt.Errorf("building request URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{StatusCode: resp.StatusCode, Path: path}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}
