package client

import (
	"log/slog"
	"net/http"
	"time"
)

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithBaseURL sets the account API base URL (scheme and host, no /api).
// If not set, defaults to the AUTH_REDUX_SERVER_ADDR environment variable.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithTimeout sets the HTTP request timeout.
// If not set, defaults to 10 seconds. Ignored when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom http.Client for making requests.
// This is useful for testing, proxying, or custom transport configurations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenStore sets the store that persists the bearer token and cached
// user record. If not set, an in-memory store is used and credentials do
// not survive the process.
func WithTokenStore(s TokenStore) Option {
	return func(c *Client) {
		c.tokenStore = s
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithUnauthorizedHook sets the callback invoked once per request that
// received an HTTP 401, after the token store has been cleared. When the
// client is driven through a Manager this is installed automatically.
func WithUnauthorizedHook(fn func(message string)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}
