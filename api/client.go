// ABOUTME: HTTP client core for the revenue operations REST API
// ABOUTME: Handles auth headers, fixed request timeout, and typed error mapping
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout guards against a hung call blocking the fetch coordinator
// indefinitely.
const DefaultTimeout = 10 * time.Second

// AuthError means the API rejected our credentials. Callers degrade the
// affected call to an empty result and surface a distinct message.
type AuthError struct {
	Endpoint string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s", e.Endpoint)
}

// NetworkError wraps a transient transport failure.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConflictError means the API rejected a write; optimistic state must be
// rolled back.
type ConflictError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("write to %s rejected (%d): %s", e.Endpoint, e.Status, e.Message)
}

// IsAuthError reports whether err is (or wraps) an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// Client talks to the revenue operations API.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. An empty timeout
// falls back to DefaultTimeout.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   baseURL,
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// get issues a GET and decodes the JSON response into out. When bust is
// true a cache-busting discriminator is appended so intermediaries cannot
// serve a stale response.
func (c *Client) get(ctx context.Context, path string, query url.Values, bust bool, out interface{}) error {
	if query == nil {
		query = url.Values{}
	}
	if bust {
		query.Set("_", strconv.FormatInt(time.Now().UnixMilli(), 10))
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, path, out)
}

// send issues a request with a JSON body (POST/PUT/DELETE) and decodes the
// response into out when out is non-nil.
func (c *Client) send(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	err = c.do(req, path, out)
	if err == nil {
		return nil
	}

	// Writes map HTTP-level rejections to ConflictError so the mutation
	// layer knows to roll back rather than retry.
	var ne *NetworkError
	if method != http.MethodGet && errors.As(err, &ne) {
		if se, ok := ne.Err.(*statusError); ok {
			return &ConflictError{Endpoint: path, Status: se.code, Message: se.body}
		}
	}
	return err
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (c *Client) do(req *http.Request, path string, out interface{}) error {
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	req.Header.Set("Accept", "application/json")
	// Request ids let server logs be correlated with a specific client call.
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &AuthError{Endpoint: path}
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &NetworkError{Endpoint: path, Err: &statusError{code: resp.StatusCode, body: string(data)}}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
