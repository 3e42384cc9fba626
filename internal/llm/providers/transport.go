// Package providers holds the HTTP plumbing shared by the backend adapters
package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/rpg-dialogue/internal/errors"
)

const (
	// MaxResponseBytes caps how much of a backend response is read
	MaxResponseBytes = 4 << 20

	maxErrorBody = 256
)

// Client issues JSON requests against one backend base URL. Deadlines come
// from the request context.
type Client struct {
	http    *http.Client
	baseURL string
	headers map[string]string
}

// NewClient creates a client. A nil httpClient uses a default client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: map[string]string{},
	}
}

// WithBearer sets an Authorization header on every request
func (c *Client) WithBearer(token string) *Client {
	if token != "" {
		c.headers["Authorization"] = "Bearer " + token
	}
	return c
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches path and returns the body of a 2xx response
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", path)
	}
	return c.do(ctx, req)
}

// PostJSON sends payload as JSON and returns the body of a 2xx response
func (c *Client) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req)
}

// Ping succeeds when path answers with a 2xx status
func (c *Client) Ping(ctx context.Context, path string) error {
	_, err := c.Get(ctx, path)
	return err
}

func (c *Client) do(ctx context.Context, req *http.Request) ([]byte, error) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, transportError(ctx, err)
	}
	if len(body) > MaxResponseBytes {
		return nil, errors.Internalf("backend response exceeds %d bytes", MaxResponseBytes).
			WithMeta("http_status", resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, body)
	}
	return body, nil
}

func transportError(ctx context.Context, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return errors.WrapWithCode(err, errors.CodeDeadlineExceeded, "request timed out")
	case context.Canceled:
		return errors.WrapWithCode(err, errors.CodeCanceled, "request canceled")
	default:
		return errors.WrapWithCode(err, errors.CodeUnavailable, "backend unreachable")
	}
}

func statusError(status int, body []byte) error {
	snippet := truncate(strings.TrimSpace(string(body)), maxErrorBody)
	msg := fmt.Sprintf("backend returned %d", status)
	if snippet != "" {
		msg = fmt.Sprintf("%s: %s", msg, snippet)
	}

	var e *errors.Error
	switch {
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		e = errors.DeadlineExceeded(msg)
	case status == http.StatusTooManyRequests,
		status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		status >= 500:
		e = errors.Unavailable(msg)
	default:
		e = errors.Internal(msg)
	}
	return e.WithMeta("http_status", status)
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
