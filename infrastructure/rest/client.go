// Package rest wraps the marketplace REST endpoints.
// Every call takes a context: cancelling it aborts the request.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"rentchat/auth"
	"rentchat/errors"
	"strings"
	"time"
)

// APIError is a non-2xx answer. It unwraps to the matching sentinel
// (ErrBadRequest, ErrSessionExpired, ErrNotFound...).
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %s", e.kind, e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     *slog.Logger
}

// NewClient builds a client whose transport injects the persisted bearer token.
// onUnauthorized runs when the server rejects a token, typically to clear the session.
func NewClient(baseURL string, timeout time.Duration, tokens auth.TokenSource,
	onUnauthorized func(), log *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", baseURL, err)
	}
	return &Client{
		baseURL: parsed,
		http: &http.Client{
			Timeout: timeout,
			Transport: &auth.BearerTransport{
				Tokens:         tokens,
				OnUnauthorized: onUnauthorized,
			},
		},
		log: log,
	}, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends body as JSON (when not nil) and decodes the answer into out (when not nil).
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Debug("Request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return fmt.Errorf("%w: %v", errors.ErrNetwork, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}()
	c.log.Debug(fmt.Sprintf("%s %s -> %d in %s", req.Method, req.URL.Path, res.StatusCode, time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return decodeError(res)
	}
	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func decodeError(res *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body)
	message := body.Message
	if message == "" {
		message = body.Error
	}
	return &APIError{Status: res.StatusCode, Message: message, kind: kindOf(res.StatusCode)}
}

func kindOf(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return errors.ErrSessionExpired
	case status == http.StatusForbidden:
		return errors.ErrForbidden
	case status == http.StatusNotFound:
		return errors.ErrNotFound
	case status >= 500:
		return errors.ErrServer
	default:
		return errors.ErrBadRequest
	}
}
