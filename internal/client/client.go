// Package client talks to a running `qbank serve` over HTTP. It implements
// the same resource API as the local SQLite store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"qbank/internal/store"
)

const (
	DefaultBaseURL  = "http://127.0.0.1:7410"
	defaultTimeout  = 10 * time.Second
	requestIDHeader = "X-Request-ID"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type HealthResponse struct {
	OK bool `json:"ok"`
}

func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Str("request_id", reqID).Msg("request failed")
		return err
	}
	defer resp.Body.Close()
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Str("request_id", reqID).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	type errorPayload struct {
		Error string `json:"error"`
	}
	var payload errorPayload
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status, RequestID: resp.Header.Get(requestIDHeader)}
	if payload.Error != "" {
		apiErr.Message = payload.Error
	}
	apiErr.Err = storeError(apiErr.StatusCode, payload.Error)
	return apiErr
}

// storeError recovers the persistence error the server mapped onto status, so
// callers match errors the same way against the server and the local store.
func storeError(status int, msg string) error {
	switch status {
	case http.StatusConflict:
		return store.ErrDuplicateTitle
	case http.StatusNotFound:
		kind, id, ok := strings.Cut(msg, " not found: ")
		if !ok {
			return store.NotFoundError{Kind: "resource", ID: strings.TrimSpace(msg)}
		}
		return store.NotFoundError{Kind: kind, ID: id}
	case http.StatusBadRequest:
		switch msg {
		case store.ErrEmptyTitle.Error():
			return store.ErrEmptyTitle
		case store.ErrEmptyScope.Error():
			return store.ErrEmptyScope
		}
	}
	return nil
}

// APIError is a non-2xx response. Err is the matching store error, if any.
type APIError struct {
	StatusCode int
	Message    string
	RequestID  string
	Err        error
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}

func pathID(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
