// Package apiclient is a small REST client for the posts API with a
// query cache and optimistic like updates. Responses are decoded through
// the standard envelope; cache entries are keyed by resource plus
// canonicalized filters and expire on a fixed TTL.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = time.Minute * 5
	maxAttempts      = 3
	retryBackoff     = time.Millisecond * 200
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string

	cache *queryCache
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newQueryCache(defaultCacheSize, ttl)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Second * 15},
		cache:      newQueryCache(defaultCacheSize, defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Envelope is the standard response wrapper every endpoint returns.
type Envelope struct {
	Success   bool            `json:"success"`
	Status    int             `json:"status"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message,omitempty"`
	Errors    json.RawMessage `json:"errors,omitempty"`
	Version   string          `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
}

// APIError is a non-success envelope surfaced as an error.
type APIError struct {
	Status  int
	Message string
	Errors  json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

func (e *APIError) IsConflict() bool {
	return e.Status == http.StatusConflict
}

// doJSON performs a request, decodes the envelope and unmarshals its data
// into out. Transport errors and 5xx responses are retried up to
// maxAttempts; 4xx responses are returned immediately as *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
			continue
		}

		var envelope Envelope
		if err := json.Unmarshal(respBody, &envelope); err != nil {
			return fmt.Errorf("decode envelope: %w", err)
		}

		if !envelope.Success {
			return &APIError{
				Status:  envelope.Status,
				Message: envelope.Message,
				Errors:  envelope.Errors,
			}
		}

		if out != nil && len(envelope.Data) > 0 {
			if err := json.Unmarshal(envelope.Data, out); err != nil {
				return fmt.Errorf("decode data: %w", err)
			}
		}
		return nil
	}

	return lastErr
}
