package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/steamworks-go/errors"
)

// DefaultBaseURL is the vendor's public Web API endpoint.
const DefaultBaseURL = "https://api.steampowered.com"

const defaultTimeout = 15 * time.Second

// Client talks to the vendor Web API. Safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
	key     string
	retries int
}

// Option configures a Client.
type Option func(*Client)

// WithKey sets the API key sent with keyed operations.
func WithKey(key string) Option {
	return func(c *Client) { c.key = key }
}

// WithBaseURL points the client at a different endpoint. Used by tests
// and by hosts routing through a proxy.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetries sets how many times transport and 5xx failures are
// retried. Zero disables retrying.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// New creates a Web API client.
func New(opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: DefaultBaseURL,
		retries: 2,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs one GET with bounded retries and decodes the JSON body
// into out. 4xx responses fail immediately; transport errors and 5xx
// responses are retried with a short linear backoff.
func (c *Client) get(ctx context.Context, op, iface, method string, version int, params url.Values, out any) error {
	if c.key != "" {
		params.Set("key", c.key)
	}
	endpoint := fmt.Sprintf("%s/%s/%s/v%d/?%s", c.baseURL, iface, method, version, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(op, errors.KindNativeCallFailure, ctx.Err(), "request canceled")
			case <-time.After(time.Duration(attempt) * 250 * time.Millisecond):
			}
			Logger().Debug("retrying web api request",
				zap.String("op", op), zap.Int("attempt", attempt))
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return errors.Wrap(op, errors.KindNativeCallFailure, err, "building request")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = errors.Wrap(op, errors.KindNativeCallFailure, err, "transport failure")
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			lastErr = errors.New(op, errors.KindNativeCallFailure).
				Detail("server error %s", resp.Status).
				Code(int32(resp.StatusCode)).
				Build()
			continue
		case resp.StatusCode != http.StatusOK:
			return errors.New(op, errors.KindNativeCallFailure).
				Detail("unexpected status %s", resp.Status).
				Code(int32(resp.StatusCode)).
				Build()
		}
		if readErr != nil {
			lastErr = errors.Wrap(op, errors.KindNativeCallFailure, readErr, "reading response")
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrap(op, errors.KindNativeCallFailure, err, "decoding response")
		}
		return nil
	}
	return lastErr
}
