// Package fetch retrieves JSON documents over HTTP for ad-hoc data pulls.
//
// Fetch failures are logged and reported as an empty object instead of an
// error, so a batch of pulls keeps going when one endpoint misbehaves.
package fetch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// maxBody caps how much of a response is decoded.
const maxBody = 32 << 20

// Client performs JSON GET requests.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// New returns a Client with the given timeout and user agent.
func New(timeout time.Duration, userAgent string, logger *slog.Logger) *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Logger:    logger,
	}
}

// JSON GETs rawURL with params merged into its query string and headers set
// on the request, and decodes the body.
//
// It never fails: a transport error, a non-2xx status or an undecodable body
// is logged and an empty map is returned.
func (c *Client) JSON(ctx context.Context, rawURL string, params, headers map[string]string) any {
	logger := c.logger().With("url", rawURL)

	req, err := c.newRequest(ctx, rawURL, params, headers)
	if err != nil {
		logger.Error("request failed", "error", err)
		return map[string]any{}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		logger.Error("request failed", "error", err)
		return map[string]any{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		logger.Error("HTTP error", "status", resp.StatusCode)
		return map[string]any{}
	}

	var doc any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&doc); err != nil {
		logger.Error("JSON decode failed", "status", resp.StatusCode, "error", err)
		return map[string]any{}
	}

	logger.Debug("fetched json", "status", resp.StatusCode)
	return doc
}

func (c *Client) newRequest(ctx context.Context, rawURL string, params, headers map[string]string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
