// Package transport delivers webhook requests over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client issues one HTTP request per webhook delivery. Errors it
// returns never contain the request URL.
type Client struct {
	http *http.Client
}

func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: defaultTimeout},
	}
}

// Send performs the request and treats any non-2xx status as a failure.
func (c *Client) Send(ctx context.Context, method, requestURL string, header http.Header, body string) error {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, strings.NewReader(body))
	if err != nil {
		return sanitize(err)
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return sanitize(err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("received non-2xx response: %d", resp.StatusCode)
	}

	return nil
}

// sanitize strips the request URL that net/http embeds in its errors.
// Webhook URLs routinely carry secret tokens and must not show up in
// error output.
func sanitize(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
