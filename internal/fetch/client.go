// Package fetch provides the harvester's HTTP boundary: a shared client
// with per-request timeouts and polite per-host pacing, plus the bounded
// worker pool the sources schedule their day/candidate tasks on.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0"

// Client wraps http.Client with a request timeout and an optional rate
// limiter. A non-200 status or transport error is a candidate miss, not a
// failure: callers get ok=false and move on to the next guess.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a Client with the given per-request timeout. A
// requestsPerSecond of zero disables pacing.
func NewClient(timeout time.Duration, requestsPerSecond float64) *Client {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   limiter,
		userAgent: defaultUserAgent,
	}
}

// WithTimeout returns a Client sharing the limiter but using a different
// per-request timeout (the spreadsheet source probes with a short one).
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   c.limiter,
		userAgent: c.userAgent,
	}
}

// Get downloads rawURL. ok is true only for HTTP 200 with a readable body.
func (c *Client) Get(ctx context.Context, rawURL string) (body []byte, ok bool, err error) {
	if err := c.wait(ctx); err != nil {
		return nil, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.do(req)
}

// PostForm posts form values to rawURL with the given extra headers.
// The NOSBiH endpoint wants X-Requested-With to serve the table fragment.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string) (body []byte, ok bool, err error) {
	if err := c.wait(ctx); err != nil {
		return nil, false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, false, fmt.Errorf("build request %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, bool, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		// timeouts and connection errors rank the same as a 404
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, false, nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("read body %s: %w", req.URL, err)
	}
	return body, true, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}
