// Package fetch provides polite, rate-limited URL fetching for the discovery
// crawler. Transport failures and content-policy rejections are not errors:
// callers receive a Result whose Status explains why no document is present.
package fetch

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dhurleystratton/ocp-executive-discovery/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultDelay is the default minimum delay between consecutive requests,
// measured from the end of one request to the start of the next.
const DefaultDelay = 1 * time.Second

// DefaultUserAgent is the browser-like user agent sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/114.0 Safari/537.36"

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	Delay     time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for polite crawling.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		Delay:     DefaultDelay,
		UserAgent: DefaultUserAgent,
	}
}

// Result holds the outcome of a single fetch attempt. Doc is non-nil exactly
// when Status is types.FetchOK.
type Result struct {
	URL    string
	Status types.FetchStatus
	HTML   string
	Doc    *goquery.Document
}

// Client fetches pages with per-instance request pacing. Each Client owns its
// own last-request timestamp, so multiple clients pace independently. A
// single Client never has more than one request in flight: concurrent
// callers queue on the turn lock, so sharing one Client across goroutines
// keeps a domain's traffic strictly serial.
type Client struct {
	httpClient *http.Client
	opts       *Options

	// turn is held for the full span of a request, delay wait included.
	turn sync.Mutex

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a fetch client with the given options.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
	}
}

// waitTurn blocks until the minimum inter-request delay has elapsed since the
// end of the previous request, or the context is cancelled.
func (c *Client) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	wait := c.opts.Delay - time.Since(c.lastRequest)
	c.mu.Unlock()
	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// markRequest records the end of a request so the delay discipline holds for
// the next call regardless of outcome.
func (c *Client) markRequest() {
	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

func (c *Client) do(ctx context.Context, urlStr string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}
	resp, err := c.httpClient.Do(req)
	c.markRequest()
	return resp, err
}

// Fetch retrieves and parses an HTML page. It never returns an error for
// transport or policy failures; the Result's Status records what happened and
// Doc is nil for anything other than a successful HTML response.
func (c *Client) Fetch(ctx context.Context, urlStr string) *Result {
	result := &Result{URL: urlStr, Status: types.FetchTimeout}

	c.turn.Lock()
	defer c.turn.Unlock()
	if err := c.waitTurn(ctx); err != nil {
		return result
	}

	resp, err := c.do(ctx, urlStr)
	if err != nil {
		return result
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		result.Status = types.FetchNotFound
		return result
	case resp.StatusCode >= 400:
		result.Status = types.FetchBlocked
		return result
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.Contains(contentType, "text/html") &&
		!strings.Contains(contentType, "application/xhtml") {
		result.Status = types.FetchNonHTML
		return result
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return result
	}
	result.HTML = string(body)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return result
	}

	result.Status = types.FetchOK
	result.Doc = doc
	return result
}

// FetchText retrieves a URL and returns the raw response body, without any
// content-type gating. Used for robots.txt and sitemap XML documents.
// Returns "" for any transport failure or non-success status.
func (c *Client) FetchText(ctx context.Context, urlStr string) string {
	c.turn.Lock()
	defer c.turn.Unlock()
	if err := c.waitTurn(ctx); err != nil {
		return ""
	}

	resp, err := c.do(ctx, urlStr)
	if err != nil {
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}
	return string(body)
}

// FlattenText returns the visible text of a document with whitespace
// collapsed, the form written to the page cache's .txt files.
func FlattenText(doc *goquery.Document) string {
	if doc == nil {
		return ""
	}
	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	return strings.Join(strings.Fields(text), " ")
}
