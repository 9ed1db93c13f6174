package retailer

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/rationcart/backend/internal/domain"
	"golang.org/x/time/rate"
)

// searchURLs are the per-platform search endpoints. The item name is query-
// escaped into the %s slot.
var searchURLs = map[domain.Platform]string{
	domain.PlatformJioMart:     "https://www.jiomart.com/search/%s",
	domain.PlatformBigBasket:   "https://www.bigbasket.com/ps/?q=%s",
	domain.PlatformDMart:       "https://www.dmart.in/search?searchTerm=%s",
	domain.PlatformAmazonFresh: "https://www.amazon.in/s?k=%s&i=nowstore",
}

// Client fetches retailer search pages. Fetches are rate limited and retried
// a bounded number of times; any terminal failure surfaces as
// ErrRetailerUnavailable so callers can take the fallback path.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	urls        map[domain.Platform]string
	maxRetries  int
	debug       bool
}

// NewClient creates a retailer client. requestsPerSecond bounds outbound
// traffic across all platforms as a courtesy to the remote sites.
func NewClient(requestsPerSecond float64, timeout time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 5),
		urls:        searchURLs,
		maxRetries:  3,
	}
}

// SetDebug enables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FetchListings retrieves the search-result corpus for an item on one
// platform. The returned string is raw page text for the extraction
// patterns to chew on.
func (c *Client) FetchListings(ctx context.Context, platform domain.Platform, itemName string) (string, error) {
	template, ok := c.urls[platform]
	if !ok {
		return "", fmt.Errorf("%w: unknown platform %q", domain.ErrRetailerUnavailable, platform)
	}

	reqURL := fmt.Sprintf(template, url.QueryEscape(itemName))

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter error: %w", err)
		}

		body, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}

		if c.debug {
			log.Printf("[SCRAPE] %s fetch failed (attempt %d): %v", platform, attempt, err)
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt*500) * time.Millisecond):
		}
	}

	return "", fmt.Errorf("%w: %v", domain.ErrRetailerUnavailable, lastErr)
}

func (c *Client) doRequest(ctx context.Context, reqURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) RationCart/1.0")
	req.Header.Set("Accept", "text/html,application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}

	return string(body), nil
}
