package goodreads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	defaultTimeout = 30 * time.Second
	maxRedirects   = 10
	maxFeedBytes   = 16 << 20
	userAgent      = "Shelfgraph/1.0 (https://github.com/mrlokans/shelfgraph)"
)

// DefaultAllowedHosts are the origins a shelf feed may be fetched from.
var DefaultAllowedHosts = []string{"goodreads.com", "www.goodreads.com"}

// Client downloads and parses Goodreads shelf feeds
type Client struct {
	httpClient   *http.Client
	allowedHosts map[string]struct{}
}

// NewClient creates a feed client. A zero timeout uses the default and an
// empty host list uses DefaultAllowedHosts.
func NewClient(timeout time.Duration, allowedHosts []string) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if len(allowedHosts) == 0 {
		allowedHosts = DefaultAllowedHosts
	}

	hosts := make(map[string]struct{}, len(allowedHosts))
	for _, h := range allowedHosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hosts[h] = struct{}{}
		}
	}

	c := &Client{allowedHosts: hosts}
	c.httpClient = &http.Client{
		Timeout:       timeout,
		CheckRedirect: c.checkRedirect,
	}
	return c
}

// checkRedirect applies the feed URL checks to every redirect target.
func (c *Client) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	_, err := c.ValidateFeedURL(req.URL.String())
	return err
}

// ValidateFeedURL checks that feedURL is an absolute http(s) URL on an allowed host.
func (c *Client) ValidateFeedURL(feedURL string) (*url.URL, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidFeedURL)
	}

	u, err := url.Parse(feedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFeedURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidFeedURL, feedURL)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	if _, ok := c.allowedHosts[strings.ToLower(u.Hostname())]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrForeignOrigin, u.Hostname())
	}

	return u, nil
}

// Fetch downloads the feed at feedURL and parses it.
func (c *Client) Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	u, err := c.ValidateFeedURL(feedURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	feed, err := gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	return feed, nil
}
