// Package scraper provides access to extracted web-page content, either via
// the external scraper server (treated as a black box) or a local fallback.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/marketing-intel/internal/fetch"
)

// MaxContentLength caps extracted text so prompts stay within model budgets.
const MaxContentLength = 12000

// DefaultTimeout bounds a single extraction request to the scraper server.
const DefaultTimeout = 60 * time.Second

// Page is the extracted content for one target URL.
type Page struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Extractor supplies page content for a target domain or URL.
type Extractor interface {
	Extract(ctx context.Context, target string) (*Page, error)
}

// TargetURL sanitizes a target into a fetchable URL: bare domains get an
// https:// scheme prepended.
func TargetURL(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return target
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return "https://" + target
	}
	return target
}

// Client talks to the external scraper server over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a scraper client for the given server base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Extract asks the scraper server for the extracted text of a target page.
func (c *Client) Extract(ctx context.Context, target string) (*Page, error) {
	pageURL := TargetURL(target)

	body, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return nil, &ExtractError{Target: target, Message: "failed to encode request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", strings.NewReader(string(body)))
	if err != nil {
		return nil, &ExtractError{Target: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ExtractError{Target: target, Message: "scraper server unreachable", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractError{Target: target, Message: fmt.Sprintf("scraper server returned HTTP %d", resp.StatusCode)}
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &ExtractError{Target: target, Message: "failed to decode response", Cause: err}
	}
	if page.URL == "" {
		page.URL = pageURL
	}
	page.Content = Truncate(page.Content)

	if strings.TrimSpace(page.Content) == "" {
		return nil, &ExtractError{Target: target, Message: "scraper server returned empty content"}
	}

	return &page, nil
}

// Health probes the scraper server. Any HTTP response, including errors like
// 404 or 405, means the server process is alive; only a transport failure
// counts as dead.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scraper server unreachable: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// Truncate caps content at MaxContentLength bytes, backing up so the cut
// never splits a multi-byte rune.
func Truncate(content string) string {
	if len(content) <= MaxContentLength {
		return content
	}
	cut := MaxContentLength
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}

// Local extracts page text by fetching the page directly, without the
// external scraper server. Used when SCRAPER_URL is not configured.
type Local struct {
	UseBrowser bool
	Verbose    bool
}

// NewLocal creates a direct-fetch extractor.
func NewLocal(useBrowser, verbose bool) *Local {
	return &Local{UseBrowser: useBrowser, Verbose: verbose}
}

// Extract fetches the target page and extracts its readable text. When the
// extracted text looks like an unrendered SPA shell and browser fallback is
// enabled, the page is re-rendered in a headless browser.
func (l *Local) Extract(ctx context.Context, target string) (*Page, error) {
	pageURL := TargetURL(target)

	result, err := fetch.URL(ctx, pageURL, nil)
	if err != nil {
		return nil, &ExtractError{Target: target, Message: "fetch failed", Cause: err}
	}

	text, err := fetch.ExtractPageText(result.HTML, fetch.MarketingPageSelectors())
	if err != nil {
		return nil, &ExtractError{Target: target, Message: "extraction failed", Cause: err}
	}

	if l.UseBrowser && fetch.ShouldUseBrowser(text) {
		html, berr := fetch.WithBrowser(ctx, pageURL, 30*time.Second, l.Verbose)
		if berr == nil {
			if rendered, rerr := fetch.ExtractPageText(html, fetch.MarketingPageSelectors()); rerr == nil {
				text = rendered
			}
		}
	}

	if strings.TrimSpace(text) == "" {
		return nil, &ExtractError{Target: target, Message: "page produced no text"}
	}

	return &Page{URL: pageURL, Content: Truncate(text)}, nil
}
