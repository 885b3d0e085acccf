// Package fetch talks to the content extraction service that turns a URL
// into readable text. The service is treated as opaque and unreliable;
// callers decide what to do with failures.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lendlens/lendlens/internal/config"
)

// ExtractionRules narrows what the service pulls out of a page.
type ExtractionRules struct {
	Extract     string   `json:"extract,omitempty"`
	IncludeTags []string `json:"includeTags,omitempty"`
	ExcludeTags []string `json:"excludeTags,omitempty"`
	Selectors   []string `json:"selectors,omitempty"`
}

// DefaultRules extracts general page text, skipping chrome and scripts.
func DefaultRules() ExtractionRules {
	return ExtractionRules{
		Extract:     "text",
		IncludeTags: []string{"p", "h1", "h2", "h3", "h4", "h5", "h6", "span", "div"},
		ExcludeTags: []string{"script", "style", "nav", "footer", "header"},
	}
}

// Fetcher produces raw content for a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string, rules ExtractionRules) (string, error)
}

// Client is a Fetcher backed by a Firecrawl-style crawl endpoint.
type Client struct {
	baseURL      string
	apiKey       string
	localExtract bool
	httpClient   *http.Client
}

var _ Fetcher = (*Client)(nil)

// NewClient builds a fetch client from configuration.
func NewClient(cfg config.CrawlerConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		localExtract: cfg.LocalExtract,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type crawlRequest struct {
	URL             string          `json:"url"`
	ExtractionRules ExtractionRules `json:"extraction_rules"`
}

type crawlResponse struct {
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
}

// Fetch posts a crawl request and returns the extracted content. When the
// service hands back raw HTML and local extraction is enabled, the markup
// is reduced to text with the same include/exclude rules.
func (c *Client) Fetch(ctx context.Context, url string, rules ExtractionRules) (string, error) {
	if c == nil {
		return "", fmt.Errorf("fetch client is nil")
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("crawler base URL is not configured")
	}
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("url is required")
	}

	body, err := json.Marshal(crawlRequest{URL: url, ExtractionRules: rules})
	if err != nil {
		return "", fmt.Errorf("marshal crawl request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/crawl", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("crawl %s: %w", url, err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("crawl %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded crawlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode crawl response: %w", err)
	}
	if decoded.Error != "" {
		return "", fmt.Errorf("crawl %s: %s", url, decoded.Error)
	}

	content := decoded.Content
	if c.localExtract && looksLikeHTML(content) {
		extracted, err := ExtractText(content, rules)
		if err == nil && strings.TrimSpace(extracted) != "" {
			content = extracted
		}
	}

	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("crawl %s: empty content", url)
	}
	return content, nil
}

func looksLikeHTML(content string) bool {
	trimmed := strings.TrimSpace(content)
	return strings.HasPrefix(trimmed, "<") && strings.Contains(trimmed, ">")
}
