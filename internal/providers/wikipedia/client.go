package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const defaultBaseURL = "https://en.wikipedia.org"

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the Wikipedia base URL (useful for testing).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// Client looks up article summaries. A query resolves to zero or one item.
type Client struct {
	log        *logger.Logger
	httpClient HTTPClient
	baseURL    string
}

func NewClient(log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		log:        log.With("provider", "wikipedia"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() providers.Source {
	return providers.SourceWikipedia
}

func (c *Client) Category() providers.Category {
	return providers.CategoryArticles
}

// Search tries a direct summary lookup first and falls back to opensearch when
// the query is not an exact page title.
func (c *Client) Search(ctx context.Context, query string) ([]providers.Item, error) {
	summary, err := c.fetchSummary(ctx, query)
	if err == nil && summary != nil {
		return []providers.Item{c.formatResult(summary)}, nil
	}

	title, err := c.openSearch(ctx, query)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, nil
	}
	summary, err = c.fetchSummary(ctx, title)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		return nil, nil
	}
	return []providers.Item{c.formatResult(summary)}, nil
}

func (c *Client) fetchSummary(ctx context.Context, title string) (*summaryResponse, error) {
	endpoint := fmt.Sprintf("%s/api/rest_v1/page/summary/%s", c.baseURL, url.PathEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no summary for %q", title)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("wikipedia summary returned HTTP %d", resp.StatusCode)
	}

	var summary summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	if summary.Title == "" {
		return nil, nil
	}
	return &summary, nil
}

func (c *Client) openSearch(ctx context.Context, query string) (string, error) {
	endpoint := fmt.Sprintf("%s/w/api.php?action=opensearch&search=%s&limit=1&format=json&origin=*", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia opensearch returned HTTP %d", resp.StatusCode)
	}

	// Opensearch replies with a positional array: [query, [titles], ...].
	var payload []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode opensearch response: %w", err)
	}
	if len(payload) < 2 {
		return "", nil
	}
	var titles []string
	if err := json.Unmarshal(payload[1], &titles); err != nil {
		return "", nil
	}
	if len(titles) == 0 {
		return "", nil
	}
	return titles[0], nil
}

func (c *Client) formatResult(summary *summaryResponse) providers.Item {
	id := strconv.Itoa(summary.PageID)
	description := summary.Extract
	if description == "" {
		description = "No description available"
	}
	imageURL := ""
	if summary.Thumbnail != nil {
		imageURL = summary.Thumbnail.Source
	}
	extra := map[string]interface{}{
		"lang": summary.Lang,
	}
	if summary.ContentURLs != nil {
		extra["url"] = summary.ContentURLs.Desktop.Page
	}
	return providers.Item{
		ID:          id,
		Title:       summary.Title,
		Description: providers.TruncateDescription(description, 300),
		ImageURL:    imageURL,
		Category:    providers.CategoryArticles,
		Source:      providers.SourceWikipedia,
		Extra:       extra,
	}
}
