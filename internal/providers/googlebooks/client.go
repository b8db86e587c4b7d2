// Package googlebooks provides the book content source, backed by the Google
// Books volumes API.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const defaultBaseURL = "https://www.googleapis.com"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithMaxResults caps the number of volumes requested per search.
func WithMaxResults(maxResults int) ClientOption {
	return func(c *Client) {
		c.maxResults = maxResults
	}
}

type Client struct {
	log        *logger.Logger
	httpClient HTTPClient
	baseURL    string
	maxResults int
}

func NewClient(log *logger.Logger, opts ...ClientOption) *Client {
	c := &Client{
		log:        log.With("provider", "google_books"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		maxResults: 10,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() providers.Source {
	return providers.SourceGoogleBooks
}

func (c *Client) Category() providers.Category {
	return providers.CategoryBooks
}

func (c *Client) Search(ctx context.Context, query string) ([]providers.Item, error) {
	endpoint := fmt.Sprintf("%s/books/v1/volumes?q=%s&maxResults=%d&orderBy=relevance", c.baseURL, url.QueryEscape(query), c.maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google books returned HTTP %d", resp.StatusCode)
	}

	var payload volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode volumes response: %w", err)
	}

	items := make([]providers.Item, 0, len(payload.Items))
	for _, volume := range payload.Items {
		if volume.ID == "" || volume.VolumeInfo.Title == "" {
			continue
		}
		items = append(items, c.formatVolume(volume))
	}
	return items, nil
}

func (c *Client) formatVolume(volume volumeResult) providers.Item {
	description := volume.VolumeInfo.Description
	if description == "" {
		description = "No description available"
	}
	imageURL := ""
	if volume.VolumeInfo.ImageLinks != nil {
		// Book thumbnails come back over plain http; mobile clients refuse it.
		imageURL = strings.Replace(volume.VolumeInfo.ImageLinks.Thumbnail, "http:", "https:", 1)
	}
	return providers.Item{
		ID:          volume.ID,
		Title:       volume.VolumeInfo.Title,
		Description: providers.TruncateDescription(description, 150),
		ImageURL:    imageURL,
		Category:    providers.CategoryBooks,
		Source:      providers.SourceGoogleBooks,
		Extra: map[string]interface{}{
			"authors":       volume.VolumeInfo.Authors,
			"publishedDate": volume.VolumeInfo.PublishedDate,
			"categories":    volume.VolumeInfo.Categories,
		},
	}
}
