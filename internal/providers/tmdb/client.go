// Package tmdb provides the movie and TV content sources, backed by The Movie
// Database search API. Without an API key the client serves a small built-in
// demo catalog so the app keeps working in development.
package tmdb

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

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

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

type Client struct {
	log          *logger.Logger
	httpClient   HTTPClient
	baseURL      string
	imageBaseURL string
	apiKey       string
}

// NewClient builds the shared TMDb client. An empty apiKey switches both the
// movie and TV providers to the demo catalog.
func NewClient(log *logger.Logger, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		log:          log.With("provider", "tmdb"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		imageBaseURL: defaultImageBaseURL,
		apiKey:       apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Movies adapts the client to the movie category.
func (c *Client) Movies() providers.Provider {
	return &movieProvider{client: c}
}

// TVShows adapts the client to the TV category.
func (c *Client) TVShows() providers.Provider {
	return &tvProvider{client: c}
}

type movieProvider struct {
	client *Client
}

func (p *movieProvider) Name() providers.Source {
	return providers.SourceTMDB
}

func (p *movieProvider) Category() providers.Category {
	return providers.CategoryMovies
}

func (p *movieProvider) Search(ctx context.Context, query string) ([]providers.Item, error) {
	return p.client.searchMovies(ctx, query)
}

type tvProvider struct {
	client *Client
}

func (p *tvProvider) Name() providers.Source {
	return providers.SourceTMDB
}

func (p *tvProvider) Category() providers.Category {
	return providers.CategoryTVShows
}

func (p *tvProvider) Search(ctx context.Context, query string) ([]providers.Item, error) {
	return p.client.searchTVShows(ctx, query)
}

func (c *Client) searchMovies(ctx context.Context, query string) ([]providers.Item, error) {
	if c.apiKey == "" {
		return filterDemoItems(demoMovies, query), nil
	}

	endpoint := fmt.Sprintf("%s/search/movie?api_key=%s&query=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query))
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
		return nil, fmt.Errorf("tmdb movie search returned HTTP %d", resp.StatusCode)
	}

	var payload movieSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode movie search response: %w", err)
	}

	items := make([]providers.Item, 0, len(payload.Results))
	for _, movie := range payload.Results {
		overview := movie.Overview
		if overview == "" {
			overview = "No overview available"
		}
		imageURL := ""
		if movie.PosterPath != "" {
			imageURL = c.imageBaseURL + movie.PosterPath
		}
		items = append(items, providers.Item{
			ID:          strconv.Itoa(movie.ID),
			Title:       movie.Title,
			Description: providers.TruncateDescription(overview, 150),
			ImageURL:    imageURL,
			Category:    providers.CategoryMovies,
			Source:      providers.SourceTMDB,
			Extra: map[string]interface{}{
				"releaseDate":  movie.ReleaseDate,
				"voteAverage":  movie.VoteAverage,
				"genreIds":     movie.GenreIDs,
				"backdropPath": movie.BackdropPath,
			},
		})
	}
	return items, nil
}

func (c *Client) searchTVShows(ctx context.Context, query string) ([]providers.Item, error) {
	if c.apiKey == "" {
		return filterDemoItems(demoTVShows, query), nil
	}

	endpoint := fmt.Sprintf("%s/search/tv?api_key=%s&query=%s", c.baseURL, url.QueryEscape(c.apiKey), url.QueryEscape(query))
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
		return nil, fmt.Errorf("tmdb tv search returned HTTP %d", resp.StatusCode)
	}

	var payload tvSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tv search response: %w", err)
	}

	items := make([]providers.Item, 0, len(payload.Results))
	for _, show := range payload.Results {
		overview := show.Overview
		if overview == "" {
			overview = "No overview available"
		}
		imageURL := ""
		if show.PosterPath != "" {
			imageURL = c.imageBaseURL + show.PosterPath
		}
		items = append(items, providers.Item{
			ID:          strconv.Itoa(show.ID),
			Title:       show.Name,
			Description: providers.TruncateDescription(overview, 150),
			ImageURL:    imageURL,
			Category:    providers.CategoryTVShows,
			Source:      providers.SourceTMDB,
			Extra: map[string]interface{}{
				"firstAirDate": show.FirstAirDate,
				"voteAverage":  show.VoteAverage,
			},
		})
	}
	return items, nil
}
