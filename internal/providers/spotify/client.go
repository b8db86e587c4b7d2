// Package spotify provides the music content source, backed by the Spotify
// track search API with client-credentials auth. Without credentials the
// client serves a small built-in demo catalog.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const (
	defaultAPIBaseURL   = "https://api.spotify.com"
	defaultTokenBaseURL = "https://accounts.spotify.com"
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

func WithAPIBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.apiBaseURL = baseURL
	}
}

func WithTokenBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.tokenBaseURL = baseURL
	}
}

type Client struct {
	log          *logger.Logger
	httpClient   HTTPClient
	apiBaseURL   string
	tokenBaseURL string
	clientID     string
	clientSecret string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewClient builds the Spotify client. Empty credentials switch the provider
// to the demo catalog.
func NewClient(log *logger.Logger, clientID, clientSecret string, opts ...ClientOption) *Client {
	c := &Client{
		log:          log.With("provider", "spotify"),
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		apiBaseURL:   defaultAPIBaseURL,
		tokenBaseURL: defaultTokenBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Name() providers.Source {
	return providers.SourceSpotify
}

func (c *Client) Category() providers.Category {
	return providers.CategoryMusic
}

func (c *Client) Search(ctx context.Context, query string) ([]providers.Item, error) {
	if c.clientID == "" || c.clientSecret == "" {
		return filterDemoTracks(query), nil
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain spotify token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/search?q=%s&type=track&limit=20", c.apiBaseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spotify search returned HTTP %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	items := make([]providers.Item, 0, len(payload.Tracks.Items))
	for _, track := range payload.Tracks.Items {
		if track.ID == "" || track.Name == "" {
			continue
		}
		items = append(items, formatTrack(track))
	}
	return items, nil
}

// token returns a cached client-credentials token, refreshing when expired.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenBaseURL+"/api/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify token endpoint returned HTTP %d", resp.StatusCode)
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("spotify token response missing access_token")
	}

	c.accessToken = payload.AccessToken
	// Refresh a minute early so in-flight searches never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(payload.ExpiresIn)*time.Second - time.Minute)
	return c.accessToken, nil
}

func formatTrack(track trackResult) providers.Item {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}

	releaseYear := "Unknown"
	if track.Album.ReleaseDate != "" {
		releaseYear = strings.SplitN(track.Album.ReleaseDate, "-", 2)[0]
	}

	imageURL := ""
	if len(track.Album.Images) > 0 {
		imageURL = track.Album.Images[0].URL
	}

	return providers.Item{
		ID:          track.ID,
		Title:       fmt.Sprintf("%s - %s", track.Name, strings.Join(artists, ", ")),
		Description: fmt.Sprintf("Album: %s (%s)", track.Album.Name, releaseYear),
		ImageURL:    imageURL,
		Category:    providers.CategoryMusic,
		Source:      providers.SourceSpotify,
		Extra: map[string]interface{}{
			"artists":     artists,
			"album":       track.Album.Name,
			"releaseDate": track.Album.ReleaseDate,
			"duration":    track.DurationMS,
			"previewUrl":  track.PreviewURL,
		},
	}
}
