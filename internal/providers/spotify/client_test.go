package spotify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const trackSearchJSON = `{
  "tracks": {
    "items": [
      {
        "id": "track-1",
        "name": "Paranoid Android",
        "artists": [{"name": "Radiohead"}],
        "album": {
          "name": "OK Computer",
          "images": [{"url": "https://i.scdn.co/ok.jpg", "height": 640, "width": 640}],
          "release_date": "1997-05-21"
        },
        "duration_ms": 387000,
        "preview_url": "https://p.scdn.co/preview"
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(logger.NewNop(), "id", "secret",
		WithAPIBaseURL(server.URL), WithTokenBaseURL(server.URL))
}

func TestSearch_FetchesTokenThenSearches(t *testing.T) {
	tokenCalls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token":
			tokenCalls++
			if user, pass, ok := r.BasicAuth(); !ok || user != "id" || pass != "secret" {
				t.Fatalf("missing basic auth on token request")
			}
			fmt.Fprint(w, `{"access_token": "tok-123", "token_type": "Bearer", "expires_in": 3600}`)
		case "/v1/search":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Fatalf("Authorization = %q", got)
			}
			fmt.Fprint(w, trackSearchJSON)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	items, err := client.Search(context.Background(), "radiohead")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	item := items[0]
	if item.Title != "Paranoid Android - Radiohead" {
		t.Errorf("Title = %q", item.Title)
	}
	if item.Description != "Album: OK Computer (1997)" {
		t.Errorf("Description = %q", item.Description)
	}
	if item.Source != providers.SourceSpotify || item.Category != providers.CategoryMusic {
		t.Errorf("unexpected item: %+v", item)
	}

	// Second search reuses the cached token.
	if _, err := client.Search(context.Background(), "radiohead"); err != nil {
		t.Fatalf("unexpected error on second search: %v", err)
	}
	if tokenCalls != 1 {
		t.Errorf("token fetched %d times, want 1", tokenCalls)
	}
}

func TestSearch_NoCredentialsUsesDemoCatalog(t *testing.T) {
	client := NewClient(logger.NewNop(), "", "")
	items, err := client.Search(context.Background(), "queen")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != "music-1" {
		t.Fatalf("expected demo catalog match, got %+v", items)
	}
}

func TestSearch_TokenFailurePropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	if _, err := client.Search(context.Background(), "queen"); err == nil {
		t.Fatal("expected an error, got nil")
	}
}
