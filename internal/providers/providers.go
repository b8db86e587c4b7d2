// Package providers defines the uniform content record returned by every
// external content source and the adapter contract the search aggregator fans
// out to.
package providers

import (
	"context"
	"unicode/utf8"
)

// Source identifies which external API an item came from.
type Source string

const (
	SourceWikipedia   Source = "wikipedia"
	SourceGoogleBooks Source = "google_books"
	SourceTMDB        Source = "tmdb"
	SourceSpotify     Source = "spotify"
)

// Category is the fixed content taxonomy shared with the persisted catalog.
type Category string

const (
	CategoryMovies   Category = "Movies"
	CategoryBooks    Category = "Books"
	CategoryMusic    Category = "Music"
	CategoryArticles Category = "Articles"
	CategoryTVShows  Category = "TV Shows"
)

// ParseCategory maps a request string onto the fixed category set.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryMovies, CategoryBooks, CategoryMusic, CategoryArticles, CategoryTVShows:
		return Category(s), true
	}
	return "", false
}

// Item is a normalized search result. The (Source, ID) pair is the dedup key
// within one aggregated result set.
type Item struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	ImageURL    string                 `json:"image_url"`
	Category    Category               `json:"category"`
	Source      Source                 `json:"source"`
	Extra       map[string]interface{} `json:"additional_data,omitempty"`
}

// Provider is a single content-source adapter. Implementations must degrade
// malformed or unexpected responses into an empty result instead of panicking;
// transport failures are returned as errors and isolated by the aggregator.
type Provider interface {
	Name() Source
	Category() Category
	Search(ctx context.Context, query string) ([]Item, error)
}

// TruncateDescription caps a description the way the mobile cards render it.
func TruncateDescription(description string, maxLength int) string {
	if maxLength <= 0 || len(description) <= maxLength {
		return description
	}
	truncated := description[:maxLength]
	// Avoid splitting a multi-byte rune at the cut point. A cut can leave
	// continuation bytes or a dangling lead byte; drop bytes until the tail
	// decodes as a whole rune.
	for len(truncated) > 0 {
		r, size := utf8.DecodeLastRuneInString(truncated)
		if r != utf8.RuneError || size > 1 {
			break
		}
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "..."
}
