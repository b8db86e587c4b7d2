package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

type stubProvider struct {
	name     providers.Source
	category providers.Category
	items    []providers.Item
	err      error
}

func (p *stubProvider) Name() providers.Source       { return p.name }
func (p *stubProvider) Category() providers.Category { return p.category }

func (p *stubProvider) Search(ctx context.Context, query string) ([]providers.Item, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.items, nil
}

func stubItems(source providers.Source, category providers.Category, n int) []providers.Item {
	items := make([]providers.Item, n)
	for i := range items {
		items[i] = providers.Item{
			ID:       fmt.Sprintf("%s-%d", source, i),
			Title:    fmt.Sprintf("%s result %d", source, i),
			Category: category,
			Source:   source,
		}
	}
	return items
}

func newTestSearch(seed int64, ps ...providers.Provider) SearchService {
	return NewSearchService(logger.NewNop(), rand.New(rand.NewSource(seed)), ps...)
}

func TestSearchMergesAndCaps(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies, items: stubItems("tmdb", providers.CategoryMovies, 10)},
		&stubProvider{name: "google_books", category: providers.CategoryBooks, items: stubItems("google_books", providers.CategoryBooks, 10)},
		&stubProvider{name: "spotify", category: providers.CategoryMusic, items: stubItems("spotify", providers.CategoryMusic, 5)},
	)

	items, err := service.Search(context.Background(), "dune", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("expected results capped at 20, got %d", len(items))
	}
	seen := make(map[string]struct{})
	for _, item := range items {
		key := string(item.Source) + "/" + item.ID
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate item %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestSearchIsolatesProviderFailure(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies, err: errors.New("upstream down")},
		&stubProvider{name: "spotify", category: providers.CategoryMusic, items: stubItems("spotify", providers.CategoryMusic, 3)},
	)

	items, err := service.Search(context.Background(), "dune", "")
	if err != nil {
		t.Fatalf("one failing provider must not fail the search: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected the healthy provider's 3 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Source != "spotify" {
			t.Fatalf("unexpected source %s", item.Source)
		}
	}
}

func TestSearchAllProvidersEmpty(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies},
		&stubProvider{name: "spotify", category: providers.CategoryMusic},
	)

	items, err := service.Search(context.Background(), "zzzzz", "")
	if err != nil {
		t.Fatalf("empty result is valid, got error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}

func TestSearchDeduplicates(t *testing.T) {
	shared := providers.Item{ID: "42", Title: "Dune", Category: providers.CategoryMovies, Source: "tmdb"}
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies, items: []providers.Item{shared, shared}},
	)

	items, err := service.Search(context.Background(), "dune", "")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected duplicates collapsed to 1 item, got %d", len(items))
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies, items: stubItems("tmdb", providers.CategoryMovies, 4)},
		&stubProvider{name: "spotify", category: providers.CategoryMusic, items: stubItems("spotify", providers.CategoryMusic, 4)},
	)

	items, err := service.Search(context.Background(), "dune", providers.CategoryMusic)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 music items, got %d", len(items))
	}
	for _, item := range items {
		if item.Category != providers.CategoryMusic {
			t.Fatalf("unexpected category %s", item.Category)
		}
	}
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies},
	)

	if _, err := service.Search(context.Background(), "   ", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSearchShuffleIsSeeded(t *testing.T) {
	build := func(seed int64) []providers.Item {
		service := newTestSearch(seed,
			&stubProvider{name: "tmdb", category: providers.CategoryMovies, items: stubItems("tmdb", providers.CategoryMovies, 10)},
		)
		items, err := service.Search(context.Background(), "dune", "")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		return items
	}

	first := build(7)
	second := build(7)
	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("same seed produced different orders at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	shuffled := false
	for seed := int64(0); seed < 10 && !shuffled; seed++ {
		other := build(seed)
		for i := range first {
			if other[i].ID != first[i].ID {
				shuffled = true
				break
			}
		}
	}
	if !shuffled {
		t.Fatal("shuffle never changed the order across seeds")
	}
}

func TestCategories(t *testing.T) {
	service := newTestSearch(1,
		&stubProvider{name: "tmdb", category: providers.CategoryMovies},
		&stubProvider{name: "tmdb", category: providers.CategoryTVShows},
		&stubProvider{name: "spotify", category: providers.CategoryMusic},
	)

	categories := service.Categories()
	if len(categories) != 3 {
		t.Fatalf("expected 3 distinct categories, got %d", len(categories))
	}
}
