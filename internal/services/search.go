package services

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
)

const (
	maxSearchResults      = 20
	providerSearchTimeout = 8 * time.Second
)

type SearchService interface {
	// Search fans the query out to every registered provider, or only to the
	// providers serving the given category when one is set. Provider failures
	// are logged and dropped; an empty result is a valid outcome.
	Search(ctx context.Context, query string, category providers.Category) ([]providers.Item, error)
	Categories() []providers.Category
}

type searchService struct {
	log       *logger.Logger
	providers []providers.Provider

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSearchService(baseLog *logger.Logger, rng *rand.Rand, ps ...providers.Provider) SearchService {
	serviceLog := baseLog.With("service", "SearchService")
	return &searchService{
		log:       serviceLog,
		providers: ps,
		rng:       rng,
	}
}

func (ss *searchService) Search(ctx context.Context, query string, category providers.Category) ([]providers.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrInvalidInput
	}

	selected := make([]providers.Provider, 0, len(ss.providers))
	for _, p := range ss.providers {
		if category == "" || p.Category() == category {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return []providers.Item{}, nil
	}

	// Every provider gets its own result slot so the merge order is stable
	// regardless of which provider answers first.
	slots := make([][]providers.Item, len(selected))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, p := range selected {
		group.Go(func() error {
			callCtx, cancel := context.WithTimeout(groupCtx, providerSearchTimeout)
			defer cancel()
			items, err := p.Search(callCtx, query)
			if err != nil {
				ss.log.Warn("Provider search failed",
					"provider", string(p.Name()),
					"query", query,
					"error", err)
				return nil
			}
			slots[i] = items
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	merged := make([]providers.Item, 0, maxSearchResults)
	for _, items := range slots {
		for _, item := range items {
			key := string(item.Source) + "/" + item.ID
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, item)
		}
	}

	ss.shuffle(merged)
	if len(merged) > maxSearchResults {
		merged = merged[:maxSearchResults]
	}
	return merged, nil
}

func (ss *searchService) Categories() []providers.Category {
	seen := make(map[providers.Category]struct{})
	var categories []providers.Category
	for _, p := range ss.providers {
		if _, ok := seen[p.Category()]; ok {
			continue
		}
		seen[p.Category()] = struct{}{}
		categories = append(categories, p.Category())
	}
	return categories
}

func (ss *searchService) shuffle(items []providers.Item) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
