package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

type fakeReviewRepo struct {
	reviews []*types.Review
}

func (r *fakeReviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
	r.reviews = append(r.reviews, reviews...)
	return reviews, nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*types.Review, error) {
	for _, rv := range r.reviews {
		if rv.ID == reviewID {
			return rv, nil
		}
	}
	return nil, repos.ErrNotFound
}

func (r *fakeReviewRepo) ListForContentItem(ctx context.Context, tx *gorm.DB, contentItemID uuid.UUID, limit int) ([]*types.Review, error) {
	var out []*types.Review
	for _, rv := range r.reviews {
		if rv.ContentItemID == contentItemID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Review, error) {
	var out []*types.Review
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Review, error) {
	return r.reviews, nil
}

func (r *fakeReviewRepo) ListRecentByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, limit int) ([]*types.Review, error) {
	members := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, id := range userIDs {
		members[id] = struct{}{}
	}
	var out []*types.Review
	for _, rv := range r.reviews {
		if _, ok := members[rv.UserID]; ok {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Review, error) {
	var out []*types.Review
	for _, rv := range r.reviews {
		if rv.CreatedAt.After(since) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Update(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID, updates map[string]interface{}) error {
	return nil
}

func (r *fakeReviewRepo) Delete(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) error {
	return nil
}

func (r *fakeReviewRepo) AddLikeCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error {
	return nil
}

func (r *fakeReviewRepo) AddCommentCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error {
	return nil
}

type fakeContentItemRepo struct {
	items map[uuid.UUID]*types.ContentItem
}

func (r *fakeContentItemRepo) Create(ctx context.Context, tx *gorm.DB, items []*types.ContentItem) ([]*types.ContentItem, error) {
	for _, item := range items {
		r.items[item.ID] = item
	}
	return items, nil
}

func (r *fakeContentItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, itemIDs []uuid.UUID) ([]*types.ContentItem, error) {
	var out []*types.ContentItem
	for _, id := range itemIDs {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeContentItemRepo) GetBySourceExternalID(ctx context.Context, tx *gorm.DB, apiSource, externalID string) (*types.ContentItem, error) {
	for _, item := range r.items {
		if item.APISource == apiSource && item.ExternalID == externalID {
			return item, nil
		}
	}
	return nil, repos.ErrNotFound
}

type memoryCache struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) Close() error { return nil }

func trendingFixture(t *testing.T) (*fakeReviewRepo, *fakeContentItemRepo, *memoryCache, TrendingService) {
	t.Helper()
	reviews := &fakeReviewRepo{}
	items := &fakeContentItemRepo{items: make(map[uuid.UUID]*types.ContentItem)}
	cacheClient := newMemoryCache()
	service := NewTrendingService(logger.NewNop(), reviews, items, cacheClient)
	return reviews, items, cacheClient, service
}

func addTrendingContent(reviews *fakeReviewRepo, items *fakeContentItemRepo, title string, ratings []int, age time.Duration) uuid.UUID {
	itemID := uuid.New()
	items.items[itemID] = &types.ContentItem{ID: itemID, Title: title, APISource: "tmdb", ExternalID: title}
	for _, rating := range ratings {
		reviews.reviews = append(reviews.reviews, &types.Review{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			ContentItemID: itemID,
			Rating:        rating,
			CreatedAt:     time.Now().Add(-age),
		})
	}
	return itemID
}

func TestTrendingRanksByReviewCount(t *testing.T) {
	reviews, items, _, service := trendingFixture(t)
	popular := addTrendingContent(reviews, items, "Dune", []int{5, 4, 5}, time.Hour)
	quiet := addTrendingContent(reviews, items, "Solaris", []int{3}, time.Hour)

	ranked, err := service.Trending(context.Background(), PeriodWeek)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(ranked))
	}
	if ranked[0].ContentItem.ID != popular || ranked[1].ContentItem.ID != quiet {
		t.Fatalf("unexpected order: %s then %s", ranked[0].ContentItem.Title, ranked[1].ContentItem.Title)
	}
	if ranked[0].ReviewCount != 3 {
		t.Fatalf("expected 3 reviews, got %d", ranked[0].ReviewCount)
	}
	want := (5.0 + 4.0 + 5.0) / 3.0
	if ranked[0].AverageRating != want {
		t.Fatalf("expected average %f, got %f", want, ranked[0].AverageRating)
	}
}

func TestTrendingWindowExcludesOldReviews(t *testing.T) {
	reviews, items, _, service := trendingFixture(t)
	addTrendingContent(reviews, items, "Old Classic", []int{5, 5}, 48*time.Hour)
	fresh := addTrendingContent(reviews, items, "New Release", []int{4}, time.Hour)

	ranked, err := service.Trending(context.Background(), PeriodToday)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(ranked) != 1 || ranked[0].ContentItem.ID != fresh {
		t.Fatalf("expected only the fresh item, got %d entries", len(ranked))
	}

	ranked, err = service.Trending(context.Background(), PeriodAll)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(ranked) != 2 {
		t.Fatalf("all-time window should include both, got %d", len(ranked))
	}
}

func TestTrendingUsesCache(t *testing.T) {
	reviews, items, cacheClient, service := trendingFixture(t)
	addTrendingContent(reviews, items, "Dune", []int{5}, time.Hour)

	if _, err := service.Trending(context.Background(), PeriodWeek); err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if cacheClient.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cacheClient.sets)
	}

	// Second call must come from the cache even after the data changes.
	addTrendingContent(reviews, items, "Solaris", []int{4}, time.Hour)
	ranked, err := service.Trending(context.Background(), PeriodWeek)
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("expected cached single entry, got %d", len(ranked))
	}
	if cacheClient.sets != 1 {
		t.Fatalf("cache hit should not rewrite, got %d writes", cacheClient.sets)
	}
}

func TestParsePeriod(t *testing.T) {
	if p, ok := ParsePeriod(""); !ok || p != PeriodWeek {
		t.Fatalf("empty period should default to week, got %q ok=%v", p, ok)
	}
	if _, ok := ParsePeriod("fortnight"); ok {
		t.Fatal("unknown period should be rejected")
	}
}
