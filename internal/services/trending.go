package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dosyammh/critic/internal/clients/cache"
	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"

	"github.com/google/uuid"
)

const (
	trendingLimit    = 20
	trendingCacheTTL = 5 * time.Minute
)

// Period bounds the review window a trending ranking is computed over.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), true
	case "":
		return PeriodWeek, true
	}
	return "", false
}

// TrendingItem is one ranked entry: the content plus its review activity in
// the window.
type TrendingItem struct {
	ContentItem   *types.ContentItem `json:"content_item"`
	ReviewCount   int                `json:"review_count"`
	AverageRating float64            `json:"average_rating"`
}

type TrendingService interface {
	Trending(ctx context.Context, period Period) ([]*TrendingItem, error)
}

type trendingService struct {
	log             *logger.Logger
	reviewRepo      repos.ReviewRepo
	contentItemRepo repos.ContentItemRepo
	cache           cache.Client
	now             func() time.Time
}

func NewTrendingService(
	baseLog *logger.Logger,
	reviewRepo repos.ReviewRepo,
	contentItemRepo repos.ContentItemRepo,
	cacheClient cache.Client,
) TrendingService {
	serviceLog := baseLog.With("service", "TrendingService")
	return &trendingService{
		log:             serviceLog,
		reviewRepo:      reviewRepo,
		contentItemRepo: contentItemRepo,
		cache:           cacheClient,
		now:             time.Now,
	}
}

func (ts *trendingService) Trending(ctx context.Context, period Period) ([]*TrendingItem, error) {
	cacheKey := fmt.Sprintf("trending:%s", period)
	if ts.cache != nil {
		var cached []*TrendingItem
		hit, err := ts.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			ts.log.Warn("Trending cache read failed", "key", cacheKey, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	since := ts.windowStart(period)
	reviews, err := ts.reviewRepo.ListSince(ctx, nil, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews for trending: %w", err)
	}

	type bucket struct {
		count  int
		rating int
	}
	buckets := make(map[uuid.UUID]*bucket)
	for _, review := range reviews {
		b, ok := buckets[review.ContentItemID]
		if !ok {
			b = &bucket{}
			buckets[review.ContentItemID] = b
		}
		b.count++
		b.rating += review.Rating
	}

	itemIDs := make([]uuid.UUID, 0, len(buckets))
	for id := range buckets {
		itemIDs = append(itemIDs, id)
	}
	items, err := ts.contentItemRepo.GetByIDs(ctx, nil, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load trending content: %w", err)
	}

	ranked := make([]*TrendingItem, 0, len(items))
	for _, item := range items {
		b := buckets[item.ID]
		if b == nil {
			continue
		}
		ranked = append(ranked, &TrendingItem{
			ContentItem:   item,
			ReviewCount:   b.count,
			AverageRating: float64(b.rating) / float64(b.count),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].ReviewCount != ranked[j].ReviewCount {
			return ranked[i].ReviewCount > ranked[j].ReviewCount
		}
		return ranked[i].AverageRating > ranked[j].AverageRating
	})
	if len(ranked) > trendingLimit {
		ranked = ranked[:trendingLimit]
	}

	if ts.cache != nil {
		if err := ts.cache.SetJSON(ctx, cacheKey, ranked, trendingCacheTTL); err != nil {
			ts.log.Warn("Trending cache write failed", "key", cacheKey, "error", err)
		}
	}
	return ranked, nil
}

func (ts *trendingService) windowStart(period Period) time.Time {
	now := ts.now()
	switch period {
	case PeriodToday:
		return now.AddDate(0, 0, -1)
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}
