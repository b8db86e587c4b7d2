package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
)

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error)
	GetByID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*types.Review, error)
	ListForContentItem(ctx context.Context, tx *gorm.DB, contentItemID uuid.UUID, limit int) ([]*types.Review, error)
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Review, error)
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Review, error)
	ListRecentByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, limit int) ([]*types.Review, error)
	ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Review, error)
	Update(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) error
	AddLikeCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error
	AddCommentCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, reviews []*types.Review) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if len(reviews) == 0 {
		return []*types.Review{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (rr *reviewRepo) GetByID(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var review types.Review
	err := transaction.WithContext(ctx).
		Preload("User").
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Where("id = ?", reviewID).
		First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (rr *reviewRepo) ListForContentItem(ctx context.Context, tx *gorm.DB, contentItemID uuid.UUID, limit int) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Where("content_item_id = ?", contentItemID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) ListRecentByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, limit int) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("User").
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) ListSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	query := transaction.WithContext(ctx).
		Preload("ContentItem").
		Preload("ContentItem.Category").
		Order("created_at DESC")
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) Update(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	result := transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (rr *reviewRepo) Delete(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	result := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", reviewID, userID).
		Delete(&types.Review{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (rr *reviewRepo) AddLikeCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("id = ?", reviewID).
		Update("like_count", gorm.Expr("GREATEST(like_count + ?, 0)", delta)).Error
}

func (rr *reviewRepo) AddCommentCount(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, delta int) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("id = ?", reviewID).
		Update("comment_count", gorm.Expr("GREATEST(comment_count + ?, 0)", delta)).Error
}
