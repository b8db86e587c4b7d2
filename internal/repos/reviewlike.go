package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
)

type ReviewLikeRepo interface {
	Get(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) (*types.ReviewLike, error)
	Create(ctx context.Context, tx *gorm.DB, like *types.ReviewLike) (*types.ReviewLike, error)
	Delete(ctx context.Context, tx *gorm.DB, likeID uuid.UUID) error
}

type reviewLikeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewLikeRepo(db *gorm.DB, baseLog *logger.Logger) ReviewLikeRepo {
	repoLog := baseLog.With("repo", "ReviewLikeRepo")
	return &reviewLikeRepo{db: db, log: repoLog}
}

func (lr *reviewLikeRepo) Get(ctx context.Context, tx *gorm.DB, reviewID, userID uuid.UUID) (*types.ReviewLike, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	var like types.ReviewLike
	err := transaction.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		First(&like).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (lr *reviewLikeRepo) Create(ctx context.Context, tx *gorm.DB, like *types.ReviewLike) (*types.ReviewLike, error) {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	if err := transaction.WithContext(ctx).Create(like).Error; err != nil {
		return nil, err
	}
	return like, nil
}

func (lr *reviewLikeRepo) Delete(ctx context.Context, tx *gorm.DB, likeID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = lr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", likeID).
		Delete(&types.ReviewLike{}).Error
}
