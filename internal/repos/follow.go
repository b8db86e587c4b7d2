package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
)

type FollowRepo interface {
	Get(ctx context.Context, tx *gorm.DB, followerID, followeeID uuid.UUID) (*types.Follow, error)
	Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) (*types.Follow, error)
	Delete(ctx context.Context, tx *gorm.DB, followID uuid.UUID) error
	ListFolloweeIDs(ctx context.Context, tx *gorm.DB, followerID uuid.UUID) ([]uuid.UUID, error)
	ListFollowerIDs(ctx context.Context, tx *gorm.DB, followeeID uuid.UUID) ([]uuid.UUID, error)
}

type followRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFollowRepo(db *gorm.DB, baseLog *logger.Logger) FollowRepo {
	repoLog := baseLog.With("repo", "FollowRepo")
	return &followRepo{db: db, log: repoLog}
}

func (fr *followRepo) Get(ctx context.Context, tx *gorm.DB, followerID, followeeID uuid.UUID) (*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var follow types.Follow
	err := transaction.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&follow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

func (fr *followRepo) Create(ctx context.Context, tx *gorm.DB, follow *types.Follow) (*types.Follow, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).Create(follow).Error; err != nil {
		return nil, err
	}
	return follow, nil
}

func (fr *followRepo) Delete(ctx context.Context, tx *gorm.DB, followID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", followID).
		Delete(&types.Follow{}).Error
}

func (fr *followRepo) ListFolloweeIDs(ctx context.Context, tx *gorm.DB, followerID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (fr *followRepo) ListFollowerIDs(ctx context.Context, tx *gorm.DB, followeeID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.Follow{}).
		Where("followee_id = ?", followeeID).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
