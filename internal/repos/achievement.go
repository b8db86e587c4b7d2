package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
)

// AchievementRepo reads the fixed achievement catalog. The catalog is small and
// loaded whole on every evaluation pass; no pagination.
type AchievementRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	repoLog := baseLog.With("repo", "AchievementRepo")
	return &achievementRepo{db: db, log: repoLog}
}

func (ar *achievementRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Order("requirement_type ASC, requirement_value ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
