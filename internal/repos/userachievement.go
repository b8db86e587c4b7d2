package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/types"
)

type UserAchievementRepo interface {
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
	// Upsert writes progress for a (user, achievement) pair and reports
	// whether this write was the unlock transition. Completed never reverts
	// to false and UnlockedAt is written only on that transition. Callers
	// pass an open transaction so the decision holds under the row lock.
	Upsert(ctx context.Context, tx *gorm.DB, state *types.UserAchievement) (bool, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	repoLog := baseLog.With("repo", "UserAchievementRepo")
	return &userAchievementRepo{db: db, log: repoLog}
}

func (ur *userAchievementRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []*types.UserAchievement
	if err := transaction.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userAchievementRepo) Upsert(ctx context.Context, tx *gorm.DB, state *types.UserAchievement) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	// Locking the existing row keeps the transition decision serialized when
	// two checks for the same user race.
	var existing types.UserAchievement
	err := transaction.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND achievement_id = ?", state.UserID, state.AchievementID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if state.ID == uuid.Nil {
			state.ID = uuid.New()
		}
		if err := transaction.WithContext(ctx).Create(state).Error; err != nil {
			return false, err
		}
		return state.Completed, nil
	}
	if err != nil {
		return false, err
	}

	updates := map[string]interface{}{
		"progress":   state.Progress,
		"updated_at": time.Now().UTC(),
	}
	unlocked := state.Completed && !existing.Completed
	if unlocked {
		updates["completed"] = true
		updates["unlocked_at"] = state.UnlockedAt
	}
	if err := transaction.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return false, err
	}
	return unlocked, nil
}
