package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

// AwardResult reports the outcome of one XP grant.
type AwardResult struct {
	XPAwarded int  `json:"xp_awarded"`
	NewXP     int  `json:"new_xp"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// StreakResult reports a user's streak after a daily check-in.
type StreakResult struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type GamificationService interface {
	// AwardXP grants XP for an action and recomputes the user's level. A
	// non-positive explicitAmount means "use the action's base amount".
	AwardXP(ctx context.Context, userID uuid.UUID, action Action, explicitAmount int) (*AwardResult, error)
	// UpdateStreak advances the user's check-in streak by one day and grants
	// the daily bonus, or the weekly bonus when the streak reaches seven.
	UpdateStreak(ctx context.Context, userID uuid.UUID) (*StreakResult, error)
	// CheckAchievements evaluates every achievement against the user's current
	// stats, records progress, and unlocks any whose threshold is met.
	CheckAchievements(ctx context.Context, userID uuid.UUID) error
	ListAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error)
	Leaderboard(ctx context.Context, limit, offset int) ([]*types.User, error)
	LeaderboardPosition(ctx context.Context, userID uuid.UUID) (int, error)
}

type gamificationService struct {
	runner              TxRunner
	log                 *logger.Logger
	userRepo            repos.UserRepo
	achievementRepo     repos.AchievementRepo
	userAchievementRepo repos.UserAchievementRepo
}

func NewGamificationService(
	runner TxRunner,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	achievementRepo repos.AchievementRepo,
	userAchievementRepo repos.UserAchievementRepo,
) GamificationService {
	serviceLog := baseLog.With("service", "GamificationService")
	return &gamificationService{
		runner:              runner,
		log:                 serviceLog,
		userRepo:            userRepo,
		achievementRepo:     achievementRepo,
		userAchievementRepo: userAchievementRepo,
	}
}

func (gs *gamificationService) AwardXP(ctx context.Context, userID uuid.UUID, action Action, explicitAmount int) (*AwardResult, error) {
	amount := explicitAmount
	if amount <= 0 {
		base, err := XPForAction(action)
		if err != nil {
			return nil, err
		}
		amount = base
	}

	var result AwardResult
	err := gs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		user, err := gs.userRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load user for xp award: %w", err)
		}
		newXP := user.XPPoints + amount
		newLevel := LevelForXP(newXP)
		result = AwardResult{
			XPAwarded: amount,
			NewXP:     newXP,
			NewLevel:  newLevel,
			LeveledUp: newLevel > user.Level,
		}
		return gs.userRepo.UpdateXP(ctx, tx, userID, newXP, newLevel)
	})
	if err != nil {
		return nil, err
	}

	gs.log.Debug("Awarded XP",
		"user_id", userID,
		"action", string(action),
		"amount", amount,
		"new_level", result.NewLevel)

	if err := gs.CheckAchievements(ctx, userID); err != nil {
		return nil, err
	}
	return &result, nil
}

func (gs *gamificationService) UpdateStreak(ctx context.Context, userID uuid.UUID) (*StreakResult, error) {
	var result StreakResult
	err := gs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		user, err := gs.userRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load user for streak update: %w", err)
		}
		current := user.CurrentStreak + 1
		longest := user.LongestStreak
		if current > longest {
			longest = current
		}
		result = StreakResult{CurrentStreak: current, LongestStreak: longest}
		return gs.userRepo.UpdateStreak(ctx, tx, userID, current, longest)
	})
	if err != nil {
		return nil, err
	}

	action := ActionDailyStreak
	if result.CurrentStreak == 7 {
		action = ActionWeeklyStreak
	}
	if _, err := gs.AwardXP(ctx, userID, action, 0); err != nil {
		return nil, err
	}
	return &result, nil
}

func (gs *gamificationService) CheckAchievements(ctx context.Context, userID uuid.UUID) error {
	users, err := gs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("failed to load user for achievement check: %w", err)
	}
	if len(users) == 0 {
		return ErrNotFound
	}
	user := users[0]

	achievements, err := gs.achievementRepo.ListAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list achievements: %w", err)
	}
	states, err := gs.userAchievementRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("failed to list achievement progress: %w", err)
	}
	completed := make(map[uuid.UUID]bool, len(states))
	for _, state := range states {
		if state.Completed {
			completed[state.AchievementID] = true
		}
	}

	// The upserts run in one transaction so the unlock transition is decided
	// under the row lock; rewards are paid after it commits because AwardXP
	// opens its own transaction and re-enters this check.
	var newlyUnlocked []*types.Achievement
	err = gs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		for _, achievement := range achievements {
			if completed[achievement.ID] {
				continue
			}
			progress, err := requirementProgress(user, achievement.RequirementType)
			if err != nil {
				return err
			}
			met := progress >= achievement.RequirementValue
			state := &types.UserAchievement{
				UserID:        userID,
				AchievementID: achievement.ID,
				Progress:      progress,
				Completed:     met,
			}
			if met {
				now := time.Now().UTC()
				state.UnlockedAt = &now
			}
			unlocked, err := gs.userAchievementRepo.Upsert(ctx, tx, state)
			if err != nil {
				return fmt.Errorf("failed to record achievement progress: %w", err)
			}
			if unlocked {
				newlyUnlocked = append(newlyUnlocked, achievement)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, achievement := range newlyUnlocked {
		gs.log.Info("Achievement unlocked",
			"user_id", userID,
			"achievement", achievement.Name)
		if _, err := gs.AwardXP(ctx, userID, ActionAchievementReward, achievement.XPReward); err != nil {
			return err
		}
	}
	return nil
}

// ListAchievements returns the whole catalog, merging in the user's recorded
// progress. Achievements the user has never touched appear with zero progress.
func (gs *gamificationService) ListAchievements(ctx context.Context, userID uuid.UUID) ([]*types.UserAchievement, error) {
	achievements, err := gs.achievementRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	states, err := gs.userAchievementRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievement progress: %w", err)
	}
	byAchievement := make(map[uuid.UUID]*types.UserAchievement, len(states))
	for _, state := range states {
		byAchievement[state.AchievementID] = state
	}

	merged := make([]*types.UserAchievement, 0, len(achievements))
	for _, achievement := range achievements {
		if state, ok := byAchievement[achievement.ID]; ok {
			if state.Achievement == nil {
				state.Achievement = achievement
			}
			merged = append(merged, state)
			continue
		}
		merged = append(merged, &types.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			Achievement:   achievement,
		})
	}
	return merged, nil
}

func (gs *gamificationService) Leaderboard(ctx context.Context, limit, offset int) ([]*types.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return gs.userRepo.ListByXPDesc(ctx, nil, limit, offset)
}

func (gs *gamificationService) LeaderboardPosition(ctx context.Context, userID uuid.UUID) (int, error) {
	users, err := gs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, ErrNotFound
	}
	ahead, err := gs.userRepo.CountWithMoreXP(ctx, nil, users[0].XPPoints)
	if err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

func requirementProgress(user *types.User, requirementType string) (int, error) {
	switch requirementType {
	case types.RequirementReviewCount:
		return user.ReviewCount, nil
	case types.RequirementStreak:
		return user.CurrentStreak, nil
	case types.RequirementFollowerCount:
		return user.FollowerCount, nil
	case types.RequirementFollowingCount:
		return user.FollowingCount, nil
	default:
		return 0, fmt.Errorf("unknown achievement requirement type %q", requirementType)
	}
}
