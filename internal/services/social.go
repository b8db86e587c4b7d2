package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

type SocialService interface {
	// Follow creates the follow edge and adjusts both users' counters; both
	// sides earn XP. Following yourself or the same user twice is rejected.
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) error
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]*types.User, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]*types.User, error)
}

type socialService struct {
	runner       TxRunner
	log          *logger.Logger
	followRepo   repos.FollowRepo
	userRepo     repos.UserRepo
	gamification GamificationService
}

func NewSocialService(
	runner TxRunner,
	baseLog *logger.Logger,
	followRepo repos.FollowRepo,
	userRepo repos.UserRepo,
	gamification GamificationService,
) SocialService {
	serviceLog := baseLog.With("service", "SocialService")
	return &socialService{
		runner:       runner,
		log:          serviceLog,
		followRepo:   followRepo,
		userRepo:     userRepo,
		gamification: gamification,
	}
}

func (ss *socialService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return fmt.Errorf("%w: cannot follow yourself", ErrInvalidInput)
	}
	targets, err := ss.userRepo.GetByIDs(ctx, nil, []uuid.UUID{followeeID})
	if err != nil {
		return fmt.Errorf("failed to load followee: %w", err)
	}
	if len(targets) == 0 {
		return ErrNotFound
	}

	err = ss.runner.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := ss.followRepo.Get(ctx, tx, followerID, followeeID)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return fmt.Errorf("failed to look up follow: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: already following", ErrConflict)
		}
		follow := &types.Follow{ID: uuid.New(), FollowerID: followerID, FolloweeID: followeeID}
		if _, err := ss.followRepo.Create(ctx, tx, follow); err != nil {
			return fmt.Errorf("failed to create follow: %w", err)
		}
		if err := ss.userRepo.AddFollowingCount(ctx, tx, followerID, 1); err != nil {
			return err
		}
		return ss.userRepo.AddFollowerCount(ctx, tx, followeeID, 1)
	})
	if err != nil {
		return err
	}

	if _, err := ss.gamification.AwardXP(ctx, followerID, ActionFollowUser, 0); err != nil {
		return err
	}
	if _, err := ss.gamification.AwardXP(ctx, followeeID, ActionGetFollower, 0); err != nil {
		return err
	}
	return nil
}

func (ss *socialService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return ss.runner.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := ss.followRepo.Get(ctx, tx, followerID, followeeID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to look up follow: %w", err)
		}
		if err := ss.followRepo.Delete(ctx, tx, existing.ID); err != nil {
			return fmt.Errorf("failed to delete follow: %w", err)
		}
		if err := ss.userRepo.AddFollowingCount(ctx, tx, followerID, -1); err != nil {
			return err
		}
		return ss.userRepo.AddFollowerCount(ctx, tx, followeeID, -1)
	})
}

func (ss *socialService) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	_, err := ss.followRepo.Get(ctx, nil, followerID, followeeID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (ss *socialService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	ids, err := ss.followRepo.ListFollowerIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follower ids: %w", err)
	}
	return ss.userRepo.GetByIDs(ctx, nil, ids)
}

func (ss *socialService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]*types.User, error) {
	ids, err := ss.followRepo.ListFolloweeIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followee ids: %w", err)
	}
	return ss.userRepo.GetByIDs(ctx, nil, ids)
}
