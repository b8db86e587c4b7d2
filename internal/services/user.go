package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

// Profile is a user page as seen by another user.
type Profile struct {
	User                *types.User     `json:"user"`
	RecentReviews       []*types.Review `json:"recent_reviews"`
	IsFollowing         bool            `json:"is_following"`
	LeaderboardPosition int             `json:"leaderboard_position"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*types.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error)
}

type userService struct {
	log           *logger.Logger
	userRepo      repos.UserRepo
	reviewRepo    repos.ReviewRepo
	socialService SocialService
	avatarService AvatarService
	gamification  GamificationService
}

func NewUserService(
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	reviewRepo repos.ReviewRepo,
	socialService SocialService,
	avatarService AvatarService,
	gamification GamificationService,
) UserService {
	serviceLog := baseLog.With("service", "UserService")
	return &userService{
		log:           serviceLog,
		userRepo:      userRepo,
		reviewRepo:    reviewRepo,
		socialService: socialService,
		avatarService: avatarService,
		gamification:  gamification,
	}
}

func (us *userService) GetMe(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return us.loadUser(ctx, userID)
}

func (us *userService) GetProfile(ctx context.Context, viewerID, userID uuid.UUID) (*Profile, error) {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	reviews, err := us.reviewRepo.ListForUser(ctx, nil, userID, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}

	isFollowing := false
	if viewerID != uuid.Nil && viewerID != userID {
		isFollowing, err = us.socialService.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}

	position, err := us.gamification.LeaderboardPosition(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:                user,
		RecentReviews:       reviews,
		IsFollowing:         isFollowing,
		LeaderboardPosition: position,
	}, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, input *UpdateProfileInput) (*types.User, error) {
	updates := map[string]interface{}{}
	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrInvalidInput)
		}
		updates["display_name"] = name
	}
	if input.Bio != nil {
		updates["bio"] = strings.TrimSpace(*input.Bio)
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if err := us.userRepo.UpdateProfile(ctx, nil, userID, updates); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return us.loadUser(ctx, userID)
}

func (us *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (*types.User, error) {
	user, err := us.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := us.avatarService.CreateUserAvatarFromImage(ctx, nil, user, raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return us.loadUser(ctx, userID)
}

func (us *userService) loadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}
