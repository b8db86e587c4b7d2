package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dosyammh/critic/internal/logger"
	"github.com/dosyammh/critic/internal/providers"
	"github.com/dosyammh/critic/internal/repos"
	"github.com/dosyammh/critic/internal/types"
)

const feedLimit = 50

// CreateReviewInput carries a review together with the content card it was
// written against. The content item is persisted on first review.
type CreateReviewInput struct {
	ExternalID  string                 `json:"external_id"`
	Source      string                 `json:"source"`
	Category    string                 `json:"category"`
	ItemTitle   string                 `json:"item_title"`
	Description string                 `json:"description"`
	ImageURL    string                 `json:"image_url"`
	Extra       map[string]interface{} `json:"extra,omitempty"`

	Rating    int    `json:"rating"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsSpoiler bool   `json:"is_spoiler"`
}

type UpdateReviewInput struct {
	Rating    *int    `json:"rating,omitempty"`
	Title     *string `json:"title,omitempty"`
	Content   *string `json:"content,omitempty"`
	IsSpoiler *bool   `json:"is_spoiler,omitempty"`
}

type ReviewService interface {
	CreateReview(ctx context.Context, userID uuid.UUID, input *CreateReviewInput) (*types.Review, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*types.Review, error)
	ListForContentItem(ctx context.Context, contentItemID uuid.UUID, limit int) ([]*types.Review, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Review, error)
	// Feed returns recent reviews by the users someone follows, falling back
	// to the global recent feed for users who follow nobody yet.
	Feed(ctx context.Context, userID uuid.UUID) ([]*types.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, input *UpdateReviewInput) (*types.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error
	// ToggleLike flips the caller's like on a review and reports the new
	// state. Liking awards XP to the review's author, unliking never claws
	// XP back.
	ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (bool, error)
	AddComment(ctx context.Context, reviewID, userID uuid.UUID, content string) (*types.Comment, error)
	ListComments(ctx context.Context, reviewID uuid.UUID, limit int) ([]*types.Comment, error)
}

type reviewService struct {
	runner          TxRunner
	log             *logger.Logger
	reviewRepo      repos.ReviewRepo
	reviewLikeRepo  repos.ReviewLikeRepo
	commentRepo     repos.CommentRepo
	contentItemRepo repos.ContentItemRepo
	categoryRepo    repos.CategoryRepo
	userRepo        repos.UserRepo
	followRepo      repos.FollowRepo
	gamification    GamificationService
}

func NewReviewService(
	runner TxRunner,
	baseLog *logger.Logger,
	reviewRepo repos.ReviewRepo,
	reviewLikeRepo repos.ReviewLikeRepo,
	commentRepo repos.CommentRepo,
	contentItemRepo repos.ContentItemRepo,
	categoryRepo repos.CategoryRepo,
	userRepo repos.UserRepo,
	followRepo repos.FollowRepo,
	gamification GamificationService,
) ReviewService {
	serviceLog := baseLog.With("service", "ReviewService")
	return &reviewService{
		runner:          runner,
		log:             serviceLog,
		reviewRepo:      reviewRepo,
		reviewLikeRepo:  reviewLikeRepo,
		commentRepo:     commentRepo,
		contentItemRepo: contentItemRepo,
		categoryRepo:    categoryRepo,
		userRepo:        userRepo,
		followRepo:      followRepo,
		gamification:    gamification,
	}
}

func (rs *reviewService) CreateReview(ctx context.Context, userID uuid.UUID, input *CreateReviewInput) (*types.Review, error) {
	if err := validateReviewInput(input); err != nil {
		return nil, err
	}

	var review *types.Review
	var firstReview bool
	err := rs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		// The row lock serializes concurrent creates per user, so only one
		// of them sees a zero count and earns the first-review bonus.
		user, err := rs.userRepo.GetForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, repos.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load reviewer: %w", err)
		}
		firstReview = user.ReviewCount == 0

		item, err := rs.resolveContentItem(ctx, tx, input)
		if err != nil {
			return err
		}
		review = &types.Review{
			ID:            uuid.New(),
			UserID:        userID,
			ContentItemID: item.ID,
			Rating:        input.Rating,
			Title:         strings.TrimSpace(input.Title),
			Content:       strings.TrimSpace(input.Content),
			IsSpoiler:     input.IsSpoiler,
		}
		if _, err := rs.reviewRepo.Create(ctx, tx, []*types.Review{review}); err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		if err := rs.userRepo.AddReviewCount(ctx, tx, userID, 1); err != nil {
			return fmt.Errorf("failed to bump review count: %w", err)
		}
		review.ContentItem = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, err := rs.gamification.AwardXP(ctx, userID, ActionWriteReview, 0); err != nil {
		return nil, err
	}
	if firstReview {
		if _, err := rs.gamification.AwardXP(ctx, userID, ActionFirstReview, 0); err != nil {
			return nil, err
		}
	}
	if _, err := rs.gamification.UpdateStreak(ctx, userID); err != nil {
		return nil, err
	}
	return review, nil
}

// resolveContentItem finds the persisted catalog row for the reviewed card, or
// creates it on the first review of that content.
func (rs *reviewService) resolveContentItem(ctx context.Context, tx *gorm.DB, input *CreateReviewInput) (*types.ContentItem, error) {
	item, err := rs.contentItemRepo.GetBySourceExternalID(ctx, tx, input.Source, input.ExternalID)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repos.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up content item: %w", err)
	}

	category, err := rs.categoryRepo.GetByName(ctx, tx, input.Category)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
		}
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	var extra datatypes.JSON
	if len(input.Extra) > 0 {
		raw, err := json.Marshal(input.Extra)
		if err != nil {
			return nil, fmt.Errorf("failed to encode content metadata: %w", err)
		}
		extra = datatypes.JSON(raw)
	}
	item = &types.ContentItem{
		ID:             uuid.New(),
		ExternalID:     input.ExternalID,
		APISource:      input.Source,
		CategoryID:     category.ID,
		Title:          strings.TrimSpace(input.ItemTitle),
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		AdditionalData: extra,
	}
	if _, err := rs.contentItemRepo.Create(ctx, tx, []*types.ContentItem{item}); err != nil {
		return nil, fmt.Errorf("failed to create content item: %w", err)
	}
	item.Category = category
	return item, nil
}

func (rs *reviewService) GetReview(ctx context.Context, reviewID uuid.UUID) (*types.Review, error) {
	review, err := rs.reviewRepo.GetByID(ctx, nil, reviewID)
	if err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return review, nil
}

func (rs *reviewService) ListForContentItem(ctx context.Context, contentItemID uuid.UUID, limit int) ([]*types.Review, error) {
	return rs.reviewRepo.ListForContentItem(ctx, nil, contentItemID, normalizeLimit(limit))
}

func (rs *reviewService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Review, error) {
	return rs.reviewRepo.ListForUser(ctx, nil, userID, normalizeLimit(limit))
}

func (rs *reviewService) Feed(ctx context.Context, userID uuid.UUID) ([]*types.Review, error) {
	followeeIDs, err := rs.followRepo.ListFolloweeIDs(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed users: %w", err)
	}
	if len(followeeIDs) == 0 {
		return rs.reviewRepo.ListRecent(ctx, nil, feedLimit)
	}
	return rs.reviewRepo.ListRecentByUserIDs(ctx, nil, followeeIDs, feedLimit)
}

func (rs *reviewService) UpdateReview(ctx context.Context, reviewID, userID uuid.UUID, input *UpdateReviewInput) (*types.Review, error) {
	updates := map[string]interface{}{}
	if input.Rating != nil {
		if *input.Rating < 1 || *input.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
		}
		updates["rating"] = *input.Rating
	}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Content != nil {
		updates["content"] = strings.TrimSpace(*input.Content)
	}
	if input.IsSpoiler != nil {
		updates["is_spoiler"] = *input.IsSpoiler
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if err := rs.reviewRepo.Update(ctx, nil, reviewID, userID, updates); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rs.GetReview(ctx, reviewID)
}

func (rs *reviewService) DeleteReview(ctx context.Context, reviewID, userID uuid.UUID) error {
	if err := rs.reviewRepo.Delete(ctx, nil, reviewID, userID); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (rs *reviewService) ToggleLike(ctx context.Context, reviewID, userID uuid.UUID) (bool, error) {
	review, err := rs.GetReview(ctx, reviewID)
	if err != nil {
		return false, err
	}

	var liked bool
	err = rs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		existing, err := rs.reviewLikeRepo.Get(ctx, tx, reviewID, userID)
		if err != nil && !errors.Is(err, repos.ErrNotFound) {
			return fmt.Errorf("failed to look up like: %w", err)
		}
		if existing != nil {
			if err := rs.reviewLikeRepo.Delete(ctx, tx, existing.ID); err != nil {
				return fmt.Errorf("failed to remove like: %w", err)
			}
			liked = false
			return rs.reviewRepo.AddLikeCount(ctx, tx, reviewID, -1)
		}
		like := &types.ReviewLike{ID: uuid.New(), ReviewID: reviewID, UserID: userID}
		if _, err := rs.reviewLikeRepo.Create(ctx, tx, like); err != nil {
			return fmt.Errorf("failed to create like: %w", err)
		}
		liked = true
		return rs.reviewRepo.AddLikeCount(ctx, tx, reviewID, 1)
	})
	if err != nil {
		return false, err
	}

	if liked && review.UserID != userID {
		if _, err := rs.gamification.AwardXP(ctx, review.UserID, ActionReceiveLike, 0); err != nil {
			return liked, err
		}
	}
	return liked, nil
}

func (rs *reviewService) AddComment(ctx context.Context, reviewID, userID uuid.UUID, content string) (*types.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: comment is empty", ErrInvalidInput)
	}
	if _, err := rs.GetReview(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &types.Comment{
		ID:       uuid.New(),
		ReviewID: reviewID,
		UserID:   userID,
		Content:  content,
	}
	err := rs.runner.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := rs.commentRepo.Create(ctx, tx, []*types.Comment{comment}); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return rs.reviewRepo.AddCommentCount(ctx, tx, reviewID, 1)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (rs *reviewService) ListComments(ctx context.Context, reviewID uuid.UUID, limit int) ([]*types.Comment, error) {
	return rs.commentRepo.ListForReview(ctx, nil, reviewID, normalizeLimit(limit))
}

func validateReviewInput(input *CreateReviewInput) error {
	if input == nil {
		return fmt.Errorf("%w: missing body", ErrInvalidInput)
	}
	if strings.TrimSpace(input.ExternalID) == "" || strings.TrimSpace(input.Source) == "" {
		return fmt.Errorf("%w: content identity is required", ErrInvalidInput)
	}
	if _, ok := providers.ParseCategory(input.Category); !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, input.Category)
	}
	if strings.TrimSpace(input.ItemTitle) == "" {
		return fmt.Errorf("%w: content title is required", ErrInvalidInput)
	}
	if input.Rating < 1 || input.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 20
	}
	return limit
}
