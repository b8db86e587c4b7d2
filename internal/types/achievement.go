package types

import (
	"time"

	"github.com/google/uuid"
)

// Requirement kinds an achievement threshold can be measured against.
const (
	RequirementReviewCount    = "review_count"
	RequirementStreak         = "streak"
	RequirementFollowerCount  = "follower_count"
	RequirementFollowingCount = "following_count"
)

type Achievement struct {
	ID               uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description      string    `gorm:"column:description" json:"description"`
	Icon             string    `gorm:"column:icon" json:"icon"`
	RequirementType  string    `gorm:"not null;column:requirement_type" json:"requirement_type"`
	RequirementValue int       `gorm:"not null;column:requirement_value" json:"requirement_value"`
	XPReward         int       `gorm:"not null;default:0;column:xp_reward" json:"xp_reward"`
	CreatedAt        time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievement"
}
