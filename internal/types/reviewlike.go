package types

import (
	"time"

	"github.com/google/uuid"
)

type ReviewLike struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"not null;column:review_id;uniqueIndex:idx_review_like_review_user" json:"review_id"`
	Review    *Review   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReviewID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"not null;column:user_id;uniqueIndex:idx_review_like_review_user" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ReviewLike) TableName() string {
	return "review_like"
}
