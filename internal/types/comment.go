package types

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ReviewID  uuid.UUID `gorm:"index;not null;column:review_id" json:"review_id"`
	Review    *Review   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ReviewID;references:ID" json:"-"`
	UserID    uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Content   string    `gorm:"not null;column:content" json:"content"`
	LikeCount int       `gorm:"not null;default:0;column:like_count" json:"like_count"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Comment) TableName() string {
	return "comment"
}
