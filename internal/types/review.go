package types

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"index;not null;column:user_id" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ContentItemID uuid.UUID    `gorm:"index;not null;column:content_item_id" json:"content_item_id"`
	ContentItem   *ContentItem `gorm:"foreignKey:ContentItemID;references:ID" json:"content_item,omitempty"`
	Rating        int          `gorm:"not null;column:rating" json:"rating"`
	Title         string       `gorm:"column:title" json:"title"`
	Content       string       `gorm:"column:content" json:"content"`
	IsSpoiler     bool         `gorm:"not null;default:false;column:is_spoiler" json:"is_spoiler"`
	LikeCount     int          `gorm:"not null;default:0;column:like_count" json:"like_count"`
	CommentCount  int          `gorm:"not null;default:0;column:comment_count" json:"comment_count"`
	CreatedAt     time.Time    `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (Review) TableName() string {
	return "review"
}
