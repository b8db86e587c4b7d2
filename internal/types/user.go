package types

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Username       string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	DisplayName    string    `gorm:"not null;column:display_name" json:"display_name"`
	Email          string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password       string    `gorm:"not null;column:password" json:"-"`
	Bio            string    `gorm:"column:bio" json:"bio"`
	AvatarColor    string    `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarPath     string    `gorm:"column:avatar_path" json:"-"`
	AvatarURL      string    `gorm:"column:avatar_url" json:"avatar_url"`
	XPPoints       int       `gorm:"not null;default:0;column:xp_points" json:"xp_points"`
	Level          int       `gorm:"not null;default:1;column:level" json:"level"`
	ReviewCount    int       `gorm:"not null;default:0;column:review_count" json:"review_count"`
	FollowerCount  int       `gorm:"not null;default:0;column:follower_count" json:"follower_count"`
	FollowingCount int       `gorm:"not null;default:0;column:following_count" json:"following_count"`
	CurrentStreak  int       `gorm:"not null;default:0;column:current_streak" json:"current_streak"`
	LongestStreak  int       `gorm:"not null;default:0;column:longest_streak" json:"longest_streak"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
