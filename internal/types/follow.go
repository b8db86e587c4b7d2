package types

import (
	"time"

	"github.com/google/uuid"
)

type Follow struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FollowerID uuid.UUID `gorm:"not null;column:follower_id;uniqueIndex:idx_follow_pair" json:"follower_id"`
	Follower   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FollowerID;references:ID" json:"-"`
	FolloweeID uuid.UUID `gorm:"not null;column:followee_id;uniqueIndex:idx_follow_pair" json:"followee_id"`
	Followee   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:FolloweeID;references:ID" json:"-"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Follow) TableName() string {
	return "follow"
}
