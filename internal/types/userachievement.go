package types

import (
	"time"

	"github.com/google/uuid"
)

// UserAchievement tracks one user's progress toward one achievement. Completed
// never reverts to false and UnlockedAt is written exactly once, at the moment
// the achievement unlocks.
type UserAchievement struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID    `gorm:"not null;column:user_id;uniqueIndex:idx_user_achievement_pair" json:"user_id"`
	User          *User        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	AchievementID uuid.UUID    `gorm:"not null;column:achievement_id;uniqueIndex:idx_user_achievement_pair" json:"achievement_id"`
	Achievement   *Achievement `gorm:"foreignKey:AchievementID;references:ID" json:"achievement,omitempty"`
	Progress      int          `gorm:"not null;default:0;column:progress" json:"progress"`
	Completed     bool         `gorm:"not null;default:false;column:completed" json:"completed"`
	UnlockedAt    *time.Time   `gorm:"column:unlocked_at" json:"unlocked_at,omitempty"`
	CreatedAt     time.Time    `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null;default:now()" json:"updated_at"`
}

func (UserAchievement) TableName() string {
	return "user_achievement"
}
