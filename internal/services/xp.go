package services

import (
	"fmt"
	"math"
)

// Action names an event that can earn a user experience points.
type Action string

const (
	ActionFirstReview       Action = "FIRST_REVIEW"
	ActionWriteReview       Action = "WRITE_REVIEW"
	ActionReceiveLike       Action = "RECEIVE_LIKE"
	ActionDailyStreak       Action = "DAILY_STREAK"
	ActionWeeklyStreak      Action = "WEEKLY_STREAK"
	ActionFollowUser        Action = "FOLLOW_USER"
	ActionGetFollower       Action = "GET_FOLLOWER"
	ActionAchievementReward Action = "ACHIEVEMENT_REWARD"
)

// XPForAction returns the base XP for an action. Achievement rewards carry
// their own amount on the achievement row, so the base here is zero.
func XPForAction(action Action) (int, error) {
	switch action {
	case ActionFirstReview:
		return 100, nil
	case ActionWriteReview:
		return 25, nil
	case ActionReceiveLike:
		return 5, nil
	case ActionDailyStreak:
		return 10, nil
	case ActionWeeklyStreak:
		return 50, nil
	case ActionFollowUser:
		return 5, nil
	case ActionGetFollower:
		return 10, nil
	case ActionAchievementReward:
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown xp action %q", action)
	}
}

// LevelForXP maps a total XP amount to a level: floor(sqrt(xp/100)) + 1.
// Level 1 covers 0-99 XP, level 2 starts at 100, level 3 at 400, and so on.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100.0)) + 1
}

// XPForLevel returns the total XP at which the given level begins.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * (level - 1) * 100
}
