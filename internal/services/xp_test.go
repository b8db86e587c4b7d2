package services

import "testing"

func TestXPForAction(t *testing.T) {
	cases := []struct {
		action Action
		want   int
	}{
		{ActionFirstReview, 100},
		{ActionWriteReview, 25},
		{ActionReceiveLike, 5},
		{ActionDailyStreak, 10},
		{ActionWeeklyStreak, 50},
		{ActionFollowUser, 5},
		{ActionGetFollower, 10},
		{ActionAchievementReward, 0},
	}
	for _, tc := range cases {
		got, err := XPForAction(tc.action)
		if err != nil {
			t.Fatalf("XPForAction(%s): unexpected error: %v", tc.action, err)
		}
		if got != tc.want {
			t.Fatalf("XPForAction(%s) = %d, want %d", tc.action, got, tc.want)
		}
	}
}

func TestXPForActionUnknown(t *testing.T) {
	if _, err := XPForAction(Action("TELEPORT")); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestLevelForXP(t *testing.T) {
	cases := []struct {
		xp   int
		want int
	}{
		{-50, 1},
		{0, 1},
		{99, 1},
		{100, 2},
		{399, 2},
		{400, 3},
		{899, 3},
		{900, 4},
		{10000, 11},
	}
	for _, tc := range cases {
		if got := LevelForXP(tc.xp); got != tc.want {
			t.Fatalf("LevelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
		}
	}
}

func TestLevelForXPMonotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 5000; xp++ {
		level := LevelForXP(xp)
		if level < prev {
			t.Fatalf("level dropped from %d to %d at %d xp", prev, level, xp)
		}
		prev = level
	}
}

func TestXPForLevelRoundTrip(t *testing.T) {
	for level := 1; level <= 20; level++ {
		threshold := XPForLevel(level)
		if got := LevelForXP(threshold); got != level {
			t.Fatalf("LevelForXP(XPForLevel(%d)) = %d", level, got)
		}
		if level > 1 {
			if got := LevelForXP(threshold - 1); got != level-1 {
				t.Fatalf("LevelForXP(%d) = %d, want %d", threshold-1, got, level-1)
			}
		}
	}
}
