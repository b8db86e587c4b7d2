package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dosyammh/critic/internal/services"
)

type AchievementHandler struct {
	gamification services.GamificationService
}

func NewAchievementHandler(gamification services.GamificationService) *AchievementHandler {
	return &AchievementHandler{gamification: gamification}
}

func (ah *AchievementHandler) ListMine(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	states, err := ah.gamification.ListAchievements(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"achievements": states})
}

// CheckIn advances the caller's daily streak and pays the streak bonus.
func (ah *AchievementHandler) CheckIn(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	result, err := ah.gamification.UpdateStreak(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (ah *AchievementHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := ah.gamification.Leaderboard(c.Request.Context(), limit, offset)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": users})
}

func (ah *AchievementHandler) MyRank(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	position, err := ah.gamification.LeaderboardPosition(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"position": position})
}
