package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dosyammh/critic/internal/services"
)

type SocialHandler struct {
	socialService services.SocialService
}

func NewSocialHandler(socialService services.SocialService) *SocialHandler {
	return &SocialHandler{socialService: socialService}
}

func (sh *SocialHandler) Follow(c *gin.Context) {
	followerID, ok := callerID(c)
	if !ok {
		return
	}
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.socialService.Follow(c.Request.Context(), followerID, followeeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": true})
}

func (sh *SocialHandler) Unfollow(c *gin.Context) {
	followerID, ok := callerID(c)
	if !ok {
		return
	}
	followeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := sh.socialService.Unfollow(c.Request.Context(), followerID, followeeID); err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"following": false})
}

func (sh *SocialHandler) ListFollowers(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	users, err := sh.socialService.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": users})
}

func (sh *SocialHandler) ListFollowing(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	users, err := sh.socialService.ListFollowing(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"users": users})
}
