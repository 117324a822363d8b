package handler

import (
	"net/http"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) usersGetProfile(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var viewerID *uuid.UUID
	if user != nil {
		viewerID = &user.ID
	}

	profile, err := h.services.UserCache.Profile(c.Request.Context(), userID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, profile))
}

func (h *Handler) usersProfileComplete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	complete, err := h.services.UserCache.IsProfileComplete(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"profile_complete": complete}))
}
