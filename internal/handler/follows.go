package handler

import (
	"net/http"
	"strings"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userIDString := strings.TrimSpace(c.Param("userID"))
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidUserID.Error()))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) followsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	followingID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.services.Follow.Follow(c.Request.Context(), user.ID, followingID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_following": true}))
}

func (h *Handler) followsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	followingID, ok := h.userID(c)
	if !ok {
		return
	}

	if err := h.services.Follow.Unfollow(c.Request.Context(), user.ID, followingID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_following": false}))
}

func (h *Handler) followsGetFollowers(c *gin.Context) {
	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	userID, ok := h.userID(c)
	if !ok {
		return
	}

	followers, err := h.services.Follow.FindFollowers(c.Request.Context(), userID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, followers))
}

func (h *Handler) followsGetFollowing(c *gin.Context) {
	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	userID, ok := h.userID(c)
	if !ok {
		return
	}

	following, err := h.services.Follow.FindFollowing(c.Request.Context(), userID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, following))
}
