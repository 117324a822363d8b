package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) notificationsGet(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	notifications, err := h.services.Notification.FindByRecipient(c.Request.Context(), user.ID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, notifications))
}

func (h *Handler) notificationsUnreadCount(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	count, err := h.services.Notification.CountUnread(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"unread": count}))
}

func (h *Handler) notificationsRead(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	notificationIDString := strings.TrimSpace(c.Param("notificationID"))
	notificationID, err := strconv.ParseInt(notificationIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidNotificationID.Error()))
		return
	}

	if err := h.services.Notification.MarkRead(c.Request.Context(), notificationID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func (h *Handler) notificationsReadAll(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	if err := h.services.Notification.MarkAllRead(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}
