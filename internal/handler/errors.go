package handler

import (
	"errors"
	"net/http"

	"github.com/CodeSphere/api-service/internal/content"
	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized           = errors.New("user is not authorized")
	errInvalidPostID           = errors.New("invalid post ID")
	errInvalidCommentID        = errors.New("invalid comment ID")
	errInvalidNotificationID   = errors.New("invalid notification ID")
	errInvalidUserID           = errors.New("invalid user ID")
	errHoursAndLimitMustBeInt  = errors.New("hours and limit must be int")
	errLimitAndOffsetMustBeInt = errors.New("limit and offset must be int")

	errInvalidWebhookPayload   = errors.New("invalid webhook payload")
	errInvalidWebhookSignature = errors.New("invalid webhook signature")
)

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrNotLiked),
		errors.Is(err, service.ErrAlreadyFollowing),
		errors.Is(err, service.ErrNotFollowing),
		errors.Is(err, service.ErrAlreadySaved),
		errors.Is(err, service.ErrNotSaved):
		return http.StatusConflict
	case errors.Is(err, service.ErrSelfFollow):
		return http.StatusForbidden
	case errors.Is(err, service.ErrParentMismatch),
		errors.Is(err, service.ErrFileMustBeImage),
		errors.Is(err, content.ErrNoBlocks),
		errors.Is(err, content.ErrTitleRequired),
		errors.Is(err, content.ErrTitleTooLong),
		errors.Is(err, content.ErrSubtitleTooLong),
		errors.Is(err, content.ErrInvalidStatus),
		errors.Is(err, content.ErrScheduleTime):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusForError(err)
	c.JSON(status, dto.NewError(status, err.Error()))
}

// respondBlockErrors attaches the per-block index->message mapping so the
// client can highlight the offending block.
func respondBlockErrors(c *gin.Context, blockErrs content.BlockErrors) {
	c.JSON(http.StatusBadRequest, dto.NewValidationError(
		http.StatusBadRequest,
		"post content is invalid",
		gin.H{"blocks": blockErrs},
	))
}
