package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
)

const (
	webhookUserCreated = "user.created"
	webhookUserUpdated = "user.updated"
	webhookUserDeleted = "user.deleted"
)

// webhooksReceive handles identity-provider deliveries. The raw body is
// verified against the svix signature headers before any parsing happens;
// unverified payloads never reach the service layer.
func (h *Handler) webhooksReceive(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidWebhookPayload.Error()))
		return
	}

	wh, err := svix.NewWebhook(h.webhookSecret)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := wh.Verify(payload, c.Request.Header); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidWebhookSignature.Error()))
		return
	}

	var event dto.WebhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidWebhookPayload.Error()))
		return
	}

	switch event.Type {
	case webhookUserCreated, webhookUserUpdated:
		user := model.CachedUser{
			ExternalID:  event.Data.ID,
			Username:    event.Data.Username,
			DisplayName: displayName(event.Data),
			AvatarURL:   event.Data.ImageURL,
		}
		if _, err := h.services.UserCache.Upsert(c.Request.Context(), user); err != nil {
			respondError(c, err)
			return
		}
	case webhookUserDeleted:
		if err := h.services.UserCache.DeleteByExternalID(c.Request.Context(), event.Data.ID); err != nil {
			respondError(c, err)
			return
		}
	default:
		// unhandled event types are acknowledged so the provider stops retrying
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func displayName(data dto.WebhookEventData) *string {
	var parts []string
	if data.FirstName != nil && *data.FirstName != "" {
		parts = append(parts, *data.FirstName)
	}
	if data.LastName != nil && *data.LastName != "" {
		parts = append(parts, *data.LastName)
	}
	if len(parts) == 0 {
		return nil
	}
	name := strings.Join(parts, " ")
	return &name
}
