package dto

import (
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
)

// MQNotificationMsg is published by the resource services and consumed
// by the notification service, which persists the row.
type MQNotificationMsg struct {
	RecipientID uuid.UUID              `json:"recipient_id"`
	ActorID     uuid.UUID              `json:"actor_id"`
	Type        model.NotificationType `json:"type"`
	PostID      *int64                 `json:"post_id,omitempty"`
	CommentID   *int64                 `json:"comment_id,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}
