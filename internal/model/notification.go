package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationPostLiked     NotificationType = "post_liked"
	NotificationCommentLiked  NotificationType = "comment_liked"
	NotificationPostCommented NotificationType = "post_commented"
	NotificationCommentReply  NotificationType = "comment_reply"
	NotificationNewFollower   NotificationType = "new_follower"
)

type Notification struct {
	ID          int64            `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	ActorID     uuid.UUID        `json:"actor_id"`
	Type        NotificationType `json:"type"`
	PostID      *int64           `json:"post_id"`
	CommentID   *int64           `json:"comment_id"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

type FullNotification struct {
	Notification Notification `json:"notification"`
	Actor        UserAuthor   `json:"actor"`
}
