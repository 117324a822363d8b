package model

import (
	"time"

	"github.com/google/uuid"
)

// Like targets exactly one of PostID/CommentID. Uniqueness per
// (user, target) is enforced by a database constraint, not by the service.
type Like struct {
	ID        int64     `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	PostID    *int64    `json:"post_id"`
	CommentID *int64    `json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}
