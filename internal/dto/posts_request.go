package dto

import (
	"time"

	"github.com/CodeSphere/api-service/internal/model"
)

type CreatePostRequest struct {
	Title       string               `json:"title" binding:"required,min=2,max=200"`
	Subtitle    *string              `json:"subtitle" binding:"omitempty,max=300"`
	Tags        []model.Tag          `json:"tags"`
	Status      model.PostStatus     `json:"status" binding:"required"`
	ScheduledAt *time.Time           `json:"scheduled_at"`
	Blocks      []model.ContentBlock `json:"content_blocks"`
}

type EditPostRequest struct {
	Title       *string              `json:"title" binding:"omitempty,min=2,max=200"`
	Subtitle    *string              `json:"subtitle" binding:"omitempty,max=300"`
	Tags        []model.Tag          `json:"tags"`
	Status      *model.PostStatus    `json:"status"`
	ScheduledAt *time.Time           `json:"scheduled_at"`
	Blocks      []model.ContentBlock `json:"content_blocks"`
}

type FeedRequest struct {
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
	Sort   string `form:"sort"` // newest | top
	Tag    string `form:"tag"`
}
