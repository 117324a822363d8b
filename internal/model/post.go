package model

import (
	"time"

	"github.com/google/uuid"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusScheduled PostStatus = "scheduled"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusScheduled:
		return true
	}
	return false
}

type Post struct {
	ID          int64          `json:"id"`
	AuthorID    uuid.UUID      `json:"author_id"`
	Title       string         `json:"title"`
	Subtitle    *string        `json:"subtitle"`
	Blocks      []ContentBlock `json:"content_blocks"`
	Status      PostStatus     `json:"status"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	Views       int64          `json:"views"`
	Likes       int64          `json:"likes"`
	Comments    int64          `json:"comments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Visible reports whether the post is served to readers other than its
// author. A scheduled post becomes visible once its time has passed.
func (p Post) Visible() bool {
	switch p.Status {
	case PostStatusPublished:
		return true
	case PostStatusScheduled:
		return p.ScheduledAt != nil && !p.ScheduledAt.After(time.Now())
	}
	return false
}

type Tag struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Color string `json:"color"`
}

type FullPost struct {
	Post   Post       `json:"post"`
	Author UserAuthor `json:"author"`
	Tags   []Tag      `json:"tags"`
}
