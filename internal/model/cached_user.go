package model

import "github.com/google/uuid"

// CachedUser is the local projection of an identity-provider user,
// kept in sync by the webhook receiver.
type CachedUser struct {
	ID          uuid.UUID `json:"id"`
	ExternalID  string    `json:"external_id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
}

type UserAuthor struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName *string   `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
}

type Profile struct {
	User       CachedUser `json:"user"`
	Posts      int64      `json:"posts"`
	Followers  int64      `json:"followers"`
	Following  int64      `json:"following"`
	IsFollowed bool       `json:"is_followed"`
}
