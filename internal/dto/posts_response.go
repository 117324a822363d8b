package dto

import "github.com/CodeSphere/api-service/internal/model"

type GetPost struct {
	Post    model.FullPost `json:"post"`
	IsLiked bool           `json:"is_liked"`
	IsSaved bool           `json:"is_saved"`
}
