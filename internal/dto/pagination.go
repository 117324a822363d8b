package dto

type PaginationRequest struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}
