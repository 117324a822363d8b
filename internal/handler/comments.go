package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentID(c *gin.Context) (int64, bool) {
	commentIDString := strings.TrimSpace(c.Param("commentID"))
	commentID, err := strconv.ParseInt(commentIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidCommentID.Error()))
		return 0, false
	}
	return commentID, true
}

func (h *Handler) commentsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	createdComment, err := h.services.Comment.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOK(http.StatusCreated, createdComment))
}

func (h *Handler) commentsGet(c *gin.Context) {
	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	comments, err := h.services.Comment.FindPostComments(c.Request.Context(), postID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, comments))
}

func (h *Handler) commentsGetReplies(c *gin.Context) {
	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	replies, err := h.services.Comment.FindReplies(c.Request.Context(), commentID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, replies))
}

func (h *Handler) commentsEdit(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	var input dto.EditCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.services.Comment.Edit(c.Request.Context(), commentID, user.ID, input.Content); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func (h *Handler) commentsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	if err := h.services.Comment.Delete(c.Request.Context(), commentID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func (h *Handler) commentsLike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	likes, err := h.services.Like.LikeComment(c.Request.Context(), user.ID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"likes": likes, "is_liked": true}))
}

func (h *Handler) commentsUnlike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	likes, err := h.services.Like.UnlikeComment(c.Request.Context(), user.ID, commentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"likes": likes, "is_liked": false}))
}

func (h *Handler) commentsIsLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	commentID, ok := h.commentID(c)
	if !ok {
		return
	}

	isLiked := h.services.Like.IsCommentLiked(c.Request.Context(), user.ID, commentID)

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_liked": isLiked}))
}
