package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) postID(c *gin.Context) (int64, bool) {
	postIDString := strings.TrimSpace(c.Param("postID"))
	postID, err := strconv.ParseInt(postIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidPostID.Error()))
		return 0, false
	}
	return postID, true
}

func (h *Handler) postsCreate(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	createdPost, blockErrs, err := h.services.Post.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(blockErrs) > 0 {
		respondBlockErrors(c, blockErrs)
		return
	}

	c.JSON(http.StatusCreated, dto.NewOK(http.StatusCreated, createdPost))
}

func (h *Handler) postsFeed(c *gin.Context) {
	var input dto.FeedRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	posts, err := h.services.Post.Feed(c.Request.Context(), postgres.FeedFilter{
		Limit:  input.Limit,
		Offset: input.Offset,
		Sort:   input.Sort,
		Tag:    input.Tag,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsGetByID(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	var viewerID *uuid.UUID
	if user != nil {
		viewerID = &user.ID
	}

	post, err := h.services.Post.FindByID(c.Request.Context(), postID, viewerID)
	if err != nil {
		respondError(c, err)
		return
	}

	postDto := dto.GetPost{
		Post: *post,
	}

	if user != nil {
		postDto.IsLiked = h.services.Like.IsPostLiked(c.Request.Context(), user.ID, post.Post.ID)
		postDto.IsSaved = h.services.Bookmark.IsSaved(c.Request.Context(), user.ID, post.Post.ID)
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, postDto))
}

func (h *Handler) postsGetByAuthor(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	userIDString := strings.TrimSpace(c.Param("userID"))
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errInvalidUserID.Error()))
		return
	}

	var viewerID *uuid.UUID
	if user != nil {
		viewerID = &user.ID
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), userID, viewerID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsGetMy(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	posts, err := h.services.Post.FindAuthorPosts(c.Request.Context(), user.ID, &user.ID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsEdit(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	var input dto.EditPostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	blockErrs, err := h.services.Post.Edit(c.Request.Context(), postID, user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(blockErrs) > 0 {
		respondBlockErrors(c, blockErrs)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func (h *Handler) postsDelete(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.services.Post.Delete(c.Request.Context(), postID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, nil))
}

func (h *Handler) postsLike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	likes, err := h.services.Like.LikePost(c.Request.Context(), user.ID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"likes": likes, "is_liked": true}))
}

func (h *Handler) postsUnlike(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	likes, err := h.services.Like.UnlikePost(c.Request.Context(), user.ID, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"likes": likes, "is_liked": false}))
}

func (h *Handler) postsIsLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	isLiked := h.services.Like.IsPostLiked(c.Request.Context(), user.ID, postID)

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_liked": isLiked}))
}

func (h *Handler) postsGetLikers(c *gin.Context) {
	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	likers, err := h.services.Like.FindPostLikers(c.Request.Context(), postID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, likers))
}

func (h *Handler) postsGetLiked(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	posts, err := h.services.Post.FindUserLikedPosts(c.Request.Context(), user.ID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsSave(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.services.Bookmark.Save(c.Request.Context(), user.ID, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_saved": true}))
}

func (h *Handler) postsUnsave(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	postID, ok := h.postID(c)
	if !ok {
		return
	}

	if err := h.services.Bookmark.Unsave(c.Request.Context(), user.ID, postID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"is_saved": false}))
}

func (h *Handler) postsGetSaved(c *gin.Context) {
	user := h.getCachedUserFromRequest(c)

	var input dto.PaginationRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}

	posts, err := h.services.Bookmark.FindUserBookmarks(c.Request.Context(), user.ID, input.Limit, input.Offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsTrending(c *gin.Context) {
	hours, err0 := strconv.Atoi(c.DefaultQuery("hours", "24"))
	limit, err1 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errHoursAndLimitMustBeInt.Error()))
		return
	}

	posts, err := h.services.Post.GetTrending(c.Request.Context(), hours, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, posts))
}

func (h *Handler) postsSearchByTitle(c *gin.Context) {
	limit, err0 := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err0 != nil || err1 != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, errLimitAndOffsetMustBeInt.Error()))
		return
	}
	title := c.Query("q")

	result, err := h.services.Post.SearchByTitle(c.Request.Context(), title, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, result))
}

func (h *Handler) postsUploadImage(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewError(http.StatusBadRequest, err.Error()))
		return
	}
	defer file.Close()

	url, err := h.services.Post.UploadImage(c.Request.Context(), file, fileHeader)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewOK(http.StatusOK, gin.H{"url": url}))
}
