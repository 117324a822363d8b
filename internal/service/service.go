package service

import (
	"context"
	"mime/multipart"

	"github.com/CodeSphere/api-service/internal/content"
	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/rabbitmq"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/CodeSphere/api-service/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT || *limit <= 0 {
		*limit = MAX_LIMIT
	}
}

type Post interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, content.BlockErrors, error)
	FindByID(ctx context.Context, id int64, viewerID *uuid.UUID) (*model.FullPost, error)
	Feed(ctx context.Context, filter postgres.FeedFilter) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewerID *uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error)
	GetTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error)
	FindUserLikedPosts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	Edit(ctx context.Context, id int64, authorID uuid.UUID, input dto.EditPostRequest) (content.BlockErrors, error)
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
	UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error)
}

type Comment interface {
	Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error)
	FindReplies(ctx context.Context, commentID int64, limit int, offset int) ([]*model.FullComment, error)
	Edit(ctx context.Context, id int64, authorID uuid.UUID, contentText string) error
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
}

type Like interface {
	LikePost(ctx context.Context, userID uuid.UUID, postID int64) (int64, error)
	UnlikePost(ctx context.Context, userID uuid.UUID, postID int64) (int64, error)
	LikeComment(ctx context.Context, userID uuid.UUID, commentID int64) (int64, error)
	UnlikeComment(ctx context.Context, userID uuid.UUID, commentID int64) (int64, error)
	IsPostLiked(ctx context.Context, userID uuid.UUID, postID int64) bool
	IsCommentLiked(ctx context.Context, userID uuid.UUID, commentID int64) bool
	FindPostLikers(ctx context.Context, postID int64, limit int, offset int) ([]*model.UserAuthor, error)
}

type Follow interface {
	Follow(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error
	Unfollow(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error
	FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error)
	FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error)
}

type UserCache interface {
	Upsert(ctx context.Context, user model.CachedUser) (*model.CachedUser, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.CachedUser, error)
	Profile(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID) (*model.Profile, error)
	IsProfileComplete(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Notification interface {
	Publish(ctx context.Context, msg dto.MQNotificationMsg)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id int64, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	StartConsume(ctx context.Context)
}

type Bookmark interface {
	Save(ctx context.Context, userID uuid.UUID, postID int64) error
	Unsave(ctx context.Context, userID uuid.UUID, postID int64) error
	IsSaved(ctx context.Context, userID uuid.UUID, postID int64) bool
	FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
}

type Service struct {
	Post
	Comment
	Like
	Follow
	UserCache
	Notification
	Bookmark
}

func New(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn, s3 *storage.S3Store) *Service {
	notifications := newNotificationService(logger, repo, mq)

	return &Service{
		Post:         newPostService(logger, repo, s3),
		Comment:      newCommentService(logger, repo, notifications),
		Like:         newLikeService(logger, repo, notifications),
		Follow:       newFollowService(logger, repo, notifications),
		UserCache:    newUserCacheService(logger, repo),
		Notification: notifications,
		Bookmark:     newBookmarkService(logger, repo),
	}
}

func (s *Service) StartConsumeAll(ctx context.Context) {
	go s.Notification.StartConsume(ctx)
}
