package postgres

import (
	"context"
	"errors"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit > MAX_LIMIT || *limit <= 0 {
		*limit = MAX_LIMIT
	}
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Like/follow/bookmark dedup relies on this instead of a
// read-then-insert check, which would race under concurrent requests.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type FeedFilter struct {
	Limit  int
	Offset int
	Sort   string // "newest" or "top"
	Tag    string // tag value, empty for no filter
}

type Post interface {
	Create(ctx context.Context, post model.Post, tags []model.Tag) (*model.Post, error)
	FindByID(ctx context.Context, id int64) (*model.FullPost, error)
	FindFeed(ctx context.Context, filter FeedFilter) ([]*model.FullPost, error)
	FindAuthorPosts(ctx context.Context, authorID uuid.UUID, visibleOnly bool, limit int, offset int) ([]*model.FullPost, error)
	SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error)
	FindTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error)
	FindUserLikedPosts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
	Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) error
	ReplaceTags(ctx context.Context, postID int64, tags []model.Tag) error
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
	IncrViews(ctx context.Context, id int64) error
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

type Comment interface {
	Create(ctx context.Context, comment model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error)
	FindReplies(ctx context.Context, commentID int64, limit int, offset int) ([]*model.FullComment, error)
	UpdateContent(ctx context.Context, id int64, authorID uuid.UUID, content string) error
	Delete(ctx context.Context, id int64, authorID uuid.UUID) error
	RecountPostComments(ctx context.Context, postID int64) (int64, error)
}

type Like interface {
	CreatePostLike(ctx context.Context, userID uuid.UUID, postID int64) error
	DeletePostLike(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
	CreateCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) error
	DeleteCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error)
	IsPostLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
	IsCommentLiked(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error)
	FindPostLikers(ctx context.Context, postID int64, limit int, offset int) ([]*model.UserAuthor, error)
	RecountPostLikes(ctx context.Context, postID int64) (int64, error)
	RecountCommentLikes(ctx context.Context, commentID int64) (int64, error)
}

type Follow interface {
	Create(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error
	Delete(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (bool, error)
	Exists(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (bool, error)
	FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error)
	FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error)
	CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error)
	CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error)
}

type UserCache interface {
	Upsert(ctx context.Context, user model.CachedUser) (*model.CachedUser, error)
	DeleteByExternalID(ctx context.Context, externalID string) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error)
	FindByExternalID(ctx context.Context, externalID string) (*model.CachedUser, error)
}

type Notification interface {
	Create(ctx context.Context, notification model.Notification) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id int64, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type Bookmark interface {
	Create(ctx context.Context, userID uuid.UUID, postID int64) error
	Delete(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
	IsSaved(ctx context.Context, userID uuid.UUID, postID int64) (bool, error)
	FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error)
}

type PostgresRepository struct {
	Post
	Comment
	Like
	Follow
	UserCache
	Notification
	Bookmark
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		Post:         newPostRepo(db),
		Comment:      newCommentRepo(db),
		Like:         newLikeRepo(db),
		Follow:       newFollowRepo(db),
		UserCache:    newUserCacheRepo(db),
		Notification: newNotificationRepo(db),
		Bookmark:     newBookmarkRepo(db),
	}
}
