package service

import (
	"context"
	"time"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/CodeSphere/api-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type likeService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newLikeService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Like {
	return &likeService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

// LikePost inserts the like and returns the recounted total. Duplicate
// likes surface as a unique violation from the database, not from a
// pre-insert existence check.
func (s *likeService) LikePost(ctx context.Context, userID uuid.UUID, postID int64) (int64, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, postID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", postID, err.Error())
		return 0, ErrInternal
	}

	if err := s.repo.Postgres.Like.CreatePostLike(ctx, userID, postID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, ErrAlreadyLiked
		}
		s.logger.Sugar().Errorf("failed to create user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
		return 0, ErrInternal
	}

	count, err := s.repo.Postgres.Like.RecountPostLikes(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to recount post(%d) likes: %s", postID, err.Error())
		return 0, ErrInternal
	}

	s.invalidatePostCaches(ctx, postID)

	if post.Post.AuthorID != userID {
		s.notifications.Publish(ctx, dto.MQNotificationMsg{
			RecipientID: post.Post.AuthorID,
			ActorID:     userID,
			Type:        model.NotificationPostLiked,
			PostID:      &postID,
			CreatedAt:   time.Now(),
		})
	}

	return count, nil
}

func (s *likeService) UnlikePost(ctx context.Context, userID uuid.UUID, postID int64) (int64, error) {
	deleted, err := s.repo.Postgres.Like.DeletePostLike(ctx, userID, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
		return 0, ErrInternal
	}
	if !deleted {
		return 0, ErrNotLiked
	}

	count, err := s.repo.Postgres.Like.RecountPostLikes(ctx, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to recount post(%d) likes: %s", postID, err.Error())
		return 0, ErrInternal
	}

	s.invalidatePostCaches(ctx, postID)

	return count, nil
}

func (s *likeService) LikeComment(ctx context.Context, userID uuid.UUID, commentID int64) (int64, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return 0, ErrInternal
	}

	if err := s.repo.Postgres.Like.CreateCommentLike(ctx, userID, commentID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return 0, ErrAlreadyLiked
		}
		s.logger.Sugar().Errorf("failed to create user(%s) like on comment(%d): %s", userID.String(), commentID, err.Error())
		return 0, ErrInternal
	}

	count, err := s.repo.Postgres.Like.RecountCommentLikes(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to recount comment(%d) likes: %s", commentID, err.Error())
		return 0, ErrInternal
	}

	s.invalidateCommentCaches(ctx, comment)

	if comment.AuthorID != userID {
		s.notifications.Publish(ctx, dto.MQNotificationMsg{
			RecipientID: comment.AuthorID,
			ActorID:     userID,
			Type:        model.NotificationCommentLiked,
			PostID:      &comment.PostID,
			CommentID:   &commentID,
			CreatedAt:   time.Now(),
		})
	}

	return count, nil
}

func (s *likeService) UnlikeComment(ctx context.Context, userID uuid.UUID, commentID int64) (int64, error) {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, commentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", commentID, err.Error())
		return 0, ErrInternal
	}

	deleted, err := s.repo.Postgres.Like.DeleteCommentLike(ctx, userID, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete user(%s) like on comment(%d): %s", userID.String(), commentID, err.Error())
		return 0, ErrInternal
	}
	if !deleted {
		return 0, ErrNotLiked
	}

	count, err := s.repo.Postgres.Like.RecountCommentLikes(ctx, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to recount comment(%d) likes: %s", commentID, err.Error())
		return 0, ErrInternal
	}

	s.invalidateCommentCaches(ctx, comment)

	return count, nil
}

func (s *likeService) IsPostLiked(ctx context.Context, userID uuid.UUID, postID int64) bool {
	liked, err := s.repo.Postgres.Like.IsPostLiked(ctx, userID, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check user(%s) like on post(%d): %s", userID.String(), postID, err.Error())
		return false
	}

	return liked
}

func (s *likeService) IsCommentLiked(ctx context.Context, userID uuid.UUID, commentID int64) bool {
	liked, err := s.repo.Postgres.Like.IsCommentLiked(ctx, userID, commentID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check user(%s) like on comment(%d): %s", userID.String(), commentID, err.Error())
		return false
	}

	return liked
}

func (s *likeService) FindPostLikers(ctx context.Context, postID int64, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	likers, err := s.repo.Postgres.Like.FindPostLikers(ctx, postID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) likers: %s", postID, err.Error())
		return nil, ErrInternal
	}

	return likers, nil
}

func (s *likeService) invalidatePostCaches(ctx context.Context, postID int64) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", postID, err.Error())
	}
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.FEED_PATTERN); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate feed cache: %s", err.Error())
	}
}

func (s *likeService) invalidateCommentCaches(ctx context.Context, comment *model.Comment) {
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.PostCommentsPattern(comment.PostID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) comments cache: %s", comment.PostID, err.Error())
	}
	if comment.ParentID != nil {
		if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.CommentRepliesPattern(*comment.ParentID)); err != nil {
			s.logger.Sugar().Errorf("failed to invalidate comment(%d) replies cache: %s", *comment.ParentID, err.Error())
		}
	}
}
