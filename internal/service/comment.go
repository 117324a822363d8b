package service

import (
	"context"
	"time"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type commentService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newCommentService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Comment {
	return &commentService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *commentService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreateCommentRequest) (*model.Comment, error) {
	post, err := s.repo.Postgres.Post.FindByID(ctx, input.PostID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d): %s", input.PostID, err.Error())
		return nil, ErrInternal
	}

	var parent *model.Comment
	if input.ParentID != nil {
		parent, err = s.repo.Postgres.Comment.FindByID(ctx, *input.ParentID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrCommentNotFound
			}
			s.logger.Sugar().Errorf("failed to find parent comment(%d): %s", *input.ParentID, err.Error())
			return nil, ErrInternal
		}
		if parent.PostID != input.PostID {
			return nil, ErrParentMismatch
		}
	}

	comment := model.Comment{
		ParentID: input.ParentID,
		PostID:   input.PostID,
		AuthorID: authorID,
		Content:  input.Content,
	}

	createdComment, err := s.repo.Postgres.Comment.Create(ctx, comment)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) comment: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if _, err := s.repo.Postgres.Comment.RecountPostComments(ctx, input.PostID); err != nil {
		s.logger.Sugar().Errorf("failed to recount post(%d) comments: %s", input.PostID, err.Error())
	}

	s.invalidateCommentCaches(ctx, input.PostID, input.ParentID)

	if parent != nil && parent.AuthorID != authorID {
		s.notifications.Publish(ctx, dto.MQNotificationMsg{
			RecipientID: parent.AuthorID,
			ActorID:     authorID,
			Type:        model.NotificationCommentReply,
			PostID:      &input.PostID,
			CommentID:   &createdComment.ID,
			CreatedAt:   time.Now(),
		})
	} else if parent == nil && post.Post.AuthorID != authorID {
		s.notifications.Publish(ctx, dto.MQNotificationMsg{
			RecipientID: post.Post.AuthorID,
			ActorID:     authorID,
			Type:        model.NotificationPostCommented,
			PostID:      &input.PostID,
			CommentID:   &createdComment.ID,
			CreatedAt:   time.Now(),
		})
	}

	return createdComment, nil
}

func (s *commentService) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	key := redisrepo.PostCommentsKey(postID, limit, offset)

	cachedComments, err := redisrepo.GetMany[model.FullComment](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cachedComments, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) comments from redis: %s", postID, err.Error())
		return nil, ErrInternal
	}

	comments, err := s.repo.Postgres.Comment.FindPostComments(ctx, postID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find post(%d) comments from postgres: %s", postID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, comments, time.Minute*10); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) comments in redis: %s", postID, err.Error())
	}

	return comments, nil
}

func (s *commentService) FindReplies(ctx context.Context, commentID int64, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	key := redisrepo.CommentRepliesKey(commentID, limit, offset)

	cachedReplies, err := redisrepo.GetMany[model.FullComment](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cachedReplies, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get comment(%d) replies from redis: %s", commentID, err.Error())
		return nil, ErrInternal
	}

	replies, err := s.repo.Postgres.Comment.FindReplies(ctx, commentID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find comment(%d) replies from postgres: %s", commentID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, replies, time.Minute*10); err != nil {
		s.logger.Sugar().Errorf("failed to set comment(%d) replies in redis: %s", commentID, err.Error())
	}

	return replies, nil
}

func (s *commentService) Edit(ctx context.Context, id int64, authorID uuid.UUID, contentText string) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Comment.UpdateContent(ctx, id, authorID, contentText); err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to update comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	s.invalidateCommentCaches(ctx, comment.PostID, comment.ParentID)

	return nil
}

// Delete removes the comment and, through the parent_id cascade, its
// replies, then brings the post counter back in line.
func (s *commentService) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	comment, err := s.repo.Postgres.Comment.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to find comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Comment.Delete(ctx, id, authorID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrCommentNotFound
		}
		s.logger.Sugar().Errorf("failed to delete comment(%d): %s", id, err.Error())
		return ErrInternal
	}

	if _, err := s.repo.Postgres.Comment.RecountPostComments(ctx, comment.PostID); err != nil {
		s.logger.Sugar().Errorf("failed to recount post(%d) comments: %s", comment.PostID, err.Error())
	}

	s.invalidateCommentCaches(ctx, comment.PostID, comment.ParentID)
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.CommentRepliesPattern(id)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate comment(%d) replies cache: %s", id, err.Error())
	}

	return nil
}

func (s *commentService) invalidateCommentCaches(ctx context.Context, postID int64, parentID *int64) {
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.PostCommentsPattern(postID)); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate post(%d) comments cache: %s", postID, err.Error())
	}
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", postID, err.Error())
	}
	if parentID != nil {
		if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.CommentRepliesPattern(*parentID)); err != nil {
			s.logger.Sugar().Errorf("failed to invalidate comment(%d) replies cache: %s", *parentID, err.Error())
		}
	}
}
