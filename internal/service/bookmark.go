package service

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type bookmarkService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newBookmarkService(logger *zap.Logger, repo *repository.Repository) Bookmark {
	return &bookmarkService{
		logger: logger,
		repo:   repo,
	}
}

func (s *bookmarkService) Save(ctx context.Context, userID uuid.UUID, postID int64) error {
	if err := s.repo.Postgres.Bookmark.Create(ctx, userID, postID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrAlreadySaved
		}
		s.logger.Sugar().Errorf("failed to save post(%d) for user(%s): %s", postID, userID.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *bookmarkService) Unsave(ctx context.Context, userID uuid.UUID, postID int64) error {
	deleted, err := s.repo.Postgres.Bookmark.Delete(ctx, userID, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to unsave post(%d) for user(%s): %s", postID, userID.String(), err.Error())
		return ErrInternal
	}
	if !deleted {
		return ErrNotSaved
	}

	return nil
}

func (s *bookmarkService) IsSaved(ctx context.Context, userID uuid.UUID, postID int64) bool {
	saved, err := s.repo.Postgres.Bookmark.IsSaved(ctx, userID, postID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to check bookmark for post(%d), user(%s): %s", postID, userID.String(), err.Error())
		return false
	}

	return saved
}

func (s *bookmarkService) FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	posts, err := s.repo.Postgres.Bookmark.FindUserBookmarks(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) bookmarks: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}
