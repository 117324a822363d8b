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

type followService struct {
	logger        *zap.Logger
	repo          *repository.Repository
	notifications Notification
}

func newFollowService(logger *zap.Logger, repo *repository.Repository, notifications Notification) Follow {
	return &followService{
		logger:        logger,
		repo:          repo,
		notifications: notifications,
	}
}

func (s *followService) Follow(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	if _, err := s.repo.Postgres.UserCache.FindByID(ctx, followingID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to find user(%s): %s", followingID.String(), err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.Follow.Create(ctx, followerID, followingID); err != nil {
		if postgres.IsUniqueViolation(err) {
			return ErrAlreadyFollowing
		}
		s.logger.Sugar().Errorf("failed to create follow(%s -> %s): %s", followerID.String(), followingID.String(), err.Error())
		return ErrInternal
	}

	s.invalidateProfiles(ctx, followerID, followingID)

	s.notifications.Publish(ctx, dto.MQNotificationMsg{
		RecipientID: followingID,
		ActorID:     followerID,
		Type:        model.NotificationNewFollower,
		CreatedAt:   time.Now(),
	})

	return nil
}

func (s *followService) Unfollow(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error {
	deleted, err := s.repo.Postgres.Follow.Delete(ctx, followerID, followingID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to delete follow(%s -> %s): %s", followerID.String(), followingID.String(), err.Error())
		return ErrInternal
	}
	if !deleted {
		return ErrNotFollowing
	}

	s.invalidateProfiles(ctx, followerID, followingID)

	return nil
}

func (s *followService) FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	followers, err := s.repo.Postgres.Follow.FindFollowers(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) followers: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return followers, nil
}

func (s *followService) FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	following, err := s.repo.Postgres.Follow.FindFollowing(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) following: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return following, nil
}

func (s *followService) invalidateProfiles(ctx context.Context, userIDs ...uuid.UUID) {
	for _, id := range userIDs {
		if err := s.repo.Redis.Default.Del(ctx, redisrepo.ProfileKey(id.String())).Err(); err != nil {
			s.logger.Sugar().Errorf("failed to delete profile(%s) from redis: %s", id.String(), err.Error())
		}
	}
}
