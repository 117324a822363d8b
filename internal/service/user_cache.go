package service

import (
	"context"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type userCacheService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserCacheService(logger *zap.Logger, repo *repository.Repository) UserCache {
	return &userCacheService{
		logger: logger,
		repo:   repo,
	}
}

func (s *userCacheService) Upsert(ctx context.Context, user model.CachedUser) (*model.CachedUser, error) {
	upserted, err := s.repo.Postgres.UserCache.Upsert(ctx, user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upsert cached user(%s): %s", user.ExternalID, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(upserted.ID.String()), redisrepo.ProfileKey(upserted.ID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", upserted.ID.String(), err.Error())
	}

	return upserted, nil
}

func (s *userCacheService) DeleteByExternalID(ctx context.Context, externalID string) error {
	user, err := s.repo.Postgres.UserCache.FindByExternalID(ctx, externalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// already gone; deliveries may arrive out of order
			return nil
		}
		s.logger.Sugar().Errorf("failed to find cached user by external id(%s): %s", externalID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.UserCache.DeleteByExternalID(ctx, externalID); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s): %s", externalID, err.Error())
		return ErrInternal
	}

	if err := s.repo.Redis.Default.Del(ctx, redisrepo.UserCacheKey(user.ID.String()), redisrepo.ProfileKey(user.ID.String())).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete cached user(%s) from redis: %s", user.ID.String(), err.Error())
	}

	return nil
}

func (s *userCacheService) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	cachedUser, err := redisrepo.Get[model.CachedUser](s.repo.Redis.Default, ctx, redisrepo.UserCacheKey(id.String()))
	if err == nil {
		if cachedUser == nil {
			return nil, ErrUserNotFound
		}
		return cachedUser, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get cached user(%s) from redis: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	user, err := s.repo.Postgres.UserCache.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to get cached user(%s) from postgres: %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.UserCacheKey(id.String()), user, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set user(%s) in redis: %s", id.String(), err.Error())
	}

	return user, nil
}

func (s *userCacheService) FindByExternalID(ctx context.Context, externalID string) (*model.CachedUser, error) {
	user, err := s.repo.Postgres.UserCache.FindByExternalID(ctx, externalID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		s.logger.Sugar().Errorf("failed to get cached user by external id(%s): %s", externalID, err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *userCacheService) Profile(ctx context.Context, userID uuid.UUID, viewerID *uuid.UUID) (*model.Profile, error) {
	profile, err := redisrepo.Get[model.Profile](s.repo.Redis.Default, ctx, redisrepo.ProfileKey(userID.String()))
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get profile(%s) from redis: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	if profile == nil {
		user, err := s.FindByID(ctx, userID)
		if err != nil {
			return nil, err
		}

		posts, err := s.repo.Postgres.Post.CountByAuthor(ctx, userID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to count user(%s) posts: %s", userID.String(), err.Error())
			return nil, ErrInternal
		}
		followers, err := s.repo.Postgres.Follow.CountFollowers(ctx, userID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to count user(%s) followers: %s", userID.String(), err.Error())
			return nil, ErrInternal
		}
		following, err := s.repo.Postgres.Follow.CountFollowing(ctx, userID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to count user(%s) following: %s", userID.String(), err.Error())
			return nil, ErrInternal
		}

		profile = &model.Profile{
			User:      *user,
			Posts:     posts,
			Followers: followers,
			Following: following,
		}

		if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.ProfileKey(userID.String()), profile, time.Minute*15); err != nil {
			s.logger.Sugar().Errorf("failed to set profile(%s) in redis: %s", userID.String(), err.Error())
		}
	}

	// IsFollowed is viewer-specific, so it is resolved outside the cache.
	if viewerID != nil && *viewerID != userID {
		followed, err := s.repo.Postgres.Follow.Exists(ctx, *viewerID, userID)
		if err != nil {
			s.logger.Sugar().Errorf("failed to check follow(%s -> %s): %s", viewerID.String(), userID.String(), err.Error())
			return nil, ErrInternal
		}
		profile.IsFollowed = followed
	} else {
		profile.IsFollowed = false
	}

	return profile, nil
}

func (s *userCacheService) IsProfileComplete(ctx context.Context, userID uuid.UUID) (bool, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}

	complete := user.Username != "" &&
		user.DisplayName != nil && *user.DisplayName != "" &&
		user.Bio != nil && *user.Bio != ""

	return complete, nil
}
