package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/CodeSphere/api-service/internal/repository/redisrepo"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fakeRedis is an always-empty cache. Reads miss with redis.Nil and
// writes succeed silently.
type fakeRedis struct{}

func (fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (fakeRedis) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	return redis.NewStringResult("", redis.Nil)
}

func (fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return redis.NewIntResult(0, nil)
}

func (fakeRedis) DelByPattern(ctx context.Context, pattern string) error {
	return nil
}

func (fakeRedis) Keys(ctx context.Context, pattern string) *redis.StringSliceCmd {
	return redis.NewStringSliceResult(nil, nil)
}

type fakePostRepo struct {
	postgres.Post
	posts        map[int64]*model.FullPost
	createdTags  []model.Tag
	viewIncrs    int64
	authorScopes []bool // visibleOnly per FindAuthorPosts call
}

func (f *fakePostRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return post, nil
}

func (f *fakePostRepo) Create(ctx context.Context, post model.Post, tags []model.Tag) (*model.Post, error) {
	post.ID = int64(len(f.posts) + 1)
	f.createdTags = tags
	return &post, nil
}

func (f *fakePostRepo) IncrViews(ctx context.Context, id int64) error {
	atomic.AddInt64(&f.viewIncrs, 1)
	return nil
}

func (f *fakePostRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, visibleOnly bool, limit int, offset int) ([]*model.FullPost, error) {
	f.authorScopes = append(f.authorScopes, visibleOnly)
	return nil, nil
}

type fakeCommentRepo struct {
	postgres.Comment
	comments map[int64]*model.Comment
}

func (f *fakeCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	comment, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return comment, nil
}

// fakeLikeRepo keeps likes in maps keyed by user+target so duplicate
// inserts surface the same unique violation the database would raise.
type fakeLikeRepo struct {
	postgres.Like
	postLikes    map[string]bool
	commentLikes map[string]bool
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{
		postLikes:    make(map[string]bool),
		commentLikes: make(map[string]bool),
	}
}

func likeKey(userID uuid.UUID, targetID int64) string {
	return fmt.Sprintf("%s:%d", userID.String(), targetID)
}

func (f *fakeLikeRepo) CreatePostLike(ctx context.Context, userID uuid.UUID, postID int64) error {
	key := likeKey(userID, postID)
	if f.postLikes[key] {
		return &pgconn.PgError{Code: "23505"}
	}
	f.postLikes[key] = true
	return nil
}

func (f *fakeLikeRepo) DeletePostLike(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	key := likeKey(userID, postID)
	if !f.postLikes[key] {
		return false, nil
	}
	delete(f.postLikes, key)
	return true, nil
}

func (f *fakeLikeRepo) CreateCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) error {
	key := likeKey(userID, commentID)
	if f.commentLikes[key] {
		return &pgconn.PgError{Code: "23505"}
	}
	f.commentLikes[key] = true
	return nil
}

func (f *fakeLikeRepo) DeleteCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error) {
	key := likeKey(userID, commentID)
	if !f.commentLikes[key] {
		return false, nil
	}
	delete(f.commentLikes, key)
	return true, nil
}

func (f *fakeLikeRepo) IsPostLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	return f.postLikes[likeKey(userID, postID)], nil
}

func (f *fakeLikeRepo) IsCommentLiked(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error) {
	return f.commentLikes[likeKey(userID, commentID)], nil
}

func (f *fakeLikeRepo) RecountPostLikes(ctx context.Context, postID int64) (int64, error) {
	suffix := fmt.Sprintf(":%d", postID)
	var count int64
	for key := range f.postLikes {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

func (f *fakeLikeRepo) RecountCommentLikes(ctx context.Context, commentID int64) (int64, error) {
	suffix := fmt.Sprintf(":%d", commentID)
	var count int64
	for key := range f.commentLikes {
		if len(key) > len(suffix) && key[len(key)-len(suffix):] == suffix {
			count++
		}
	}
	return count, nil
}

type fakeFollowRepo struct {
	postgres.Follow
	pairs map[string]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{pairs: make(map[string]bool)}
}

func followKey(followerID, followingID uuid.UUID) string {
	return followerID.String() + ":" + followingID.String()
}

func (f *fakeFollowRepo) Create(ctx context.Context, followerID, followingID uuid.UUID) error {
	key := followKey(followerID, followingID)
	if f.pairs[key] {
		return &pgconn.PgError{Code: "23505"}
	}
	f.pairs[key] = true
	return nil
}

func (f *fakeFollowRepo) Delete(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	key := followKey(followerID, followingID)
	if !f.pairs[key] {
		return false, nil
	}
	delete(f.pairs, key)
	return true, nil
}

type fakeUserCacheRepo struct {
	postgres.UserCache
	users map[uuid.UUID]*model.CachedUser
}

func (f *fakeUserCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

// fakeNotifications records published messages instead of touching
// rabbitmq.
type fakeNotifications struct {
	Notification
	published []dto.MQNotificationMsg
}

func (f *fakeNotifications) Publish(ctx context.Context, msg dto.MQNotificationMsg) {
	f.published = append(f.published, msg)
}

func newTestRepo(pg *postgres.PostgresRepository) *repository.Repository {
	return &repository.Repository{
		Postgres: pg,
		Redis:    &redisrepo.RedisRepository{Default: fakeRedis{}},
	}
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
