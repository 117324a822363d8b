package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/CodeSphere/api-service/internal/content"
	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/CodeSphere/api-service/internal/repository/redisrepo"
	"github.com/CodeSphere/api-service/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var allowedImageExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type postService struct {
	logger *zap.Logger
	repo   *repository.Repository
	s3     *storage.S3Store
}

func newPostService(logger *zap.Logger, repo *repository.Repository, s3 *storage.S3Store) Post {
	return &postService{
		logger: logger,
		repo:   repo,
		s3:     s3,
	}
}

// dedupeTags keeps the first occurrence of every tag value; repeated
// values would trip the (post_id, value) primary key on insert.
func dedupeTags(tags []model.Tag) []model.Tag {
	seen := make(map[string]struct{}, len(tags))
	out := make([]model.Tag, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag.Value]; ok {
			continue
		}
		seen[tag.Value] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input dto.CreatePostRequest) (*model.Post, content.BlockErrors, error) {
	if !input.Status.Valid() {
		return nil, nil, content.ErrInvalidStatus
	}
	if input.Status == model.PostStatusScheduled && (input.ScheduledAt == nil || !input.ScheduledAt.After(time.Now())) {
		return nil, nil, content.ErrScheduleTime
	}

	blockErrs, err := content.ValidateBlocks(input.Blocks)
	if err != nil {
		return nil, nil, err
	}
	if len(blockErrs) > 0 {
		return nil, blockErrs, nil
	}

	post := model.Post{
		AuthorID:    authorID,
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Blocks:      input.Blocks,
		Status:      input.Status,
		ScheduledAt: input.ScheduledAt,
	}

	createdPost, err := s.repo.Postgres.Post.Create(ctx, post, dedupeTags(input.Tags))
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user(%s) post: %s", authorID.String(), err.Error())
		return nil, nil, ErrInternal
	}

	s.invalidateListCaches(ctx, authorID)

	return createdPost, nil, nil
}

func (s *postService) FindByID(ctx context.Context, id int64, viewerID *uuid.UUID) (*model.FullPost, error) {
	post, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// drafts and still-scheduled posts exist only for their author
	if !post.Post.Visible() {
		if viewerID == nil || *viewerID != post.Post.AuthorID {
			return nil, ErrPostNotFound
		}
		return post, nil
	}

	s.incrViews(post.Post.ID)

	return post, nil
}

func (s *postService) findByID(ctx context.Context, id int64) (*model.FullPost, error) {
	cachedPost, err := redisrepo.Get[model.FullPost](s.repo.Redis.Default, ctx, redisrepo.PostKey(id))
	if err == nil {
		if cachedPost == nil {
			return nil, ErrPostNotFound
		}
		return cachedPost, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get post(%d) from redis: %s", id, err.Error())
		return nil, ErrInternal
	}

	post, err := s.repo.Postgres.Post.FindByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to find post(%d) from postgres: %s", id, err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, redisrepo.PostKey(id), post, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set post(%d) in redis: %s", id, err.Error())
	}

	return post, nil
}

// incrViews bumps the counter off the request path. The cached copy goes
// slightly stale; it catches up on the next cache miss.
func (s *postService) incrViews(postID int64) {
	go func(id int64) {
		ctx := context.Background()
		if err := s.repo.Postgres.Post.IncrViews(ctx, id); err != nil {
			s.logger.Sugar().Errorf("failed to increment views for post(%d): %s", id, err.Error())
		}
	}(postID)
}

func (s *postService) Feed(ctx context.Context, filter postgres.FeedFilter) ([]*model.FullPost, error) {
	maxLimit(&filter.Limit)
	if filter.Sort != "top" {
		filter.Sort = "newest"
	}

	key := redisrepo.FeedKey(filter.Sort, filter.Tag, filter.Limit, filter.Offset)

	cachedPosts, err := redisrepo.GetMany[model.FullPost](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cachedPosts, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get feed from redis: %s", err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Postgres.Post.FindFeed(ctx, filter)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find feed from postgres: %s", err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, posts, time.Minute*5); err != nil {
		s.logger.Sugar().Errorf("failed to set feed in redis: %s", err.Error())
	}

	return posts, nil
}

func (s *postService) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, viewerID *uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	// only the author sees their drafts and still-scheduled posts
	visibleOnly := viewerID == nil || *viewerID != authorID

	scope := "all"
	if visibleOnly {
		scope = "visible"
	}
	key := redisrepo.AuthorPostsKey(authorID.String(), scope, limit, offset)

	cachedPosts, err := redisrepo.GetMany[model.FullPost](s.repo.Redis.Default, ctx, key)
	if err == nil {
		return cachedPosts, nil
	}
	if err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get author(%s) posts from redis: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	posts, err := s.repo.Postgres.Post.FindAuthorPosts(ctx, authorID, visibleOnly, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find author(%s) posts from postgres: %s", authorID.String(), err.Error())
		return nil, ErrInternal
	}

	if err := s.repo.Redis.Default.SetJSON(ctx, key, posts, time.Hour); err != nil {
		s.logger.Sugar().Errorf("failed to set author(%s) posts in redis: %s", authorID.String(), err.Error())
	}

	return posts, nil
}

func (s *postService) SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	posts, err := s.repo.Postgres.Post.SearchByTitle(ctx, title, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to search posts by title: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) GetTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)
	if hours <= 0 {
		hours = 24
	}

	posts, err := s.repo.Postgres.Post.FindTrending(ctx, hours, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find trending posts: %s", err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) FindUserLikedPosts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	posts, err := s.repo.Postgres.Post.FindUserLikedPosts(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to get user(%s) likes from postgres: %s", userID.String(), err.Error())
		return nil, ErrInternal
	}

	return posts, nil
}

func (s *postService) Edit(ctx context.Context, id int64, authorID uuid.UUID, input dto.EditPostRequest) (content.BlockErrors, error) {
	updates := make(map[string]interface{})

	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Subtitle != nil {
		updates["subtitle"] = *input.Subtitle
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, content.ErrInvalidStatus
		}
		if *input.Status == model.PostStatusScheduled && (input.ScheduledAt == nil || !input.ScheduledAt.After(time.Now())) {
			return nil, content.ErrScheduleTime
		}
		updates["status"] = *input.Status
		updates["scheduled_at"] = input.ScheduledAt
	}
	if input.Blocks != nil {
		blockErrs, err := content.ValidateBlocks(input.Blocks)
		if err != nil {
			return nil, err
		}
		if len(blockErrs) > 0 {
			return blockErrs, nil
		}

		blocksJSON, err := json.Marshal(input.Blocks)
		if err != nil {
			s.logger.Sugar().Errorf("failed to marshal post(%d) blocks: %s", id, err.Error())
			return nil, ErrInternal
		}
		updates["content_blocks"] = blocksJSON
	}

	if len(updates) > 0 {
		if err := s.repo.Postgres.Post.Update(ctx, id, authorID, updates); err != nil {
			if err == pgx.ErrNoRows {
				return nil, ErrPostNotFound
			}
			s.logger.Sugar().Errorf("failed to update post(%d): %s", id, err.Error())
			return nil, ErrInternal
		}
	}

	if input.Tags != nil {
		if err := s.repo.Postgres.Post.ReplaceTags(ctx, id, dedupeTags(input.Tags)); err != nil {
			s.logger.Sugar().Errorf("failed to replace post(%d) tags: %s", id, err.Error())
			return nil, ErrInternal
		}
	}

	s.invalidatePostCaches(ctx, id, authorID)

	return nil, nil
}

func (s *postService) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	if err := s.repo.Postgres.Post.Delete(ctx, id, authorID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrPostNotFound
		}
		s.logger.Sugar().Errorf("failed to delete post(%d): %s", id, err.Error())
		return ErrInternal
	}

	s.invalidatePostCaches(ctx, id, authorID)

	return nil
}

func (s *postService) UploadImage(ctx context.Context, file multipart.File, fileHeader *multipart.FileHeader) (string, error) {
	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrFileMustBeImage
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", ErrFileMustBeImage
	}

	url, err := s.s3.UploadImage(ctx, file, fileHeader.Size, contentType, ext)
	if err != nil {
		s.logger.Sugar().Errorf("failed to upload image to storage: %s", err.Error())
		return "", ErrFailedToUploadImage
	}

	return url, nil
}

func (s *postService) invalidatePostCaches(ctx context.Context, postID int64, authorID uuid.UUID) {
	if err := s.repo.Redis.Default.Del(ctx, redisrepo.PostKey(postID)).Err(); err != nil {
		s.logger.Sugar().Errorf("failed to delete post(%d) from redis: %s", postID, err.Error())
	}

	s.invalidateListCaches(ctx, authorID)
}

func (s *postService) invalidateListCaches(ctx context.Context, authorID uuid.UUID) {
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.FEED_PATTERN); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate feed cache: %s", err.Error())
	}
	if err := s.repo.Redis.Default.DelByPattern(ctx, redisrepo.AuthorPostsPattern(authorID.String())); err != nil {
		s.logger.Sugar().Errorf("failed to invalidate author(%s) posts cache: %s", authorID.String(), err.Error())
	}
}
