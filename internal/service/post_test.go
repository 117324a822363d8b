package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostFixture(posts ...*model.FullPost) (Post, *fakePostRepo) {
	repo := &fakePostRepo{posts: make(map[int64]*model.FullPost)}
	for _, post := range posts {
		repo.posts[post.Post.ID] = post
	}

	svc := newPostService(testLogger(), newTestRepo(&postgres.PostgresRepository{Post: repo}), nil)
	return svc, repo
}

func postWithStatus(id int64, authorID uuid.UUID, status model.PostStatus, scheduledAt *time.Time) *model.FullPost {
	return &model.FullPost{
		Post: model.Post{
			ID:          id,
			AuthorID:    authorID,
			Title:       "my post",
			Status:      status,
			ScheduledAt: scheduledAt,
		},
	}
}

func TestFindPostByID_DraftHiddenFromReaders(t *testing.T) {
	authorID := uuid.New()
	strangerID := uuid.New()
	svc, repo := newPostFixture(postWithStatus(1, authorID, model.PostStatusDraft, nil))
	ctx := context.Background()

	_, err := svc.FindByID(ctx, 1, nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = svc.FindByID(ctx, 1, &strangerID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	// a hidden post never counts a view
	assert.Equal(t, int64(0), atomic.LoadInt64(&repo.viewIncrs))
}

func TestFindPostByID_DraftVisibleToAuthor(t *testing.T) {
	authorID := uuid.New()
	svc, repo := newPostFixture(postWithStatus(1, authorID, model.PostStatusDraft, nil))

	post, err := svc.FindByID(context.Background(), 1, &authorID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Post.ID)

	// the author previewing their own draft doesn't bump views either
	assert.Equal(t, int64(0), atomic.LoadInt64(&repo.viewIncrs))
}

func TestFindPostByID_ScheduledFutureHidden(t *testing.T) {
	authorID := uuid.New()
	strangerID := uuid.New()
	scheduledAt := time.Now().Add(time.Hour)
	svc, _ := newPostFixture(postWithStatus(1, authorID, model.PostStatusScheduled, &scheduledAt))
	ctx := context.Background()

	_, err := svc.FindByID(ctx, 1, &strangerID)
	assert.ErrorIs(t, err, ErrPostNotFound)

	post, err := svc.FindByID(ctx, 1, &authorID)
	require.NoError(t, err)
	assert.Equal(t, model.PostStatusScheduled, post.Post.Status)
}

func TestFindPostByID_ScheduledPastServed(t *testing.T) {
	authorID := uuid.New()
	scheduledAt := time.Now().Add(-time.Hour)
	svc, _ := newPostFixture(postWithStatus(1, authorID, model.PostStatusScheduled, &scheduledAt))

	post, err := svc.FindByID(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), post.Post.ID)
}

func TestFindAuthorPosts_ScopesToViewer(t *testing.T) {
	authorID := uuid.New()
	strangerID := uuid.New()
	svc, repo := newPostFixture()
	ctx := context.Background()

	_, err := svc.FindAuthorPosts(ctx, authorID, nil, 10, 0)
	require.NoError(t, err)
	_, err = svc.FindAuthorPosts(ctx, authorID, &strangerID, 10, 0)
	require.NoError(t, err)
	_, err = svc.FindAuthorPosts(ctx, authorID, &authorID, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, []bool{true, true, false}, repo.authorScopes)
}

func TestCreatePost_DedupesTags(t *testing.T) {
	authorID := uuid.New()
	svc, repo := newPostFixture()

	input := dto.CreatePostRequest{
		Title:  "tagged post",
		Status: model.PostStatusPublished,
		Blocks: []model.ContentBlock{
			{ID: uuid.New(), Type: model.BlockTypeParagraph, Content: "hello"},
		},
		Tags: []model.Tag{
			{Label: "Go", Value: "go"},
			{Label: "Golang", Value: "go"},
			{Label: "Web", Value: "web"},
		},
	}

	created, blockErrs, err := svc.Create(context.Background(), authorID, input)
	require.NoError(t, err)
	require.Empty(t, blockErrs)
	require.NotNil(t, created)

	require.Len(t, repo.createdTags, 2)
	assert.Equal(t, "go", repo.createdTags[0].Value)
	assert.Equal(t, "Go", repo.createdTags[0].Label)
	assert.Equal(t, "web", repo.createdTags[1].Value)
}
