package service

import (
	"context"
	"testing"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLikeFixture(authorID uuid.UUID) (Like, *fakeLikeRepo, *fakeNotifications) {
	likes := newFakeLikeRepo()
	notifications := &fakeNotifications{}

	repo := newTestRepo(&postgres.PostgresRepository{
		Post: &fakePostRepo{posts: map[int64]*model.FullPost{
			1: {Post: model.Post{ID: 1, AuthorID: authorID, Title: "hello"}},
		}},
		Comment: &fakeCommentRepo{comments: map[int64]*model.Comment{
			10: {ID: 10, PostID: 1, AuthorID: authorID, Content: "nice"},
		}},
		Like: likes,
	})

	return newLikeService(testLogger(), repo, notifications), likes, notifications
}

func TestLikePost(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	likerID := uuid.New()
	svc, _, notifications := newLikeFixture(authorID)

	count, err := svc.LikePost(ctx, likerID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.Len(t, notifications.published, 1)
	assert.Equal(t, model.NotificationPostLiked, notifications.published[0].Type)
	assert.Equal(t, authorID, notifications.published[0].RecipientID)
	assert.Equal(t, likerID, notifications.published[0].ActorID)
}

func TestLikePost_Duplicate(t *testing.T) {
	ctx := context.Background()
	likerID := uuid.New()
	svc, _, _ := newLikeFixture(uuid.New())

	_, err := svc.LikePost(ctx, likerID, 1)
	require.NoError(t, err)

	_, err = svc.LikePost(ctx, likerID, 1)
	assert.ErrorIs(t, err, ErrAlreadyLiked)
}

func TestLikePost_PostNotFound(t *testing.T) {
	svc, _, _ := newLikeFixture(uuid.New())

	_, err := svc.LikePost(context.Background(), uuid.New(), 404)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLikePost_OwnPostDoesNotNotify(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	svc, _, notifications := newLikeFixture(authorID)

	_, err := svc.LikePost(ctx, authorID, 1)
	require.NoError(t, err)
	assert.Empty(t, notifications.published)
}

func TestUnlikePost_NotLiked(t *testing.T) {
	svc, _, _ := newLikeFixture(uuid.New())

	_, err := svc.UnlikePost(context.Background(), uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestLikeUnlikeRoundTrip(t *testing.T) {
	ctx := context.Background()
	likerID := uuid.New()
	svc, _, _ := newLikeFixture(uuid.New())

	count, err := svc.LikePost(ctx, likerID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = svc.UnlikePost(ctx, likerID, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	liked := svc.IsPostLiked(ctx, likerID, 1)
	assert.False(t, liked)
}

func TestLikeComment(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	likerID := uuid.New()
	svc, _, notifications := newLikeFixture(authorID)

	count, err := svc.LikeComment(ctx, likerID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.Len(t, notifications.published, 1)
	assert.Equal(t, model.NotificationCommentLiked, notifications.published[0].Type)
}

func TestLikeComment_NotFound(t *testing.T) {
	svc, _, _ := newLikeFixture(uuid.New())

	_, err := svc.LikeComment(context.Background(), uuid.New(), 404)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}
