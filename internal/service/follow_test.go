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

func newFollowFixture(knownUsers ...uuid.UUID) (Follow, *fakeNotifications) {
	users := make(map[uuid.UUID]*model.CachedUser)
	for _, id := range knownUsers {
		users[id] = &model.CachedUser{ID: id, Username: "user-" + id.String()[:8]}
	}

	notifications := &fakeNotifications{}
	repo := newTestRepo(&postgres.PostgresRepository{
		Follow:    newFakeFollowRepo(),
		UserCache: &fakeUserCacheRepo{users: users},
	})

	return newFollowService(testLogger(), repo, notifications), notifications
}

func TestFollow(t *testing.T) {
	ctx := context.Background()
	followerID := uuid.New()
	followingID := uuid.New()
	svc, notifications := newFollowFixture(followerID, followingID)

	require.NoError(t, svc.Follow(ctx, followerID, followingID))

	require.Len(t, notifications.published, 1)
	assert.Equal(t, model.NotificationNewFollower, notifications.published[0].Type)
	assert.Equal(t, followingID, notifications.published[0].RecipientID)
}

func TestFollow_Self(t *testing.T) {
	userID := uuid.New()
	svc, _ := newFollowFixture(userID)

	err := svc.Follow(context.Background(), userID, userID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestFollow_Duplicate(t *testing.T) {
	ctx := context.Background()
	followerID := uuid.New()
	followingID := uuid.New()
	svc, _ := newFollowFixture(followerID, followingID)

	require.NoError(t, svc.Follow(ctx, followerID, followingID))

	err := svc.Follow(ctx, followerID, followingID)
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestFollow_TargetMissing(t *testing.T) {
	followerID := uuid.New()
	svc, _ := newFollowFixture(followerID)

	err := svc.Follow(context.Background(), followerID, uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUnfollow_NotFollowing(t *testing.T) {
	followerID := uuid.New()
	followingID := uuid.New()
	svc, _ := newFollowFixture(followerID, followingID)

	err := svc.Unfollow(context.Background(), followerID, followingID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestFollowUnfollow(t *testing.T) {
	ctx := context.Background()
	followerID := uuid.New()
	followingID := uuid.New()
	svc, _ := newFollowFixture(followerID, followingID)

	require.NoError(t, svc.Follow(ctx, followerID, followingID))
	require.NoError(t, svc.Unfollow(ctx, followerID, followingID))

	err := svc.Unfollow(ctx, followerID, followingID)
	assert.ErrorIs(t, err, ErrNotFollowing)
}
