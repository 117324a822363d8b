package postgres

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type userCacheRepo struct {
	db *pgxpool.Pool
}

func newUserCacheRepo(db *pgxpool.Pool) UserCache {
	return &userCacheRepo{
		db: db,
	}
}

const cachedUserColumns = "u.id, u.external_id, u.username, u.display_name, u.avatar_url, u.bio"

// Upsert writes the identity-provider projection keyed by external id,
// so webhook deliveries are idempotent and arrival order per user does
// not matter beyond last-write-wins.
func (r *userCacheRepo) Upsert(ctx context.Context, user model.CachedUser) (*model.CachedUser, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO cached_users(id, external_id, username, display_name, avatar_url, bio)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE
		SET username = EXCLUDED.username, display_name = EXCLUDED.display_name, avatar_url = EXCLUDED.avatar_url, bio = COALESCE(EXCLUDED.bio, cached_users.bio)
		RETURNING id`,
		user.ID,
		user.ExternalID,
		user.Username,
		user.DisplayName,
		user.AvatarURL,
		user.Bio,
	).Scan(&user.ID); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userCacheRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	_, err := r.db.Exec(ctx, "DELETE FROM cached_users WHERE external_id = $1", externalID)
	return err
}

func (r *userCacheRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.QueryRow(
		ctx,
		"SELECT "+cachedUserColumns+" FROM cached_users u WHERE u.id = $1",
		id,
	).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userCacheRepo) FindByExternalID(ctx context.Context, externalID string) (*model.CachedUser, error) {
	var user model.CachedUser
	if err := r.db.QueryRow(
		ctx,
		"SELECT "+cachedUserColumns+" FROM cached_users u WHERE u.external_id = $1",
		externalID,
	).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Username,
		&user.DisplayName,
		&user.AvatarURL,
		&user.Bio,
	); err != nil {
		return nil, err
	}

	return &user, nil
}
