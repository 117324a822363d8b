package postgres

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type followRepo struct {
	db *pgxpool.Pool
}

func newFollowRepo(db *pgxpool.Pool) Follow {
	return &followRepo{
		db: db,
	}
}

func scanUserAuthors(rows pgx.Rows) ([]*model.UserAuthor, error) {
	var users []*model.UserAuthor
	for rows.Next() {
		var user model.UserAuthor
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Create relies on the primary key (follower_id, following_id): a second
// follow of the same target comes back as a 23505 error.
func (r *followRepo) Create(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO follows(follower_id, following_id, created_at) VALUES($1, $2, now())",
		followerID,
		followingID,
	)
	return err
}

func (r *followRepo) Delete(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"DELETE FROM follows WHERE follower_id = $1 AND following_id = $2",
		followerID,
		followingID,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *followRepo) Exists(ctx context.Context, followerID uuid.UUID, followingID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)",
		followerID,
		followingID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *followRepo) FindFollowers(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN cached_users u ON f.follower_id = u.id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2
		OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserAuthors(rows)
}

func (r *followRepo) FindFollowing(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM follows f
		JOIN cached_users u ON f.following_id = u.id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2
		OFFSET $3`,
		userID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserAuthors(rows)
}

func (r *followRepo) CountFollowers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE following_id = $1", userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *followRepo) CountFollowing(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM follows WHERE follower_id = $1", userID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
