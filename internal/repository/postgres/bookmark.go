package postgres

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type bookmarkRepo struct {
	db *pgxpool.Pool
}

func newBookmarkRepo(db *pgxpool.Pool) Bookmark {
	return &bookmarkRepo{
		db: db,
	}
}

func (r *bookmarkRepo) Create(ctx context.Context, userID uuid.UUID, postID int64) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO bookmarks(user_id, post_id, created_at) VALUES($1, $2, now())",
		userID,
		postID,
	)
	return err
}

func (r *bookmarkRepo) Delete(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2",
		userID,
		postID,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookmarkRepo) IsSaved(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM bookmarks WHERE user_id = $1 AND post_id = $2)",
		userID,
		postID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *bookmarkRepo) FindUserBookmarks(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM bookmarks b
		JOIN posts p ON b.post_id = p.id
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
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

	return scanFullPosts(rows)
}
