package postgres

import (
	"context"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type likeRepo struct {
	db *pgxpool.Pool
}

func newLikeRepo(db *pgxpool.Pool) Like {
	return &likeRepo{
		db: db,
	}
}

// CreatePostLike inserts the like. The unique index on (user_id, post_id)
// makes a duplicate surface as a 23505 error, which the service maps to
// a conflict.
func (r *likeRepo) CreatePostLike(ctx context.Context, userID uuid.UUID, postID int64) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO likes(user_id, post_id, created_at) VALUES($1, $2, now())",
		userID,
		postID,
	)
	return err
}

func (r *likeRepo) DeletePostLike(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"DELETE FROM likes WHERE user_id = $1 AND post_id = $2",
		userID,
		postID,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *likeRepo) CreateCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) error {
	_, err := r.db.Exec(
		ctx,
		"INSERT INTO likes(user_id, comment_id, created_at) VALUES($1, $2, now())",
		userID,
		commentID,
	)
	return err
}

func (r *likeRepo) DeleteCommentLike(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error) {
	result, err := r.db.Exec(
		ctx,
		"DELETE FROM likes WHERE user_id = $1 AND comment_id = $2",
		userID,
		commentID,
	)
	if err != nil {
		return false, err
	}

	return result.RowsAffected() > 0, nil
}

func (r *likeRepo) IsPostLiked(ctx context.Context, userID uuid.UUID, postID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)",
		userID,
		postID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *likeRepo) IsCommentLiked(ctx context.Context, userID uuid.UUID, commentID int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND comment_id = $2)",
		userID,
		commentID,
	).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *likeRepo) FindPostLikers(ctx context.Context, postID int64, limit int, offset int) ([]*model.UserAuthor, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT u.id, u.username, u.display_name, u.avatar_url
		FROM likes l
		JOIN cached_users u ON l.user_id = u.id
		WHERE l.post_id = $1
		ORDER BY l.created_at DESC
		LIMIT $2
		OFFSET $3`,
		postID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanUserAuthors(rows)
}

func (r *likeRepo) RecountPostLikes(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		`UPDATE posts
		SET likes_count = (SELECT COUNT(*) FROM likes WHERE post_id = $1)
		WHERE id = $1
		RETURNING likes_count`,
		postID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *likeRepo) RecountCommentLikes(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		`UPDATE comments
		SET likes_count = (SELECT COUNT(*) FROM likes WHERE comment_id = $1)
		WHERE id = $1
		RETURNING likes_count`,
		commentID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
