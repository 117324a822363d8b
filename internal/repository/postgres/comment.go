package postgres

import (
	"context"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type commentRepo struct {
	db *pgxpool.Pool
}

func newCommentRepo(db *pgxpool.Pool) Comment {
	return &commentRepo{
		db: db,
	}
}

const fullCommentColumns = `
c.id, c.parent_id, c.post_id, c.author_id, c.content, c.likes_count,
(SELECT COUNT(*) FROM comments r WHERE r.parent_id = c.id) AS replies,
c.created_at, c.updated_at,
u.username, u.display_name, u.avatar_url`

func scanFullComments(rows pgx.Rows) ([]*model.FullComment, error) {
	var comments []*model.FullComment
	for rows.Next() {
		var (
			comment     model.Comment
			username    string
			displayName *string
			avatarURL   *string
		)
		if err := rows.Scan(
			&comment.ID,
			&comment.ParentID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.Content,
			&comment.Likes,
			&comment.Replies,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&username,
			&displayName,
			&avatarURL,
		); err != nil {
			return nil, err
		}

		comments = append(comments, &model.FullComment{
			Comment: comment,
			Author: model.UserAuthor{
				ID:          comment.AuthorID,
				Username:    username,
				DisplayName: displayName,
				AvatarURL:   avatarURL,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepo) Create(ctx context.Context, comment model.Comment) (*model.Comment, error) {
	now := time.Now()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO comments(parent_id, post_id, author_id, content, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		comment.ParentID,
		comment.PostID,
		comment.AuthorID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	).Scan(&comment.ID); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.QueryRow(
		ctx,
		`SELECT c.id, c.parent_id, c.post_id, c.author_id, c.content, c.likes_count, c.created_at, c.updated_at
		FROM comments c
		WHERE c.id = $1`,
		id,
	).Scan(
		&comment.ID,
		&comment.ParentID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.Content,
		&comment.Likes,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &comment, nil
}

func (r *commentRepo) FindPostComments(ctx context.Context, postID int64, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		WHERE c.post_id = $1 AND c.parent_id IS NULL
		ORDER BY c.created_at DESC
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

	return scanFullComments(rows)
}

func (r *commentRepo) FindReplies(ctx context.Context, commentID int64, limit int, offset int) ([]*model.FullComment, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullCommentColumns+`
		FROM comments c
		JOIN cached_users u ON c.author_id = u.id
		WHERE c.parent_id = $1
		ORDER BY c.created_at ASC
		LIMIT $2
		OFFSET $3`,
		commentID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullComments(rows)
}

func (r *commentRepo) UpdateContent(ctx context.Context, id int64, authorID uuid.UUID, content string) error {
	result, err := r.db.Exec(
		ctx,
		"UPDATE comments SET content = $1, updated_at = now() WHERE id = $2 AND author_id = $3",
		content,
		id,
		authorID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

// Delete removes the comment; replies go with it through the
// ON DELETE CASCADE on comments.parent_id.
func (r *commentRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	result, err := r.db.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *commentRepo) RecountPostComments(ctx context.Context, postID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		`UPDATE posts
		SET comments_count = (SELECT COUNT(*) FROM comments WHERE post_id = $1)
		WHERE id = $1
		RETURNING comments_count`,
		postID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
