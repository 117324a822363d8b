package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

// fullPostColumns is the shared projection for every full-post query:
// the post row, its author from cached_users, and one tag triple per
// joined post_tags row (aggregated in scanFullPosts).
const fullPostColumns = `
p.id, p.author_id, p.title, p.subtitle, p.content_blocks, p.status, p.scheduled_at,
p.views, p.likes_count, p.comments_count, p.created_at, p.updated_at,
u.username, u.display_name, u.avatar_url,
t.label, t.value, t.color`

func scanFullPosts(rows pgx.Rows) ([]*model.FullPost, error) {
	postMap := make(map[int64]*model.FullPost)
	var order []int64

	for rows.Next() {
		var (
			id            int64
			authorID      uuid.UUID
			title         string
			subtitle      *string
			blocksJSON    []byte
			status        string
			scheduledAt   *time.Time
			views         int64
			likesCount    int64
			commentsCount int64
			createdAt     time.Time
			updatedAt     time.Time
			username      string
			displayName   *string
			avatarURL     *string
			tagLabel      *string
			tagValue      *string
			tagColor      *string
		)
		if err := rows.Scan(
			&id,
			&authorID,
			&title,
			&subtitle,
			&blocksJSON,
			&status,
			&scheduledAt,
			&views,
			&likesCount,
			&commentsCount,
			&createdAt,
			&updatedAt,
			&username,
			&displayName,
			&avatarURL,
			&tagLabel,
			&tagValue,
			&tagColor,
		); err != nil {
			return nil, err
		}

		post, exists := postMap[id]
		if !exists {
			var blocks []model.ContentBlock
			if len(blocksJSON) > 0 {
				if err := json.Unmarshal(blocksJSON, &blocks); err != nil {
					return nil, err
				}
			}

			post = &model.FullPost{
				Post: model.Post{
					ID:          id,
					AuthorID:    authorID,
					Title:       title,
					Subtitle:    subtitle,
					Blocks:      blocks,
					Status:      model.PostStatus(status),
					ScheduledAt: scheduledAt,
					Views:       views,
					Likes:       likesCount,
					Comments:    commentsCount,
					CreatedAt:   createdAt,
					UpdatedAt:   updatedAt,
				},
				Author: model.UserAuthor{
					ID:          authorID,
					Username:    username,
					DisplayName: displayName,
					AvatarURL:   avatarURL,
				},
			}
			postMap[id] = post
			order = append(order, id)
		}

		if tagLabel != nil && tagValue != nil {
			color := ""
			if tagColor != nil {
				color = *tagColor
			}
			post.Tags = append(post.Tags, model.Tag{Label: *tagLabel, Value: *tagValue, Color: color})
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts := make([]*model.FullPost, 0, len(order))
	for _, id := range order {
		posts = append(posts, postMap[id])
	}

	return posts, nil
}

func (r *postRepo) Create(ctx context.Context, post model.Post, tags []model.Tag) (*model.Post, error) {
	blocksJSON, err := json.Marshal(post.Blocks)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	post.Views = 0

	if err := tx.QueryRow(
		ctx,
		`INSERT INTO posts(author_id, title, subtitle, content_blocks, status, scheduled_at, views, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		post.AuthorID,
		post.Title,
		post.Subtitle,
		blocksJSON,
		post.Status,
		post.ScheduledAt,
		post.Views,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, err
	}

	for _, tag := range tags {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO post_tags(post_id, label, value, color) VALUES($1, $2, $3, $4)",
			post.ID,
			tag.Label,
			tag.Value,
			tag.Color,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) FindByID(ctx context.Context, id int64) (*model.FullPost, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE p.id = $1`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := scanFullPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, pgx.ErrNoRows
	}

	return posts[0], nil
}

// visibleClause limits feed queries to published posts, treating a
// scheduled post whose time has passed as published.
const visibleClause = "(p.status = 'published' OR (p.status = 'scheduled' AND p.scheduled_at <= now()))"

func (r *postRepo) FindFeed(ctx context.Context, filter FeedFilter) ([]*model.FullPost, error) {
	maxLimit(&filter.Limit)

	orderBy := "p.created_at DESC"
	if filter.Sort == "top" {
		orderBy = "p.likes_count DESC, p.created_at DESC"
	}

	query := `SELECT ` + fullPostColumns + `
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE ` + visibleClause
	args := []interface{}{}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		query += " AND p.id IN (SELECT post_id FROM post_tags WHERE value = $" + strconv.Itoa(len(args)) + ")"
	}

	args = append(args, filter.Limit)
	limitPos := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetPos := strconv.Itoa(len(args))

	query += " ORDER BY " + orderBy + " LIMIT $" + limitPos + " OFFSET $" + offsetPos

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullPosts(rows)
}

func (r *postRepo) FindAuthorPosts(ctx context.Context, authorID uuid.UUID, visibleOnly bool, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	query := `SELECT ` + fullPostColumns + `
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE p.author_id = $1`
	if visibleOnly {
		query += " AND " + visibleClause
	}
	query += `
		ORDER BY p.created_at DESC
		LIMIT $2
		OFFSET $3`

	rows, err := r.db.Query(ctx, query, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullPosts(rows)
}

func (r *postRepo) SearchByTitle(ctx context.Context, title string, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE `+visibleClause+` AND p.title ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC
		LIMIT $2
		OFFSET $3`,
		title,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullPosts(rows)
}

func (r *postRepo) FindTrending(ctx context.Context, hours int, limit int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM posts p
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE `+visibleClause+` AND p.created_at >= now() - ($1 * interval '1 hour')
		ORDER BY p.likes_count DESC, p.views DESC
		LIMIT $2`,
		hours,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFullPosts(rows)
}

func (r *postRepo) FindUserLikedPosts(ctx context.Context, userID uuid.UUID, limit int, offset int) ([]*model.FullPost, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+fullPostColumns+`
		FROM likes l
		JOIN posts p ON l.post_id = p.id
		JOIN cached_users u ON p.author_id = u.id
		LEFT JOIN post_tags t ON p.id = t.post_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC
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

var postUpdatableFields = map[string]struct{}{
	"title":          {},
	"subtitle":       {},
	"content_blocks": {},
	"status":         {},
	"scheduled_at":   {},
}

func (r *postRepo) Update(ctx context.Context, id int64, authorID uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	for field := range updates {
		if _, ok := postUpdatableFields[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE posts SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query += "updated_at = now() WHERE id = $" + strconv.Itoa(i) + " AND author_id = $" + strconv.Itoa(i+1)
	args = append(args, id, authorID)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) ReplaceTags(ctx context.Context, postID int64, tags []model.Tag) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", postID); err != nil {
		return err
	}

	for _, tag := range tags {
		if _, err := tx.Exec(
			ctx,
			"INSERT INTO post_tags(post_id, label, value, color) VALUES($1, $2, $3, $4)",
			postID,
			tag.Label,
			tag.Value,
			tag.Color,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postRepo) Delete(ctx context.Context, id int64, authorID uuid.UUID) error {
	result, err := r.db.Exec(ctx, "DELETE FROM posts WHERE id = $1 AND author_id = $2", id, authorID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *postRepo) IncrViews(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "UPDATE posts SET views = views + 1 WHERE id = $1", id)
	return err
}

func (r *postRepo) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM posts WHERE author_id = $1", authorID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}
