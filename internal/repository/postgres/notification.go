package postgres

import (
	"context"
	"time"

	"github.com/CodeSphere/api-service/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type notificationRepo struct {
	db *pgxpool.Pool
}

func newNotificationRepo(db *pgxpool.Pool) Notification {
	return &notificationRepo{
		db: db,
	}
}

func (r *notificationRepo) Create(ctx context.Context, notification model.Notification) (*model.Notification, error) {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO notifications(recipient_id, actor_id, type, post_id, comment_id, read, created_at)
		VALUES($1, $2, $3, $4, $5, false, $6)
		RETURNING id`,
		notification.RecipientID,
		notification.ActorID,
		notification.Type,
		notification.PostID,
		notification.CommentID,
		notification.CreatedAt,
	).Scan(&notification.ID); err != nil {
		return nil, err
	}

	return &notification, nil
}

func (r *notificationRepo) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT n.id, n.recipient_id, n.actor_id, n.type, n.post_id, n.comment_id, n.read, n.created_at,
		u.username, u.display_name, u.avatar_url
		FROM notifications n
		JOIN cached_users u ON n.actor_id = u.id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2
		OFFSET $3`,
		recipientID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*model.FullNotification
	for rows.Next() {
		var (
			n           model.Notification
			username    string
			displayName *string
			avatarURL   *string
		)
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.ActorID,
			&n.Type,
			&n.PostID,
			&n.CommentID,
			&n.Read,
			&n.CreatedAt,
			&username,
			&displayName,
			&avatarURL,
		); err != nil {
			return nil, err
		}

		notifications = append(notifications, &model.FullNotification{
			Notification: n,
			Actor: model.UserAuthor{
				ID:          n.ActorID,
				Username:    username,
				DisplayName: displayName,
				AvatarURL:   avatarURL,
			},
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.QueryRow(
		ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND read = false",
		recipientID,
	).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, id int64, recipientID uuid.UUID) error {
	result, err := r.db.Exec(
		ctx,
		"UPDATE notifications SET read = true WHERE id = $1 AND recipient_id = $2",
		id,
		recipientID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return nil
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	_, err := r.db.Exec(
		ctx,
		"UPDATE notifications SET read = true WHERE recipient_id = $1 AND read = false",
		recipientID,
	)
	return err
}
