package service

import (
	"context"
	"encoding/json"

	"github.com/CodeSphere/api-service/internal/dto"
	"github.com/CodeSphere/api-service/internal/model"
	"github.com/CodeSphere/api-service/internal/rabbitmq"
	"github.com/CodeSphere/api-service/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type notificationService struct {
	logger *zap.Logger
	repo   *repository.Repository
	mq     *rabbitmq.MQConn
}

func newNotificationService(logger *zap.Logger, repo *repository.Repository, mq *rabbitmq.MQConn) Notification {
	return &notificationService{
		logger: logger,
		repo:   repo,
		mq:     mq,
	}
}

// Publish hands the event to the queue; persistence happens in the
// consumer. A publish failure only costs the notification, never the
// action that triggered it, so it is logged and swallowed.
func (s *notificationService) Publish(ctx context.Context, msg dto.MQNotificationMsg) {
	if err := s.mq.PublishJSON(ctx, rabbitmq.NOTIFICATIONS_QUEUE, msg); err != nil {
		s.logger.Sugar().Errorf("failed to publish notification for user(%s): %s", msg.RecipientID.String(), err.Error())
	}
}

func (s *notificationService) StartConsume(ctx context.Context) {
	queue := rabbitmq.NOTIFICATIONS_QUEUE
	msgs, err := s.mq.Consume(queue)
	if err != nil {
		s.logger.Sugar().Fatalf("failed to start consuming from queue(%s): %s", queue, err.Error())
	}

	for msg := range msgs {
		var data dto.MQNotificationMsg
		if err := json.Unmarshal(msg.Body, &data); err != nil {
			s.logger.Sugar().Errorf("failed to unmarshal json in queue(%s): %s", queue, err.Error())
			msg.Nack(false, false)
			continue
		}

		if data.RecipientID == uuid.Nil || data.ActorID == uuid.Nil {
			s.logger.Sugar().Errorf("notification in queue(%s) is missing recipient or actor", queue)
			msg.Nack(false, false)
			continue
		}

		if _, err := s.repo.Postgres.Notification.Create(ctx, model.Notification{
			RecipientID: data.RecipientID,
			ActorID:     data.ActorID,
			Type:        data.Type,
			PostID:      data.PostID,
			CommentID:   data.CommentID,
			CreatedAt:   data.CreatedAt,
		}); err != nil {
			s.logger.Sugar().Errorf("failed to create notification for user(%s): %s", data.RecipientID.String(), err.Error())
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)
	}
}

func (s *notificationService) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]*model.FullNotification, error) {
	maxLimit(&limit)

	notifications, err := s.repo.Postgres.Notification.FindByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s) notifications: %s", recipientID.String(), err.Error())
		return nil, ErrInternal
	}

	return notifications, nil
}

func (s *notificationService) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := s.repo.Postgres.Notification.CountUnread(ctx, recipientID)
	if err != nil {
		s.logger.Sugar().Errorf("failed to count user(%s) unread notifications: %s", recipientID.String(), err.Error())
		return 0, ErrInternal
	}

	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int64, recipientID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkRead(ctx, id, recipientID); err != nil {
		if err == pgx.ErrNoRows {
			return ErrNotificationNotFound
		}
		s.logger.Sugar().Errorf("failed to mark notification(%d) read: %s", id, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if err := s.repo.Postgres.Notification.MarkAllRead(ctx, recipientID); err != nil {
		s.logger.Sugar().Errorf("failed to mark user(%s) notifications read: %s", recipientID.String(), err.Error())
		return ErrInternal
	}

	return nil
}
