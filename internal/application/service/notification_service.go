package service

import (
	"context"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

// Recent notifications shown per user; older ones stay queryable in storage.
const notificationListLimit = 50

// NotificationService exposes a user's notification feed.
type NotificationService interface {
	List(ctx context.Context, recipientID int64) ([]*entity.Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

type notificationServiceImpl struct {
	notificationRepo port.NotificationRepository
	logger           Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo port.NotificationRepository, logger Logger) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List returns the recipient's most recent notifications plus their unread count.
func (s *notificationServiceImpl) List(ctx context.Context, recipientID int64) ([]*entity.Notification, int, error) {
	notifications, err := s.notificationRepo.ListByRecipient(ctx, recipientID, notificationListLimit)
	if err != nil {
		s.logger.Error("Failed to list notifications", "error", err, "recipient_id", recipientID)
		return nil, 0, err
	}

	unread, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", "error", err, "recipient_id", recipientID)
		return nil, 0, err
	}

	return notifications, unread, nil
}

// MarkRead marks one notification read. Only the recipient may do so.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, id, recipientID int64) error {
	if err := s.notificationRepo.MarkRead(ctx, id, recipientID); err != nil {
		s.logger.Error("Failed to mark notification read", "error", err, "id", id)
		return err
	}
	return nil
}

// MarkAllRead marks every unread notification for the recipient and returns
// how many were updated.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	count, err := s.notificationRepo.MarkAllRead(ctx, recipientID)
	if err != nil {
		s.logger.Error("Failed to mark notifications read", "error", err, "recipient_id", recipientID)
		return 0, err
	}
	s.logger.Info("Notifications marked read", "recipient_id", recipientID, "count", count)
	return count, nil
}
