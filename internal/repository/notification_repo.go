package repository

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

// NotificationRepository handles notification database operations
type NotificationRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new notification.
func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	query := `
		INSERT INTO notifications (
			recipient_id, title, message, type, reference_id, reference_type,
			is_read, created_at
		) VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		n.RecipientID,
		n.Title,
		n.Message,
		n.Type,
		n.ReferenceID,
		nullString(n.ReferenceType),
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return apperror.System("create notification", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	n.ID = id
	n.CreatedAt = now
	return nil
}

// ListByRecipient retrieves the recipient's most recent notifications.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*entity.Notification, error) {
	query := `
		SELECT notification_id, recipient_id, title, message, type,
			reference_id, reference_type, is_read, created_at
		FROM notifications
		WHERE recipient_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, recipientID, limit)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, apperror.System("list notifications", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		var referenceID sql.NullInt64
		var referenceType sql.NullString
		err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.Title,
			&n.Message,
			&n.Type,
			&referenceID,
			&referenceType,
			&n.IsRead,
			&n.CreatedAt,
		)
		if err != nil {
			return nil, apperror.System("scan notification", err)
		}
		if referenceID.Valid {
			n.ReferenceID = &referenceID.Int64
		}
		n.ReferenceType = referenceType.String
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list notifications", err)
	}
	return notifications, nil
}

// CountUnread counts the recipient's unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	query := "SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = 0"

	var count int
	if err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, recipientID).Scan(&count); err != nil {
		return 0, apperror.System("count unread notifications", err)
	}
	return count, nil
}

// MarkRead marks one notification read. The recipient filter doubles as the
// ownership check, so foreign notifications look like they don't exist.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	query := "UPDATE notifications SET is_read = 1 WHERE notification_id = ? AND recipient_id = ?"

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return apperror.System("mark notification read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.System("mark notification read", err)
	}
	if affected == 0 {
		return apperror.NotFound("notification %d not found", id)
	}
	return nil
}

// MarkAllRead marks all of the recipient's notifications read and returns
// how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) (int64, error) {
	query := "UPDATE notifications SET is_read = 1 WHERE recipient_id = ? AND is_read = 0"

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, apperror.System("mark all notifications read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.System("mark all notifications read", err)
	}
	return affected, nil
}

// Verify interface compliance
var _ port.NotificationRepository = (*NotificationRepository)(nil)
