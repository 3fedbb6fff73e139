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

// MessageRepository handles message database operations
type MessageRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB, logger *zap.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new message.
func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, subject, body, is_read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		m.SenderID,
		m.RecipientID,
		m.Subject,
		m.Body,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create message", zap.Error(err))
		return apperror.System("create message", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	m.ID = id
	m.CreatedAt = now
	return nil
}

// GetByID retrieves a message by ID. Returns (nil, nil) when no row exists.
func (r *MessageRepository) GetByID(ctx context.Context, id int64) (*entity.Message, error) {
	query := `
		SELECT m.message_id, m.sender_id, m.recipient_id, m.subject, m.body,
			m.is_read, m.created_at, s.fullName, rcpt.fullName
		FROM messages m
		JOIN users s ON m.sender_id = s.userID
		JOIN users rcpt ON m.recipient_id = rcpt.userID
		WHERE m.message_id = ?
	`

	var m entity.Message
	err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.SenderID,
		&m.RecipientID,
		&m.Subject,
		&m.Body,
		&m.IsRead,
		&m.CreatedAt,
		&m.SenderName,
		&m.RecipientName,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan message", zap.Error(err))
		return nil, apperror.System("scan message", err)
	}
	return &m, nil
}

// ListForUser retrieves messages sent to or by the user, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Message, error) {
	query := `
		SELECT m.message_id, m.sender_id, m.recipient_id, m.subject, m.body,
			m.is_read, m.created_at, s.fullName, rcpt.fullName
		FROM messages m
		JOIN users s ON m.sender_id = s.userID
		JOIN users rcpt ON m.recipient_id = rcpt.userID
		WHERE m.recipient_id = ? OR m.sender_id = ?
		ORDER BY m.created_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, userID, userID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list messages", zap.Error(err))
		return nil, apperror.System("list messages", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var m entity.Message
		err := rows.Scan(
			&m.ID,
			&m.SenderID,
			&m.RecipientID,
			&m.Subject,
			&m.Body,
			&m.IsRead,
			&m.CreatedAt,
			&m.SenderName,
			&m.RecipientName,
		)
		if err != nil {
			return nil, apperror.System("scan message", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list messages", err)
	}
	return messages, nil
}

// MarkRead marks a message read. Only the recipient may mark it.
func (r *MessageRepository) MarkRead(ctx context.Context, id, userID int64) error {
	query := "UPDATE messages SET is_read = 1 WHERE message_id = ? AND recipient_id = ?"

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, id, userID)
	if err != nil {
		return apperror.System("mark message read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.System("mark message read", err)
	}
	if affected == 0 {
		return apperror.NotFound("message %d not found", id)
	}
	return nil
}

// Verify interface compliance
var _ port.MessageRepository = (*MessageRepository)(nil)
