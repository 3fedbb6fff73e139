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

// AuditLogRepository handles claim audit log database operations.
// The table is append-only.
type AuditLogRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *DB, logger *zap.Logger) *AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an audit entry.
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.ClaimAuditLog) error {
	query := `
		INSERT INTO claim_audit_logs (
			claim_id, action, details, previous_status, new_status,
			performed_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		log.ClaimID,
		log.Action,
		nullString(log.Details),
		nullString(log.PreviousStatus.String()),
		log.NewStatus.String(),
		log.PerformedBy,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create audit log", zap.Error(err))
		return apperror.System("create audit log", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	log.ID = id
	log.CreatedAt = now
	return nil
}

// ListByClaim retrieves the claim's audit trail in chronological order.
func (r *AuditLogRepository) ListByClaim(ctx context.Context, claimID int64) ([]*entity.ClaimAuditLog, error) {
	query := `
		SELECT log_id, claim_id, action, details, previous_status, new_status,
			performed_by, created_at
		FROM claim_audit_logs
		WHERE claim_id = ?
		ORDER BY created_at ASC, log_id ASC
	`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, claimID)
	if err != nil {
		r.logger.Error("Failed to list audit logs", zap.Error(err))
		return nil, apperror.System("list audit logs", err)
	}
	defer rows.Close()

	var logs []*entity.ClaimAuditLog
	for rows.Next() {
		var log entity.ClaimAuditLog
		var details, previousStatus sql.NullString
		var newStatus string
		err := rows.Scan(
			&log.ID,
			&log.ClaimID,
			&log.Action,
			&details,
			&previousStatus,
			&newStatus,
			&log.PerformedBy,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, apperror.System("scan audit log", err)
		}
		log.Details = details.String
		log.PreviousStatus = entity.ClaimStatus(previousStatus.String)
		log.NewStatus = entity.ClaimStatus(newStatus)
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list audit logs", err)
	}
	return logs, nil
}

// Verify interface compliance
var _ port.AuditLogRepository = (*AuditLogRepository)(nil)
