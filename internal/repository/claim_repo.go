package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

const claimColumns = `
	claimID, reference_number, userID, department_id, category_id, amount,
	currency, description, purpose, incurred_date, receipt_path, payment_proof,
	status, submission_date, last_updated, approval_date, payment_date,
	payment_reference, approverID, rejection_reason, notes`

// ClaimRepository handles claim database operations
type ClaimRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(db *DB, logger *zap.Logger) *ClaimRepository {
	return &ClaimRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new claim. A reference number collision surfaces as a
// conflict error so the caller can regenerate and retry.
func (r *ClaimRepository) Create(ctx context.Context, claim *entity.Claim) error {
	query := `
		INSERT INTO claims (
			reference_number, userID, department_id, category_id, amount,
			currency, description, purpose, incurred_date, receipt_path,
			payment_proof, status, submission_date, last_updated
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		claim.ReferenceNumber,
		claim.UserID,
		claim.DepartmentID,
		claim.CategoryID,
		claim.Amount,
		claim.Currency,
		claim.Description,
		claim.Purpose,
		claim.IncurredDate,
		nullString(claim.ReceiptPath),
		nullString(claim.PaymentProof),
		claim.Status.String(),
		now,
		now,
	)
	if err != nil {
		if !isUniqueViolation(err) {
			r.logger.Error("Failed to create claim", zap.Error(err))
		}
		return storeErr("create claim", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	claim.ID = id
	claim.SubmissionDate = now
	claim.LastUpdated = now
	return nil
}

// GetByID retrieves a claim by ID. Returns (nil, nil) when no row exists.
func (r *ClaimRepository) GetByID(ctx context.Context, id int64) (*entity.Claim, error) {
	query := fmt.Sprintf("SELECT %s FROM claims WHERE claimID = ?", claimColumns)
	return r.scanClaim(r.db.getExecutor(ctx).QueryRowContext(ctx, query, id))
}

// GetByReference retrieves a claim by its reference number.
func (r *ClaimRepository) GetByReference(ctx context.Context, ref string) (*entity.Claim, error) {
	query := fmt.Sprintf("SELECT %s FROM claims WHERE reference_number = ?", claimColumns)
	return r.scanClaim(r.db.getExecutor(ctx).QueryRowContext(ctx, query, ref))
}

func (r *ClaimRepository) scanClaim(row *sql.Row) (*entity.Claim, error) {
	var claim entity.Claim
	var purpose, receiptPath, paymentProof sql.NullString
	var paymentRef, rejectionReason, notes sql.NullString
	var approvalDate, paymentDate sql.NullTime
	var approverID sql.NullInt64
	var status string

	err := row.Scan(
		&claim.ID,
		&claim.ReferenceNumber,
		&claim.UserID,
		&claim.DepartmentID,
		&claim.CategoryID,
		&claim.Amount,
		&claim.Currency,
		&claim.Description,
		&purpose,
		&claim.IncurredDate,
		&receiptPath,
		&paymentProof,
		&status,
		&claim.SubmissionDate,
		&claim.LastUpdated,
		&approvalDate,
		&paymentDate,
		&paymentRef,
		&approverID,
		&rejectionReason,
		&notes,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan claim", zap.Error(err))
		return nil, apperror.System("scan claim", err)
	}

	claim.Status = entity.ClaimStatus(status)
	claim.Purpose = purpose.String
	claim.ReceiptPath = receiptPath.String
	claim.PaymentProof = paymentProof.String
	claim.PaymentRef = paymentRef.String
	claim.RejectionReason = rejectionReason.String
	claim.Notes = notes.String
	if approverID.Valid {
		claim.ApproverID = &approverID.Int64
	}
	if approvalDate.Valid {
		claim.ApprovalDate = &approvalDate.Time
	}
	if paymentDate.Valid {
		claim.PaymentDate = &paymentDate.Time
	}

	return &claim, nil
}

// List retrieves claim summaries matching the filter, newest first.
func (r *ClaimRepository) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.ClaimSummary, error) {
	query := `
		SELECT c.claimID, c.reference_number, c.amount, c.currency, c.status,
			c.submission_date,
			u.fullName, COALESCE(d.department_name, ''), COALESCE(ec.category_name, '')
		FROM claims c
		JOIN users u ON c.userID = u.userID
		LEFT JOIN departments d ON c.department_id = d.department_id
		LEFT JOIN expense_categories ec ON c.category_id = ec.category_id
		WHERE 1=1`
	var args []interface{}

	if filter.UserID != nil {
		query += " AND c.userID = ?"
		args = append(args, *filter.UserID)
	}
	if filter.Status != "" {
		query += " AND c.status = ?"
		args = append(args, filter.Status.String())
	}

	query += " ORDER BY c.submission_date DESC"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	return r.querySummaries(ctx, query, args...)
}

// pendingScope appends the authz gate's filter for the reviewer role.
// Managers see only claims of the department they manage; FinanceOfficer
// and Admin see all submitted claims; everyone else sees none.
func pendingScope(reviewer *entity.User) (string, []interface{}, bool) {
	switch reviewer.Role {
	case entity.RoleManager:
		return " AND c.department_id IN (SELECT department_id FROM departments WHERE manager_id = ?)",
			[]interface{}{reviewer.ID}, true
	case entity.RoleFinanceOfficer, entity.RoleAdmin:
		return "", nil, true
	default:
		return "", nil, false
	}
}

// ListPendingForReviewer lists submitted claims the reviewer may act on.
func (r *ClaimRepository) ListPendingForReviewer(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, error) {
	scope, scopeArgs, ok := pendingScope(reviewer)
	if !ok {
		return nil, nil
	}

	query := `
		SELECT c.claimID, c.reference_number, c.amount, c.currency, c.status,
			c.submission_date,
			u.fullName, COALESCE(d.department_name, ''), COALESCE(ec.category_name, '')
		FROM claims c
		JOIN users u ON c.userID = u.userID
		LEFT JOIN departments d ON c.department_id = d.department_id
		LEFT JOIN expense_categories ec ON c.category_id = ec.category_id
		WHERE c.status = 'Submitted'` + scope + `
		ORDER BY c.submission_date ASC
		LIMIT ? OFFSET ?`

	args := append(scopeArgs, limit, offset)
	return r.querySummaries(ctx, query, args...)
}

// CountPendingForReviewer counts the claims ListPendingForReviewer would return.
func (r *ClaimRepository) CountPendingForReviewer(ctx context.Context, reviewer *entity.User) (int, error) {
	scope, scopeArgs, ok := pendingScope(reviewer)
	if !ok {
		return 0, nil
	}

	query := "SELECT COUNT(*) FROM claims c WHERE c.status = 'Submitted'" + scope

	var count int
	if err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, scopeArgs...).Scan(&count); err != nil {
		r.logger.Error("Failed to count pending claims", zap.Error(err))
		return 0, apperror.System("count pending claims", err)
	}
	return count, nil
}

func (r *ClaimRepository) querySummaries(ctx context.Context, query string, args ...interface{}) ([]*entity.ClaimSummary, error) {
	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list claims", zap.Error(err))
		return nil, apperror.System("list claims", err)
	}
	defer rows.Close()

	var summaries []*entity.ClaimSummary
	for rows.Next() {
		var s entity.ClaimSummary
		var status string
		err := rows.Scan(
			&s.ID,
			&s.ReferenceNumber,
			&s.Amount,
			&s.Currency,
			&status,
			&s.SubmissionDate,
			&s.EmployeeName,
			&s.DepartmentName,
			&s.CategoryName,
		)
		if err != nil {
			return nil, apperror.System("scan claim summary", err)
		}
		s.Status = entity.ClaimStatus(status)
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list claims", err)
	}
	return summaries, nil
}

// Submit moves a draft into Submitted, refreshing the submission timestamp.
func (r *ClaimRepository) Submit(ctx context.Context, id int64, from entity.ClaimStatus) error {
	query := `
		UPDATE claims
		SET status = 'Submitted', submission_date = CURRENT_TIMESTAMP,
			last_updated = CURRENT_TIMESTAMP
		WHERE claimID = ? AND status = ?
	`
	return r.transition(ctx, "submit claim", query, id, from.String())
}

// Approve records an approval. The update is guarded by the expected prior
// status so only one concurrent reviewer can win.
func (r *ClaimRepository) Approve(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error {
	query := `
		UPDATE claims
		SET status = 'Approved', approverID = ?, notes = ?,
			approval_date = CURRENT_TIMESTAMP, last_updated = CURRENT_TIMESTAMP
		WHERE claimID = ? AND status = ?
	`
	return r.transition(ctx, "approve claim", query, approverID, notes, id, from.String())
}

// Reject records a rejection with its mandatory reason.
func (r *ClaimRepository) Reject(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, reason string) error {
	query := `
		UPDATE claims
		SET status = 'Rejected', approverID = ?, rejection_reason = ?, notes = ?,
			last_updated = CURRENT_TIMESTAMP
		WHERE claimID = ? AND status = ?
	`
	return r.transition(ctx, "reject claim", query, approverID, reason, reason, id, from.String())
}

// MarkPaid records payment of an approved claim.
func (r *ClaimRepository) MarkPaid(ctx context.Context, id int64, from entity.ClaimStatus, paymentRef string) error {
	query := `
		UPDATE claims
		SET status = 'Paid', payment_reference = ?,
			payment_date = CURRENT_TIMESTAMP, last_updated = CURRENT_TIMESTAMP
		WHERE claimID = ? AND status = ?
	`
	return r.transition(ctx, "mark claim paid", query, paymentRef, id, from.String())
}

// transition runs a guarded status update. Zero rows affected means another
// actor changed the claim first; the caller sees that as a conflict.
func (r *ClaimRepository) transition(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Claim transition failed", zap.String("op", op), zap.Error(err))
		return storeErr(op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.System(op, err)
	}
	if affected == 0 {
		return apperror.Conflict("%s: claim already transitioned", op)
	}
	return nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Verify interface compliance
var _ port.ClaimRepository = (*ClaimRepository)(nil)
