package port

import (
	"context"
	"time"

	"github.com/uzima/reimbursement/internal/domain/entity"
)

// ClaimFilter narrows claim list queries.
type ClaimFilter struct {
	UserID *int64
	Status entity.ClaimStatus
	Limit  int
	Offset int
}

// ClaimRepository defines persistence operations for Claim.
//
// The transition methods (Approve, Reject, MarkPaid, Submit) are compare-and-
// set: the UPDATE is guarded by the expected prior status and implementations
// return apperror.ErrConflict when no row matched, so exactly one of two
// concurrent reviewers wins.
type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error
	GetByID(ctx context.Context, id int64) (*entity.Claim, error)
	GetByReference(ctx context.Context, reference string) (*entity.Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]*entity.ClaimSummary, error)

	// ListPendingForReviewer returns Submitted claims the reviewer is
	// authorized to act on, applying the authz gate rule in SQL.
	ListPendingForReviewer(ctx context.Context, reviewer *entity.User, limit, offset int) ([]*entity.ClaimSummary, error)
	CountPendingForReviewer(ctx context.Context, reviewer *entity.User) (int, error)

	Submit(ctx context.Context, id int64, from entity.ClaimStatus) error
	Approve(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, notes string) error
	Reject(ctx context.Context, id int64, from entity.ClaimStatus, approverID int64, reason string) error
	MarkPaid(ctx context.Context, id int64, from entity.ClaimStatus, paymentRef string) error
}

// UserRepository defines persistence operations for User
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	SetLastLogin(ctx context.Context, id int64, t time.Time) error
	SetActive(ctx context.Context, id int64, active bool) error
}

// DepartmentRepository defines persistence operations for Department
type DepartmentRepository interface {
	Create(ctx context.Context, dept *entity.Department) error
	GetByID(ctx context.Context, id int64) (*entity.Department, error)
	List(ctx context.Context) ([]*entity.Department, error)
	SetManager(ctx context.Context, id int64, managerID *int64) error
}

// CategoryRepository defines persistence operations for ExpenseCategory
type CategoryRepository interface {
	GetByID(ctx context.Context, id int64) (*entity.ExpenseCategory, error)
	ListActive(ctx context.Context) ([]*entity.ExpenseCategory, error)
}

// NotificationRepository defines persistence operations for Notification
type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, recipientID int64) (int, error)

	// MarkRead marks a single notification read; implementations return
	// apperror.ErrNotFound when the row does not belong to the recipient.
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) (int64, error)
}

// MessageRepository defines persistence operations for Message
type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id int64) (*entity.Message, error)
	ListForUser(ctx context.Context, userID int64, limit, offset int) ([]*entity.Message, error)
	MarkRead(ctx context.Context, id, userID int64) error
}

// AuditLogRepository defines persistence operations for ClaimAuditLog.
// Entries are append-only; there is no update or delete.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entity.ClaimAuditLog) error
	ListByClaim(ctx context.Context, claimID int64) ([]*entity.ClaimAuditLog, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
