package entity

import "time"

// ClaimStatus is the lifecycle status of an expense claim.
type ClaimStatus string

const (
	StatusDraft     ClaimStatus = "Draft"
	StatusSubmitted ClaimStatus = "Submitted"
	StatusApproved  ClaimStatus = "Approved"
	StatusRejected  ClaimStatus = "Rejected"
	StatusPaid      ClaimStatus = "Paid"
)

// String returns the string representation of the status
func (s ClaimStatus) String() string {
	return string(s)
}

// Claim represents an employee's expense reimbursement request.
// Claims are append-only: they are never deleted, and every status change
// is recorded in claim_audit_logs.
type Claim struct {
	ID              int64       `json:"id"`
	ReferenceNumber string      `json:"reference_number"`
	UserID          int64       `json:"user_id"`
	DepartmentID    int64       `json:"department_id"`
	CategoryID      int64       `json:"category_id"`
	Amount          float64     `json:"amount"`
	Currency        string      `json:"currency"`
	Description     string      `json:"description"`
	Purpose         string      `json:"purpose,omitempty"`
	IncurredDate    time.Time   `json:"incurred_date"`
	ReceiptPath     string      `json:"receipt_path,omitempty"`
	PaymentProof    string      `json:"payment_proof,omitempty"`
	Status          ClaimStatus `json:"status"`
	SubmissionDate  time.Time   `json:"submission_date"`
	LastUpdated     time.Time   `json:"last_updated"`
	ApproverID      *int64      `json:"approver_id,omitempty"`
	ApprovalDate    *time.Time  `json:"approval_date,omitempty"`
	RejectionReason string      `json:"rejection_reason,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	PaymentRef      string      `json:"payment_reference,omitempty"`
	PaymentDate     *time.Time  `json:"payment_date,omitempty"`
}

// ClaimSummary is the row shape used on list views (pending approvals,
// claim history). Joined names are denormalized for display.
type ClaimSummary struct {
	ID              int64       `json:"id"`
	ReferenceNumber string      `json:"reference_number"`
	Amount          float64     `json:"amount"`
	Currency        string      `json:"currency"`
	Status          ClaimStatus `json:"status"`
	SubmissionDate  time.Time   `json:"submission_date"`
	EmployeeName    string      `json:"employee_name"`
	DepartmentName  string      `json:"department_name"`
	CategoryName    string      `json:"category_name"`
}
