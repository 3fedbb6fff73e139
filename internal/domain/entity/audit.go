package entity

import "time"

// Audit action types recorded on claim transitions.
const (
	AuditActionSaveDraft = "save_draft"
	AuditActionSubmit    = "submit"
	AuditActionApprove   = "approve"
	AuditActionReject    = "reject"
	AuditActionMarkPaid  = "mark_paid"
)

// ClaimAuditLog is an append-only record of a claim transition.
type ClaimAuditLog struct {
	ID             int64       `json:"id"`
	ClaimID        int64       `json:"claim_id"`
	Action         string      `json:"action"`
	Details        string      `json:"details,omitempty"`
	PreviousStatus ClaimStatus `json:"previous_status,omitempty"`
	NewStatus      ClaimStatus `json:"new_status"`
	PerformedBy    int64       `json:"performed_by"`
	CreatedAt      time.Time   `json:"created_at"`
}
