package entity

import "time"

// Notification types emitted by claim transitions and messaging.
const (
	NotificationClaimApproved = "claim_approved"
	NotificationClaimRejected = "claim_rejected"
	NotificationClaimPaid     = "claim_paid"
	NotificationNewMessage    = "new_message"
)

// Notification is an in-app message to a single recipient. Notifications are
// created by claim transitions and messaging, mutated only by the recipient
// marking them read, and never deleted.
type Notification struct {
	ID            int64     `json:"id"`
	RecipientID   int64     `json:"recipient_id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	Type          string    `json:"type"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}
