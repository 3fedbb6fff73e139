package entity

import "time"

// ExpenseCategory classifies claims (Travel, Meals, ...). MaxAmount, when
// set, caps the amount a single claim in the category may request.
type ExpenseCategory struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Code            string    `json:"code"`
	Description     string    `json:"description,omitempty"`
	MaxAmount       *float64  `json:"max_amount,omitempty"`
	ReceiptRequired bool      `json:"receipt_required"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
