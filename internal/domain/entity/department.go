package entity

import "time"

// Department groups users and claims. A department has at most one manager;
// the manager relationship is what scopes a Manager's approval authority.
// Budget fields are tracked for reporting but not enforced by the approval flow.
type Department struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Code             string    `json:"code"`
	ManagerID        *int64    `json:"manager_id,omitempty"`
	BudgetAllocation float64   `json:"budget_allocation"`
	BudgetRemaining  float64   `json:"budget_remaining"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
