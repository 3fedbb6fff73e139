package entity

import "time"

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleEmployee       Role = "Employee"
	RoleManager        Role = "Manager"
	RoleFinanceOfficer Role = "FinanceOfficer"
	RoleAdmin          Role = "Admin"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsReviewer returns true if the role may appear on the approvals surface at all.
// Whether a particular claim is reviewable is decided by the authz gate.
func (r Role) IsReviewer() bool {
	return r == RoleManager || r == RoleFinanceOfficer || r == RoleAdmin
}

// User is an account in the system. Password holds the bcrypt hash,
// never the plaintext.
type User struct {
	ID           int64      `json:"id"`
	EmployeeID   string     `json:"employee_id,omitempty"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	DepartmentID *int64     `json:"department_id,omitempty"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
