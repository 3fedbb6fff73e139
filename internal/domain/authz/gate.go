// Package authz implements the approval authorization gate: the single rule
// deciding which reviewer may act on which claim. The pending-approvals
// listing applies the same rule in SQL so the visible set and the
// enforceable set are identical.
package authz

import "github.com/uzima/reimbursement/internal/domain/entity"

// CanReview reports whether the reviewer may approve or reject a claim
// belonging to the given department.
//
//   - Admin and FinanceOfficer review any claim.
//   - Manager reviews only claims of the department they manage.
//   - Employee never reviews.
func CanReview(reviewer *entity.User, department *entity.Department) bool {
	switch reviewer.Role {
	case entity.RoleAdmin, entity.RoleFinanceOfficer:
		return true
	case entity.RoleManager:
		if department == nil || department.ManagerID == nil {
			return false
		}
		return *department.ManagerID == reviewer.ID
	default:
		return false
	}
}

// CanMarkPaid reports whether the user may transition an approved claim to
// Paid. Payment is restricted to finance roles regardless of department.
func CanMarkPaid(user *entity.User) bool {
	return user.Role == entity.RoleFinanceOfficer || user.Role == entity.RoleAdmin
}
