package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/domain/entity"
)

// requireAdmin aborts with 403 unless the current user is an Admin.
func requireAdmin(c *gin.Context) bool {
	if currentUser(c).Role != entity.RoleAdmin {
		c.JSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "admin access required",
		})
		return false
	}
	return true
}

// ListUsers handles GET /api/users
func (h *Handlers) ListUsers(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	limit, offset := pagination(c)
	users, err := h.userRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		respondError(c, err)
		return
	}
	respondOK(c, users)
}

// SetUserActiveRequest is the body for POST /api/users/:id/active
type SetUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActive handles POST /api/users/:id/active, activating or
// deactivating an account. Deactivated users lose access on their next
// request, not at token expiry.
func (h *Handlers) SetUserActive(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if err := h.userRepo.SetActive(c.Request.Context(), id, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("User active flag changed", "user_id", id, "active", *req.Active)
	respondOK(c, gin.H{"active": *req.Active})
}

// AssignManagerRequest is the body for POST /api/departments/:id/manager.
// A null manager_id clears the assignment.
type AssignManagerRequest struct {
	ManagerID *int64 `json:"manager_id"`
}

// AssignDepartmentManager handles POST /api/departments/:id/manager. The
// assigned manager gains review authority over the department's claims.
func (h *Handlers) AssignDepartmentManager(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id, ok := pathID(c)
	if !ok {
		return
	}

	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.ManagerID != nil {
		manager, err := h.userRepo.GetByID(c.Request.Context(), *req.ManagerID)
		if err != nil {
			respondError(c, err)
			return
		}
		if manager == nil || !manager.IsActive {
			respondBadRequest(c, "unknown manager")
			return
		}
	}

	if err := h.departmentRepo.SetManager(c.Request.Context(), id, req.ManagerID); err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("Department manager assigned", "department_id", id)
	respondOK(c, gin.H{"assigned": true})
}
