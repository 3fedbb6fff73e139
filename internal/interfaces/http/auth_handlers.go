package http

import (
	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/application/service"
)

// RegisterRequest is the body for POST /api/auth/register
type RegisterRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	EmployeeID   string `json:"employee_id"`
	DepartmentID *int64 `json:"department_id"`
}

// LoginRequest is the body for POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the body for POST /api/auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.services.Auth.Register(c.Request.Context(), service.RegisterInput{
		FullName:     req.FullName,
		Email:        req.Email,
		Password:     req.Password,
		EmployeeID:   req.EmployeeID,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, result)
}

// Login handles POST /api/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}

// Refresh handles POST /api/auth/refresh
func (h *Handlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	result, err := h.services.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, result)
}
