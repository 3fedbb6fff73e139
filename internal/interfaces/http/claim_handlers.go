package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/application/service"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

// ClaimRequest is the body for claim creation endpoints.
type ClaimRequest struct {
	CategoryID   int64   `json:"category_id" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
	Currency     string  `json:"currency"`
	Description  string  `json:"description" binding:"required"`
	Purpose      string  `json:"purpose"`
	IncurredDate string  `json:"incurred_date" binding:"required"`
	ReceiptPath  string  `json:"receipt_path"`
}

// ReviewRequest is the body for POST /api/claims/:id/review
type ReviewRequest struct {
	Decision string `json:"decision" binding:"required"`
	Notes    string `json:"notes"`
}

// PayRequest is the body for POST /api/claims/:id/pay
type PayRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
}

func (h *Handlers) claimInput(c *gin.Context) (service.SubmitClaimInput, bool) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return service.SubmitClaimInput{}, false
	}

	incurred, err := time.Parse("2006-01-02", req.IncurredDate)
	if err != nil {
		respondBadRequest(c, "incurred_date must be YYYY-MM-DD")
		return service.SubmitClaimInput{}, false
	}

	user := currentUser(c)
	var departmentID int64
	if user.DepartmentID != nil {
		departmentID = *user.DepartmentID
	}

	return service.SubmitClaimInput{
		UserID:       user.ID,
		DepartmentID: departmentID,
		CategoryID:   req.CategoryID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Description:  req.Description,
		Purpose:      req.Purpose,
		IncurredDate: incurred,
		ReceiptPath:  req.ReceiptPath,
	}, true
}

// SubmitClaim handles POST /api/claims
func (h *Handlers) SubmitClaim(c *gin.Context) {
	in, ok := h.claimInput(c)
	if !ok {
		return
	}

	claim, err := h.services.Claims.SubmitClaim(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, claim)
}

// SaveDraft handles POST /api/claims/draft
func (h *Handlers) SaveDraft(c *gin.Context) {
	in, ok := h.claimInput(c)
	if !ok {
		return
	}

	claim, err := h.services.Claims.SaveDraft(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, claim)
}

// SubmitDraft handles POST /api/claims/:id/submit
func (h *Handlers) SubmitDraft(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.services.Claims.SubmitDraft(c.Request.Context(), id, currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

// GetClaim handles GET /api/claims/:id
func (h *Handlers) GetClaim(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	claim, err := h.services.Claims.GetClaim(c.Request.Context(), id, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

// ListClaims handles GET /api/claims. Users see their own claims; an optional
// status query narrows the list, and a reference query resolves a single
// claim by its reference number instead.
func (h *Handlers) ListClaims(c *gin.Context) {
	user := currentUser(c)

	if ref := c.Query("reference"); ref != "" {
		claim, err := h.services.Claims.GetClaimByReference(c.Request.Context(), ref, user)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, claim)
		return
	}

	limit, offset := pagination(c)

	filter := port.ClaimFilter{
		UserID: &user.ID,
		Status: entity.ClaimStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	}

	claims, err := h.services.Claims.ListClaims(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claims)
}

// PendingApprovalsResponse is the payload for GET /api/approvals
type PendingApprovalsResponse struct {
	Claims []*entity.ClaimSummary `json:"claims"`
	Total  int                    `json:"total"`
}

// PendingApprovals handles GET /api/approvals
func (h *Handlers) PendingApprovals(c *gin.Context) {
	limit, offset := pagination(c)

	claims, total, err := h.services.Claims.PendingApprovals(c.Request.Context(), currentUser(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, PendingApprovalsResponse{Claims: claims, Total: total})
}

// ReviewClaim handles POST /api/claims/:id/review
func (h *Handlers) ReviewClaim(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	claim, err := h.services.Claims.ReviewClaim(
		c.Request.Context(), id, currentUser(c).ID, service.Decision(req.Decision), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

// MarkPaid handles POST /api/claims/:id/pay
func (h *Handlers) MarkPaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	claim, err := h.services.Claims.MarkPaid(c.Request.Context(), id, currentUser(c).ID, req.PaymentReference)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

// ClaimHistory handles GET /api/claims/:id/history. Visibility follows the
// same rule as GetClaim.
func (h *Handlers) ClaimHistory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.services.Claims.GetClaim(c.Request.Context(), id, currentUser(c)); err != nil {
		respondError(c, err)
		return
	}

	logs, err := h.auditRepo.ListByClaim(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load claim history", "error", err, "claim_id", id)
		respondError(c, err)
		return
	}
	respondOK(c, logs)
}
