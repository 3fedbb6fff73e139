package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/export"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	services       Services
	userRepo       port.UserRepository
	categoryRepo   port.CategoryRepository
	departmentRepo port.DepartmentRepository
	auditRepo      port.AuditLogRepository
	exporter       *export.ExcelExporter
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	services Services,
	userRepo port.UserRepository,
	categoryRepo port.CategoryRepository,
	departmentRepo port.DepartmentRepository,
	auditRepo port.AuditLogRepository,
	exporter *export.ExcelExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		services:       services,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		exporter:       exporter,
		logger:         logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	respondOK(c, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// ListCategories handles GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.categoryRepo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", "error", err)
		respondError(c, err)
		return
	}
	respondOK(c, categories)
}

// ListDepartments handles GET /api/departments
func (h *Handlers) ListDepartments(c *gin.Context) {
	departments, err := h.departmentRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list departments", "error", err)
		respondError(c, err)
		return
	}
	respondOK(c, departments)
}

// pathID parses a numeric :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
