package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/application/service"
)

// reportFilter parses the shared report query parameters. Reports are
// restricted to reviewer roles.
func (h *Handlers) reportFilter(c *gin.Context) (service.ReportType, port.ReportFilter, bool) {
	if !currentUser(c).Role.IsReviewer() {
		c.JSON(http.StatusForbidden, Response{
			Success: false,
			Error:   "reports are restricted to reviewers",
		})
		return "", port.ReportFilter{}, false
	}

	start, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		respondBadRequest(c, "start_date must be YYYY-MM-DD")
		return "", port.ReportFilter{}, false
	}
	end, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		respondBadRequest(c, "end_date must be YYYY-MM-DD")
		return "", port.ReportFilter{}, false
	}

	filter := port.ReportFilter{StartDate: start, EndDate: end}
	if raw := c.Query("department_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respondBadRequest(c, "invalid department_id")
			return "", port.ReportFilter{}, false
		}
		filter.DepartmentID = &id
	}

	return service.ReportType(c.DefaultQuery("type", string(service.ReportSummary))), filter, true
}

// RunReport handles GET /api/reports
func (h *Handlers) RunReport(c *gin.Context) {
	reportType, filter, ok := h.reportFilter(c)
	if !ok {
		return
	}

	report, err := h.services.Reports.Run(c.Request.Context(), reportType, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, report)
}

// ExportReport handles GET /api/reports/export, streaming an xlsx workbook.
func (h *Handlers) ExportReport(c *gin.Context) {
	reportType, filter, ok := h.reportFilter(c)
	if !ok {
		return
	}

	report, err := h.services.Reports.Run(c.Request.Context(), reportType, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("expense_report_%s_%s.xlsx",
		report.Type, time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := h.exporter.Write(report, c.Writer); err != nil {
		h.logger.Error("Report export failed", "error", err)
		c.Status(http.StatusInternalServerError)
	}
}
