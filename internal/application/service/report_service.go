package service

import (
	"context"
	"time"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
)

// ReportType selects which aggregation a report request runs.
type ReportType string

const (
	ReportSummary      ReportType = "summary"
	ReportByCategory   ReportType = "expense_category"
	ReportMonthlyTrend ReportType = "monthly_trend"
	ReportByEmployee   ReportType = "employee"
)

// Report is the result of one report run. Exactly one of the row slices is
// populated, matching Type.
type Report struct {
	Type         ReportType          `json:"type"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	DepartmentID *int64              `json:"department_id,omitempty"`
	Summary      []*port.SummaryRow  `json:"summary,omitempty"`
	Categories   []*port.CategoryRow `json:"categories,omitempty"`
	Monthly      []*port.MonthlyRow  `json:"monthly,omitempty"`
	Employees    []*port.EmployeeRow `json:"employees,omitempty"`
}

// ReportService runs claim aggregation reports.
type ReportService interface {
	Run(ctx context.Context, reportType ReportType, filter port.ReportFilter) (*Report, error)
}

type reportServiceImpl struct {
	reportRepo port.ReportRepository
	logger     Logger
}

// NewReportService creates a new ReportService
func NewReportService(reportRepo port.ReportRepository, logger Logger) ReportService {
	return &reportServiceImpl{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// Run executes the requested aggregation over the filter's date range.
func (s *reportServiceImpl) Run(ctx context.Context, reportType ReportType, filter port.ReportFilter) (*Report, error) {
	if filter.StartDate.IsZero() || filter.EndDate.IsZero() {
		return nil, apperror.Validation("start and end dates are required")
	}
	if filter.EndDate.Before(filter.StartDate) {
		return nil, apperror.Validation("end date precedes start date")
	}

	report := &Report{
		Type:         reportType,
		StartDate:    filter.StartDate,
		EndDate:      filter.EndDate,
		DepartmentID: filter.DepartmentID,
	}

	var err error
	switch reportType {
	case ReportByCategory:
		report.Categories, err = s.reportRepo.ByCategory(ctx, filter)
	case ReportMonthlyTrend:
		report.Monthly, err = s.reportRepo.MonthlyTrend(ctx, filter)
	case ReportByEmployee:
		report.Employees, err = s.reportRepo.ByEmployee(ctx, filter)
	default:
		report.Type = ReportSummary
		report.Summary, err = s.reportRepo.Summary(ctx, filter)
	}
	if err != nil {
		s.logger.Error("Report query failed", "error", err, "type", string(reportType))
		return nil, err
	}

	return report, nil
}
