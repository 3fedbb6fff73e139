package port

import (
	"context"
	"time"
)

// ReportFilter scopes report queries to a date range and optional department.
type ReportFilter struct {
	StartDate    time.Time
	EndDate      time.Time
	DepartmentID *int64
}

// SummaryRow aggregates claims by department and status.
type SummaryRow struct {
	DepartmentName string  `json:"department_name"`
	Status         string  `json:"status"`
	ClaimCount     int     `json:"claim_count"`
	TotalAmount    float64 `json:"total_amount"`
}

// CategoryRow aggregates claims by expense category.
type CategoryRow struct {
	CategoryName string  `json:"category_name"`
	ClaimCount   int     `json:"claim_count"`
	TotalAmount  float64 `json:"total_amount"`
}

// MonthlyRow aggregates claims by submission month (YYYY-MM).
type MonthlyRow struct {
	Month       string  `json:"month"`
	ClaimCount  int     `json:"claim_count"`
	TotalAmount float64 `json:"total_amount"`
}

// EmployeeRow aggregates claims by submitting employee.
type EmployeeRow struct {
	EmployeeName   string  `json:"employee_name"`
	DepartmentName string  `json:"department_name"`
	ClaimCount     int     `json:"claim_count"`
	TotalAmount    float64 `json:"total_amount"`
}

// ReportRepository runs the aggregation queries behind the reports module.
type ReportRepository interface {
	Summary(ctx context.Context, filter ReportFilter) ([]*SummaryRow, error)
	ByCategory(ctx context.Context, filter ReportFilter) ([]*CategoryRow, error)
	MonthlyTrend(ctx context.Context, filter ReportFilter) ([]*MonthlyRow, error)
	ByEmployee(ctx context.Context, filter ReportFilter) ([]*EmployeeRow, error)
}
