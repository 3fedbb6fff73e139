package repository

import (
	"context"

	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
)

// ReportRepository runs the aggregation queries behind reports.
type ReportRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *DB, logger *zap.Logger) *ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

// reportScope builds the shared WHERE clause. Reports cover a date range on
// submission_date and optionally a single department.
func reportScope(filter port.ReportFilter) (string, []interface{}) {
	clause := " WHERE date(c.submission_date) BETWEEN date(?) AND date(?)"
	args := []interface{}{filter.StartDate, filter.EndDate}
	if filter.DepartmentID != nil {
		clause += " AND c.department_id = ?"
		args = append(args, *filter.DepartmentID)
	}
	return clause, args
}

// Summary aggregates claims by department and status.
func (r *ReportRepository) Summary(ctx context.Context, filter port.ReportFilter) ([]*port.SummaryRow, error) {
	scope, args := reportScope(filter)
	query := `
		SELECT COALESCE(d.department_name, 'Unassigned'), c.status,
			COUNT(*), COALESCE(SUM(c.amount), 0)
		FROM claims c
		LEFT JOIN departments d ON c.department_id = d.department_id` + scope + `
		GROUP BY d.department_name, c.status
		ORDER BY d.department_name, c.status`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Summary report query failed", zap.Error(err))
		return nil, apperror.System("summary report", err)
	}
	defer rows.Close()

	var result []*port.SummaryRow
	for rows.Next() {
		var row port.SummaryRow
		if err := rows.Scan(&row.DepartmentName, &row.Status, &row.ClaimCount, &row.TotalAmount); err != nil {
			return nil, apperror.System("scan summary row", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("summary report", err)
	}
	return result, nil
}

// ByCategory aggregates claims by expense category.
func (r *ReportRepository) ByCategory(ctx context.Context, filter port.ReportFilter) ([]*port.CategoryRow, error) {
	scope, args := reportScope(filter)
	query := `
		SELECT COALESCE(ec.category_name, 'Uncategorized'),
			COUNT(*), COALESCE(SUM(c.amount), 0)
		FROM claims c
		LEFT JOIN expense_categories ec ON c.category_id = ec.category_id` + scope + `
		GROUP BY ec.category_name
		ORDER BY SUM(c.amount) DESC`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Category report query failed", zap.Error(err))
		return nil, apperror.System("category report", err)
	}
	defer rows.Close()

	var result []*port.CategoryRow
	for rows.Next() {
		var row port.CategoryRow
		if err := rows.Scan(&row.CategoryName, &row.ClaimCount, &row.TotalAmount); err != nil {
			return nil, apperror.System("scan category row", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("category report", err)
	}
	return result, nil
}

// MonthlyTrend aggregates claims by submission month.
func (r *ReportRepository) MonthlyTrend(ctx context.Context, filter port.ReportFilter) ([]*port.MonthlyRow, error) {
	scope, args := reportScope(filter)
	query := `
		SELECT strftime('%Y-%m', c.submission_date),
			COUNT(*), COALESCE(SUM(c.amount), 0)
		FROM claims c` + scope + `
		GROUP BY strftime('%Y-%m', c.submission_date)
		ORDER BY strftime('%Y-%m', c.submission_date)`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Monthly trend query failed", zap.Error(err))
		return nil, apperror.System("monthly trend report", err)
	}
	defer rows.Close()

	var result []*port.MonthlyRow
	for rows.Next() {
		var row port.MonthlyRow
		if err := rows.Scan(&row.Month, &row.ClaimCount, &row.TotalAmount); err != nil {
			return nil, apperror.System("scan monthly row", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("monthly trend report", err)
	}
	return result, nil
}

// ByEmployee aggregates claims by submitting employee.
func (r *ReportRepository) ByEmployee(ctx context.Context, filter port.ReportFilter) ([]*port.EmployeeRow, error) {
	scope, args := reportScope(filter)
	query := `
		SELECT u.fullName, COALESCE(d.department_name, 'Unassigned'),
			COUNT(*), COALESCE(SUM(c.amount), 0)
		FROM claims c
		JOIN users u ON c.userID = u.userID
		LEFT JOIN departments d ON c.department_id = d.department_id` + scope + `
		GROUP BY u.userID
		ORDER BY SUM(c.amount) DESC`

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Employee report query failed", zap.Error(err))
		return nil, apperror.System("employee report", err)
	}
	defer rows.Close()

	var result []*port.EmployeeRow
	for rows.Next() {
		var row port.EmployeeRow
		if err := rows.Scan(&row.EmployeeName, &row.DepartmentName, &row.ClaimCount, &row.TotalAmount); err != nil {
			return nil, apperror.System("scan employee row", err)
		}
		result = append(result, &row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("employee report", err)
	}
	return result, nil
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
