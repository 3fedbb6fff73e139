package repository

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

const departmentColumns = `
	department_id, department_name, department_code, manager_id,
	budget_allocation, budget_remaining, created_at, updated_at`

// DepartmentRepository handles department database operations
type DepartmentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *DB, logger *zap.Logger) *DepartmentRepository {
	return &DepartmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new department.
func (r *DepartmentRepository) Create(ctx context.Context, dept *entity.Department) error {
	query := `
		INSERT INTO departments (
			department_name, department_code, manager_id,
			budget_allocation, budget_remaining, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		dept.Name,
		dept.Code,
		dept.ManagerID,
		dept.BudgetAllocation,
		dept.BudgetRemaining,
		now,
		now,
	)
	if err != nil {
		if !isUniqueViolation(err) {
			r.logger.Error("Failed to create department", zap.Error(err))
		}
		return storeErr("create department", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	dept.ID = id
	dept.CreatedAt = now
	dept.UpdatedAt = now
	return nil
}

// GetByID retrieves a department by ID. Returns (nil, nil) when no row exists.
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*entity.Department, error) {
	query := "SELECT " + departmentColumns + " FROM departments WHERE department_id = ?"

	var dept entity.Department
	var managerID sql.NullInt64

	err := r.db.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan(
		&dept.ID,
		&dept.Name,
		&dept.Code,
		&managerID,
		&dept.BudgetAllocation,
		&dept.BudgetRemaining,
		&dept.CreatedAt,
		&dept.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan department", zap.Error(err))
		return nil, apperror.System("scan department", err)
	}

	if managerID.Valid {
		dept.ManagerID = &managerID.Int64
	}
	return &dept, nil
}

// List retrieves all departments ordered by name.
func (r *DepartmentRepository) List(ctx context.Context) ([]*entity.Department, error) {
	query := "SELECT " + departmentColumns + " FROM departments ORDER BY department_name"

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list departments", zap.Error(err))
		return nil, apperror.System("list departments", err)
	}
	defer rows.Close()

	var departments []*entity.Department
	for rows.Next() {
		var dept entity.Department
		var managerID sql.NullInt64
		err := rows.Scan(
			&dept.ID,
			&dept.Name,
			&dept.Code,
			&managerID,
			&dept.BudgetAllocation,
			&dept.BudgetRemaining,
			&dept.CreatedAt,
			&dept.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.System("scan department", err)
		}
		if managerID.Valid {
			dept.ManagerID = &managerID.Int64
		}
		departments = append(departments, &dept)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list departments", err)
	}
	return departments, nil
}

// SetManager assigns or clears a department's manager.
func (r *DepartmentRepository) SetManager(ctx context.Context, id int64, managerID *int64) error {
	query := "UPDATE departments SET manager_id = ?, updated_at = CURRENT_TIMESTAMP WHERE department_id = ?"

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, managerID, id)
	if err != nil {
		return apperror.System("set department manager", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.System("set department manager", err)
	}
	if affected == 0 {
		return apperror.NotFound("department %d not found", id)
	}
	return nil
}

// Verify interface compliance
var _ port.DepartmentRepository = (*DepartmentRepository)(nil)
