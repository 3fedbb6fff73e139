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

const userColumns = `
	userID, employee_id, fullName, email, password, department_id, role,
	is_active, last_login, created_at, updated_at`

// UserRepository handles user database operations
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new user. A duplicate email surfaces as a conflict.
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (
			employee_id, fullName, email, password, department_id, role,
			is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now()
	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query,
		nullString(user.EmployeeID),
		user.FullName,
		user.Email,
		user.Password,
		user.DepartmentID,
		user.Role.String(),
		user.IsActive,
		now,
		now,
	)
	if err != nil {
		if !isUniqueViolation(err) {
			r.logger.Error("Failed to create user", zap.Error(err))
		}
		return storeErr("create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperror.System("get last insert id", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByID retrieves a user by ID. Returns (nil, nil) when no row exists.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE userID = ?"
	return r.scanUser(r.db.getExecutor(ctx).QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return r.scanUser(r.db.getExecutor(ctx).QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanUser(row *sql.Row) (*entity.User, error) {
	var user entity.User
	var employeeID sql.NullString
	var departmentID sql.NullInt64
	var lastLogin sql.NullTime
	var role string

	err := row.Scan(
		&user.ID,
		&employeeID,
		&user.FullName,
		&user.Email,
		&user.Password,
		&departmentID,
		&role,
		&user.IsActive,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan user", zap.Error(err))
		return nil, apperror.System("scan user", err)
	}

	user.Role = entity.Role(role)
	user.EmployeeID = employeeID.String
	if departmentID.Valid {
		user.DepartmentID = &departmentID.Int64
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

// List retrieves users ordered by name.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY fullName LIMIT ? OFFSET ?"

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list users", zap.Error(err))
		return nil, apperror.System("list users", err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		var user entity.User
		var employeeID sql.NullString
		var departmentID sql.NullInt64
		var lastLogin sql.NullTime
		var role string

		err := rows.Scan(
			&user.ID,
			&employeeID,
			&user.FullName,
			&user.Email,
			&user.Password,
			&departmentID,
			&role,
			&user.IsActive,
			&lastLogin,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, apperror.System("scan user", err)
		}
		user.Role = entity.Role(role)
		user.EmployeeID = employeeID.String
		if departmentID.Valid {
			user.DepartmentID = &departmentID.Int64
		}
		if lastLogin.Valid {
			user.LastLogin = &lastLogin.Time
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list users", err)
	}
	return users, nil
}

// SetLastLogin records a successful login timestamp.
func (r *UserRepository) SetLastLogin(ctx context.Context, id int64, t time.Time) error {
	query := "UPDATE users SET last_login = ?, updated_at = CURRENT_TIMESTAMP WHERE userID = ?"
	if _, err := r.db.getExecutor(ctx).ExecContext(ctx, query, t, id); err != nil {
		return apperror.System("set last login", err)
	}
	return nil
}

// SetActive activates or deactivates an account.
func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query := "UPDATE users SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE userID = ?"

	result, err := r.db.getExecutor(ctx).ExecContext(ctx, query, active, id)
	if err != nil {
		return apperror.System("set user active", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.System("set user active", err)
	}
	if affected == 0 {
		return apperror.NotFound("user %d not found", id)
	}
	return nil
}

// Verify interface compliance
var _ port.UserRepository = (*UserRepository)(nil)
