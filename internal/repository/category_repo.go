package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/uzima/reimbursement/internal/application/port"
	"github.com/uzima/reimbursement/internal/domain/apperror"
	"github.com/uzima/reimbursement/internal/domain/entity"
)

const categoryColumns = `
	category_id, category_name, category_code, description, max_amount,
	requires_receipt, is_active, created_at, updated_at`

// CategoryRepository handles expense category database operations.
// Categories are seeded by migration; the application only reads them.
type CategoryRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID retrieves a category by ID. Returns (nil, nil) when no row exists.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.ExpenseCategory, error) {
	query := "SELECT " + categoryColumns + " FROM expense_categories WHERE category_id = ?"

	cat, err := scanCategory(r.db.getExecutor(ctx).QueryRowContext(ctx, query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to scan category", zap.Error(err))
		return nil, apperror.System("scan category", err)
	}
	return cat, nil
}

// ListActive retrieves the active categories ordered by name.
func (r *CategoryRepository) ListActive(ctx context.Context) ([]*entity.ExpenseCategory, error) {
	query := "SELECT " + categoryColumns + " FROM expense_categories WHERE is_active = 1 ORDER BY category_name"

	rows, err := r.db.getExecutor(ctx).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, apperror.System("list categories", err)
	}
	defer rows.Close()

	var categories []*entity.ExpenseCategory
	for rows.Next() {
		cat, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, apperror.System("scan category", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.System("list categories", err)
	}
	return categories, nil
}

func scanCategory(scan func(dest ...interface{}) error) (*entity.ExpenseCategory, error) {
	var cat entity.ExpenseCategory
	var description sql.NullString
	var maxAmount sql.NullFloat64

	err := scan(
		&cat.ID,
		&cat.Name,
		&cat.Code,
		&description,
		&maxAmount,
		&cat.ReceiptRequired,
		&cat.IsActive,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	cat.Description = description.String
	if maxAmount.Valid {
		cat.MaxAmount = &maxAmount.Float64
	}
	return &cat, nil
}

// Verify interface compliance
var _ port.CategoryRepository = (*CategoryRepository)(nil)
