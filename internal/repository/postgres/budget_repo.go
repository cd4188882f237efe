package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = `id, user_id, amount, created_at, updated_at`

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var budget domain.Budget
	var amount pgtype.Numeric
	err := row.Scan(&budget.ID, &budget.UserID, &amount, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	budget.Amount = pgNumericToDecimal(amount)
	return &budget, nil
}

// GetByUser retrieves the user's budget
func (r *BudgetRepository) GetByUser(userID int32) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = $1`, userID)
	return scanBudget(row)
}

// Upsert creates or replaces the user's budget amount
func (r *BudgetRepository) Upsert(userID int32, amount decimal.Decimal) (*domain.Budget, error) {
	num, err := decimalToPgNumeric(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO budgets (user_id, amount)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET amount = EXCLUDED.amount, updated_at = now()
		RETURNING `+budgetColumns, userID, num)
	return scanBudget(row)
}
