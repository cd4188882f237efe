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

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, user_id, name, type, balance, is_default, created_at, updated_at, deleted_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	var balance pgtype.Numeric
	var deletedAt pgtype.Timestamptz
	err := row.Scan(&account.ID, &account.UserID, &account.Name, &account.Type,
		&balance, &account.IsDefault, &account.CreatedAt, &account.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	account.Balance = pgNumericToDecimal(balance)
	if deletedAt.Valid {
		t := deletedAt.Time
		account.DeletedAt = &t
	}
	return &account, nil
}

// Create creates a new account. When the account is flagged as default, the
// flag is first cleared on all of the user's other accounts in the same
// transaction so at most one default exists.
func (r *AccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	ctx := context.Background()

	balance, err := decimalToPgNumeric(account.Balance)
	if err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if account.IsDefault {
		if _, err := tx.Exec(ctx,
			`UPDATE accounts SET is_default = FALSE, updated_at = now() WHERE user_id = $1 AND is_default`,
			account.UserID); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (user_id, name, type, balance, is_default)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+accountColumns,
		account.UserID, account.Name, string(account.Type), balance, account.IsDefault)

	created, err := scanAccount(row)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves an account by ID scoped to a user
func (r *AccountRepository) GetByID(userID int32, id int32) (*domain.Account, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`,
		userID, id)
	return scanAccount(row)
}

// GetAllByUser retrieves all live accounts for a user, default first
func (r *AccountRepository) GetAllByUser(userID int32) ([]*domain.Account, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+accountColumns+` FROM accounts
		 WHERE user_id = $1 AND deleted_at IS NULL
		 ORDER BY is_default DESC, created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []*domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update updates an account's name (only name is editable)
func (r *AccountRepository) Update(userID int32, id int32, name string) (*domain.Account, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE accounts SET name = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+accountColumns, userID, id, name)
	return scanAccount(row)
}

// SetDefault marks the account as the user's default, clearing every other
// account's flag in a single statement
func (r *AccountRepository) SetDefault(userID int32, id int32) (*domain.Account, error) {
	tag, err := r.pool.Exec(context.Background(), `
		UPDATE accounts SET is_default = (id = $2), updated_at = now()
		WHERE user_id = $1 AND deleted_at IS NULL AND (is_default OR id = $2)`,
		userID, id)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.GetByID(userID, id)
}

// AdjustBalance applies a signed delta to the account balance
func (r *AccountRepository) AdjustBalance(userID int32, id int32, delta decimal.Decimal) (*domain.Account, error) {
	num, err := decimalToPgNumeric(delta)
	if err != nil {
		return nil, fmt.Errorf("invalid delta: %w", err)
	}
	row := r.pool.QueryRow(context.Background(), `
		UPDATE accounts SET balance = balance + $3, updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL
		RETURNING `+accountColumns, userID, id, num)
	return scanAccount(row)
}

// SoftDelete sets deleted_at on an account with no remaining transactions
func (r *AccountRepository) SoftDelete(userID int32, id int32) error {
	count, err := r.CountTransactions(userID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrAccountHasTransactions
	}

	tag, err := r.pool.Exec(context.Background(), `
		UPDATE accounts SET deleted_at = now(), updated_at = now()
		WHERE user_id = $1 AND id = $2 AND deleted_at IS NULL`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// CountTransactions returns the number of transactions referencing the account
func (r *AccountRepository) CountTransactions(userID int32, id int32) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1 AND account_id = $2`,
		userID, id).Scan(&count)
	return count, err
}
