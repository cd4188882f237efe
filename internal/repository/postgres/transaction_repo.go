package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, user_id, account_id, type, amount, category, description,
	occurred_at, status, is_recurring, recurring_interval, next_recurring_date, receipt_url,
	created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	var amount pgtype.Numeric
	var description, interval, receiptURL pgtype.Text
	var occurredAt, nextRecurring pgtype.Date
	err := row.Scan(&txn.ID, &txn.UserID, &txn.AccountID, &txn.Type, &amount,
		&txn.Category, &description, &occurredAt, &txn.Status, &txn.IsRecurring,
		&interval, &nextRecurring, &receiptURL, &txn.CreatedAt, &txn.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	txn.Amount = pgNumericToDecimal(amount)
	txn.Description = pgTextToStringPtr(description)
	txn.OccurredAt = occurredAt.Time
	if interval.Valid {
		ri := domain.RecurringInterval(interval.String)
		txn.RecurringInterval = &ri
	}
	if nextRecurring.Valid {
		t := nextRecurring.Time
		txn.NextRecurringDate = &t
	}
	txn.ReceiptURL = pgTextToStringPtr(receiptURL)
	return &txn, nil
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var interval pgtype.Text
	if transaction.RecurringInterval != nil {
		interval = pgtype.Text{String: string(*transaction.RecurringInterval), Valid: true}
	}
	var nextRecurring pgtype.Date
	if transaction.NextRecurringDate != nil {
		nextRecurring = pgtype.Date{Time: *transaction.NextRecurringDate, Valid: true}
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (user_id, account_id, type, amount, category, description,
			occurred_at, status, is_recurring, recurring_interval, next_recurring_date, receipt_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.AccountID, string(transaction.Type), amount,
		transaction.Category, stringPtrToPgText(transaction.Description),
		pgtype.Date{Time: transaction.OccurredAt, Valid: true}, string(transaction.Status),
		transaction.IsRecurring, interval, nextRecurring, stringPtrToPgText(transaction.ReceiptURL))
	return scanTransaction(row)
}

// GetByID retrieves a transaction by ID scoped to a user
func (r *TransactionRepository) GetByID(userID int32, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 AND id = $2`,
		userID, id)
	return scanTransaction(row)
}

// GetAllByUser retrieves every transaction for a user, newest first.
// Used by the aggregation pipeline, which needs the full caller-scoped set.
func (r *TransactionRepository) GetAllByUser(userID int32) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// GetByDateRange retrieves transactions whose occurred_at falls in the
// half-open range [start, end)
func (r *TransactionRepository) GetByDateRange(userID int32, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND occurred_at >= $2 AND occurred_at < $3
		 ORDER BY occurred_at DESC, id DESC`,
		userID, pgtype.Date{Time: start, Valid: true}, pgtype.Date{Time: end, Valid: true})
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	transactions := []*domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	return transactions, rows.Err()
}

// GetByUser retrieves transactions with filters and pagination
func (r *TransactionRepository) GetByUser(userID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	where := `user_id = $1`
	args := []any{userID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filters.AccountID != nil {
		where += ` AND account_id = ` + arg(*filters.AccountID)
	}
	if filters.Type != nil {
		where += ` AND type = ` + arg(string(*filters.Type))
	}
	if filters.Status != nil {
		where += ` AND status = ` + arg(string(*filters.Status))
	}
	if filters.Category != nil {
		where += ` AND category = ` + arg(*filters.Category)
	}
	if filters.StartDate != nil {
		where += ` AND occurred_at >= ` + arg(pgtype.Date{Time: *filters.StartDate, Valid: true})
	}
	if filters.EndDate != nil {
		where += ` AND occurred_at <= ` + arg(pgtype.Date{Time: *filters.EndDate, Valid: true})
	}

	ctx := context.Background()

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + where +
		` ORDER BY occurred_at DESC, id DESC LIMIT ` + arg(pageSize) + ` OFFSET ` + arg((page-1)*pageSize)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	data, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(0)
	if total > 0 {
		totalPages = int32((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites the mutable fields of a transaction
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	var interval pgtype.Text
	if transaction.RecurringInterval != nil {
		interval = pgtype.Text{String: string(*transaction.RecurringInterval), Valid: true}
	}
	var nextRecurring pgtype.Date
	if transaction.NextRecurringDate != nil {
		nextRecurring = pgtype.Date{Time: *transaction.NextRecurringDate, Valid: true}
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions
		SET account_id = $3, type = $4, amount = $5, category = $6, description = $7,
			occurred_at = $8, status = $9, is_recurring = $10, recurring_interval = $11,
			next_recurring_date = $12, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.ID, transaction.AccountID, string(transaction.Type),
		amount, transaction.Category, stringPtrToPgText(transaction.Description),
		pgtype.Date{Time: transaction.OccurredAt, Valid: true}, string(transaction.Status),
		transaction.IsRecurring, interval, nextRecurring)
	return scanTransaction(row)
}

// Delete removes a transaction
func (r *TransactionRepository) Delete(userID int32, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// BulkDelete removes a set of transactions, returning the number deleted
func (r *TransactionRepository) BulkDelete(userID int32, ids []int32) (int64, error) {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE user_id = $1 AND id = ANY($2)`, userID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// GetRecentCategories returns distinct categories from the user's most recent transactions
func (r *TransactionRepository) GetRecentCategories(userID int32, limit int32) ([]string, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT category FROM transactions
		WHERE user_id = $1
		GROUP BY category
		ORDER BY MAX(occurred_at) DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// CountAll returns the platform-wide transaction count (admin stats)
func (r *TransactionRepository) CountAll() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

// SumVolume returns the platform-wide sum of transaction amounts (admin stats)
func (r *TransactionRepository) SumVolume() (decimal.Decimal, error) {
	var volume pgtype.Numeric
	err := r.pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM transactions`).Scan(&volume)
	if err != nil {
		return decimal.Zero, err
	}
	return pgNumericToDecimal(volume), nil
}

// CountReceiptScans returns how many transactions were imported from receipts
func (r *TransactionRepository) CountReceiptScans() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM transactions WHERE receipt_url IS NOT NULL`).Scan(&count)
	return count, err
}
