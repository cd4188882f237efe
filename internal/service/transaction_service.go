package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/websocket"
)

// TransactionService handles transaction-related business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
	publisher websocket.EventPublisher,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		publisher:       publisher,
	}
}

// CreateTransactionInput holds the input for creating a transaction
type CreateTransactionInput struct {
	AccountID         int32
	Type              domain.TransactionType
	Amount            decimal.Decimal
	Category          string
	Description       *string
	OccurredAt        time.Time
	Status            domain.TransactionStatus
	IsRecurring       bool
	RecurringInterval *domain.RecurringInterval
	ReceiptURL        *string
}

// UpdateTransactionInput holds the input for updating a transaction.
// Nil fields are left unchanged.
type UpdateTransactionInput struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	OccurredAt  *time.Time
	Status      *domain.TransactionStatus
}

func validateTransactionType(t domain.TransactionType) error {
	if t != domain.TransactionTypeIncome && t != domain.TransactionTypeExpense {
		return domain.ErrInvalidTransactionType
	}
	return nil
}

func validateStatus(s domain.TransactionStatus) error {
	if s != domain.TransactionStatusPending && s != domain.TransactionStatusCompleted {
		return domain.ErrInvalidStatus
	}
	return nil
}

func validateCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return "", domain.ErrCategoryRequired
	}
	if len(category) > domain.MaxCategoryLength {
		return "", domain.ErrNameTooLong
	}
	return category, nil
}

// balanceDelta is the signed effect of a completed transaction on its account
func balanceDelta(t domain.TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == domain.TransactionTypeExpense {
		return amount.Neg()
	}
	return amount
}

// nextRecurringDate advances the occurrence date by one interval
func nextRecurringDate(from time.Time, interval domain.RecurringInterval) time.Time {
	switch interval {
	case domain.RecurringDaily:
		return from.AddDate(0, 0, 1)
	case domain.RecurringWeekly:
		return from.AddDate(0, 0, 7)
	case domain.RecurringMonthly:
		return from.AddDate(0, 1, 0)
	case domain.RecurringYearly:
		return from.AddDate(1, 0, 0)
	}
	return from
}

// CreateTransaction validates and creates a transaction. Completed
// transactions immediately adjust the account balance.
func (s *TransactionService) CreateTransaction(userID int32, input CreateTransactionInput) (*domain.Transaction, error) {
	if err := validateTransactionType(input.Type); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	category, err := validateCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if input.Description != nil && len(*input.Description) > domain.MaxDescriptionLength {
		return nil, domain.ErrDescriptionTooLong
	}

	status := input.Status
	if status == "" {
		status = domain.TransactionStatusCompleted
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}

	// Account must exist and belong to the user
	if _, err := s.accountRepo.GetByID(userID, input.AccountID); err != nil {
		return nil, err
	}

	transaction := &domain.Transaction{
		UserID:            userID,
		AccountID:         input.AccountID,
		Type:              input.Type,
		Amount:            input.Amount,
		Category:          category,
		Description:       input.Description,
		OccurredAt:        input.OccurredAt,
		Status:            status,
		IsRecurring:       input.IsRecurring,
		RecurringInterval: input.RecurringInterval,
		ReceiptURL:        input.ReceiptURL,
	}

	if input.IsRecurring {
		if input.RecurringInterval == nil || !domain.ValidRecurringIntervals[*input.RecurringInterval] {
			return nil, domain.ErrInvalidInterval
		}
		next := nextRecurringDate(input.OccurredAt, *input.RecurringInterval)
		transaction.NextRecurringDate = &next
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	if created.Status == domain.TransactionStatusCompleted {
		if _, err := s.accountRepo.AdjustBalance(userID, created.AccountID, balanceDelta(created.Type, created.Amount)); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish(userID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions retrieves transactions with filters and pagination.
// Page size is clamped to the allowed maximum.
func (s *TransactionService) GetTransactions(userID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}
	return s.transactionRepo.GetByUser(userID, filters)
}

// GetTransactionByID retrieves a transaction scoped to the user
func (s *TransactionService) GetTransactionByID(userID int32, id int32) (*domain.Transaction, error) {
	return s.transactionRepo.GetByID(userID, id)
}

// GetRecentCategories returns the user's most recently used categories
func (s *TransactionService) GetRecentCategories(userID int32, limit int32) ([]string, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.transactionRepo.GetRecentCategories(userID, limit)
}

// UpdateTransaction updates a pending transaction. Completed transactions
// have already posted to the account balance and cannot be modified.
func (s *TransactionService) UpdateTransaction(userID int32, id int32, input UpdateTransactionInput) (*domain.Transaction, error) {
	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.TransactionStatusCompleted {
		return nil, domain.ErrTransactionImmutable
	}

	if input.Amount != nil {
		if !input.Amount.IsPositive() {
			return nil, domain.ErrInvalidAmount
		}
		existing.Amount = *input.Amount
	}
	if input.Category != nil {
		category, err := validateCategory(*input.Category)
		if err != nil {
			return nil, err
		}
		existing.Category = category
	}
	if input.Description != nil {
		if len(*input.Description) > domain.MaxDescriptionLength {
			return nil, domain.ErrDescriptionTooLong
		}
		existing.Description = input.Description
	}
	if input.OccurredAt != nil {
		existing.OccurredAt = *input.OccurredAt
		if existing.IsRecurring && existing.RecurringInterval != nil {
			next := nextRecurringDate(*input.OccurredAt, *existing.RecurringInterval)
			existing.NextRecurringDate = &next
		}
	}
	if input.Status != nil {
		if err := validateStatus(*input.Status); err != nil {
			return nil, err
		}
		existing.Status = *input.Status
	}

	updated, err := s.transactionRepo.Update(existing)
	if err != nil {
		return nil, err
	}

	// Posting happens when a pending transaction completes
	if updated.Status == domain.TransactionStatusCompleted {
		if _, err := s.accountRepo.AdjustBalance(userID, updated.AccountID, balanceDelta(updated.Type, updated.Amount)); err != nil {
			return nil, err
		}
	}

	s.publisher.Publish(userID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction, reversing its balance effect if
// it had posted
func (s *TransactionService) DeleteTransaction(userID int32, id int32) error {
	existing, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	if existing.Status == domain.TransactionStatusCompleted {
		delta := balanceDelta(existing.Type, existing.Amount).Neg()
		if _, err := s.accountRepo.AdjustBalance(userID, existing.AccountID, delta); err != nil {
			return err
		}
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(existing))
	return nil
}

// BulkDeleteTransactions removes multiple transactions at once, reversing
// posted balance effects per account
func (s *TransactionService) BulkDeleteTransactions(userID int32, ids []int32) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidInput
	}

	// Collect balance reversals before the delete so ownership is verified
	// against live rows
	reversals := make(map[int32]decimal.Decimal)
	var existing []*domain.Transaction
	for _, id := range ids {
		t, err := s.transactionRepo.GetByID(userID, id)
		if err != nil {
			continue
		}
		existing = append(existing, t)
		if t.Status == domain.TransactionStatusCompleted {
			delta := balanceDelta(t.Type, t.Amount).Neg()
			reversals[t.AccountID] = reversals[t.AccountID].Add(delta)
		}
	}

	deleted, err := s.transactionRepo.BulkDelete(userID, ids)
	if err != nil {
		return 0, err
	}

	for accountID, delta := range reversals {
		if _, err := s.accountRepo.AdjustBalance(userID, accountID, delta); err != nil {
			return deleted, err
		}
	}

	for _, t := range existing {
		s.publisher.Publish(userID, websocket.TransactionDeleted(t))
	}

	return deleted, nil
}
