package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/analytics"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/websocket"
)

// AccountService handles account-related business logic
type AccountService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewAccountService creates a new AccountService
func NewAccountService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	publisher websocket.EventPublisher,
) *AccountService {
	return &AccountService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// CreateAccountInput holds the input for creating an account
type CreateAccountInput struct {
	Name           string
	Type           domain.AccountType
	InitialBalance decimal.Decimal
	IsDefault      bool
}

// CreateAccount creates a new account
func (s *AccountService) CreateAccount(userID int32, input CreateAccountInput) (*domain.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !domain.ValidAccountTypes[input.Type] {
		return nil, domain.ErrInvalidAccountType
	}
	if input.InitialBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	account := &domain.Account{
		UserID:    userID,
		Name:      name,
		Type:      input.Type,
		Balance:   input.InitialBalance,
		IsDefault: input.IsDefault,
	}

	created, err := s.accountRepo.Create(account)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.AccountUpdated(created))
	return created, nil
}

// GetAccounts retrieves all accounts for a user
func (s *AccountService) GetAccounts(userID int32) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByUser(userID)
}

// GetAccountByID retrieves an account by ID scoped to the user
func (s *AccountService) GetAccountByID(userID int32, id int32) (*domain.Account, error) {
	return s.accountRepo.GetByID(userID, id)
}

// GetAccountSummary returns cross-account aggregate stats for the user
func (s *AccountService) GetAccountSummary(userID int32) (analytics.AccountSummary, error) {
	accounts, err := s.accountRepo.GetAllByUser(userID)
	if err != nil {
		return analytics.AccountSummary{}, err
	}
	return analytics.SummarizeAccounts(accounts), nil
}

// AccountStats holds per-account activity data
type AccountStats struct {
	TransactionCount int64   `json:"transactionCount"`
	LastActivity     *string `json:"lastActivity,omitempty"`
}

// GetAccountStats returns transaction count and last activity for one account
func (s *AccountService) GetAccountStats(userID int32, id int32) (*AccountStats, error) {
	if _, err := s.accountRepo.GetByID(userID, id); err != nil {
		return nil, err
	}

	page, err := s.transactionRepo.GetByUser(userID, &domain.TransactionFilters{
		AccountID: &id,
		Page:      1,
		PageSize:  1,
	})
	if err != nil {
		return nil, err
	}

	stats := &AccountStats{TransactionCount: page.TotalItems}
	if len(page.Data) > 0 {
		last := page.Data[0].OccurredAt.Format("2006-01-02")
		stats.LastActivity = &last
	}
	return stats, nil
}

// UpdateAccount updates an account's name (only name is editable)
func (s *AccountService) UpdateAccount(userID int32, id int32, name string) (*domain.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}

	updated, err := s.accountRepo.Update(userID, id, name)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.AccountUpdated(updated))
	return updated, nil
}

// SetDefaultAccount marks the account as the user's default
func (s *AccountService) SetDefaultAccount(userID int32, id int32) (*domain.Account, error) {
	account, err := s.accountRepo.SetDefault(userID, id)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.AccountUpdated(account))
	return account, nil
}

// DeleteAccount soft-deletes an account. Accounts with transactions cannot
// be deleted; the repository enforces the check atomically.
func (s *AccountService) DeleteAccount(userID int32, id int32) error {
	return s.accountRepo.SoftDelete(userID, id)
}
