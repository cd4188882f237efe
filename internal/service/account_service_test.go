package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/testutil"
)

func newAccountService() (*AccountService, *testutil.MockAccountRepository, *testutil.MockTransactionRepository, *testutil.MockEventPublisher) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewAccountService(accountRepo, transactionRepo, publisher), accountRepo, transactionRepo, publisher
}

func TestCreateAccount_Success(t *testing.T) {
	accountService, _, _, publisher := newAccountService()

	userID := int32(1)
	account, err := accountService.CreateAccount(userID, CreateAccountInput{
		Name:           "Main Checking",
		Type:           domain.AccountTypeChecking,
		InitialBalance: decimal.NewFromFloat(1000.50),
		IsDefault:      true,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Name != "Main Checking" {
		t.Errorf("Expected name 'Main Checking', got %s", account.Name)
	}
	if account.Type != domain.AccountTypeChecking {
		t.Errorf("Expected type 'checking', got %s", account.Type)
	}
	if !account.Balance.Equal(decimal.NewFromFloat(1000.50)) {
		t.Errorf("Expected balance '1000.50', got %s", account.Balance.String())
	}
	if account.UserID != userID {
		t.Errorf("Expected user ID %d, got %d", userID, account.UserID)
	}
	if publisher.EventCount() != 1 {
		t.Errorf("Expected 1 published event, got %d", publisher.EventCount())
	}
}

func TestCreateAccount_TrimsName(t *testing.T) {
	accountService, _, _, _ := newAccountService()

	account, err := accountService.CreateAccount(1, CreateAccountInput{
		Name: "  Savings  ",
		Type: domain.AccountTypeSavings,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.Name != "Savings" {
		t.Errorf("Expected trimmed name 'Savings', got %q", account.Name)
	}
}

func TestCreateAccount_ValidationErrors(t *testing.T) {
	accountService, _, _, _ := newAccountService()

	tests := []struct {
		name    string
		input   CreateAccountInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateAccountInput{Name: "   ", Type: domain.AccountTypeChecking},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "name too long",
			input:   CreateAccountInput{Name: strings.Repeat("a", 256), Type: domain.AccountTypeChecking},
			wantErr: domain.ErrNameTooLong,
		},
		{
			name:    "invalid type",
			input:   CreateAccountInput{Name: "Wallet", Type: domain.AccountType("credit")},
			wantErr: domain.ErrInvalidAccountType,
		},
		{
			name: "negative balance",
			input: CreateAccountInput{
				Name:           "Wallet",
				Type:           domain.AccountTypeChecking,
				InitialBalance: decimal.NewFromInt(-5),
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accountService.CreateAccount(1, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSetDefaultAccount_SwitchesDefault(t *testing.T) {
	accountService, accountRepo, _, publisher := newAccountService()

	first, _ := accountService.CreateAccount(1, CreateAccountInput{
		Name: "First", Type: domain.AccountTypeChecking, IsDefault: true,
	})
	second, _ := accountService.CreateAccount(1, CreateAccountInput{
		Name: "Second", Type: domain.AccountTypeSavings,
	})

	updated, err := accountService.SetDefaultAccount(1, second.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !updated.IsDefault {
		t.Error("Expected second account to be default")
	}
	if accountRepo.Accounts[first.ID].IsDefault {
		t.Error("Expected first account to lose default flag")
	}
	if publisher.EventCount() != 3 {
		t.Errorf("Expected 3 published events, got %d", publisher.EventCount())
	}
}

func TestSetDefaultAccount_NotFound(t *testing.T) {
	accountService, _, _, _ := newAccountService()

	_, err := accountService.SetDefaultAccount(1, 99)
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Errorf("Expected ErrAccountNotFound, got %v", err)
	}
}

func TestDeleteAccount_BlockedByTransactions(t *testing.T) {
	accountService, accountRepo, _, _ := newAccountService()

	account, _ := accountService.CreateAccount(1, CreateAccountInput{
		Name: "Busy", Type: domain.AccountTypeChecking,
	})
	accountRepo.TxCounts[account.ID] = 3

	err := accountService.DeleteAccount(1, account.ID)
	if !errors.Is(err, domain.ErrAccountHasTransactions) {
		t.Errorf("Expected ErrAccountHasTransactions, got %v", err)
	}
}

func TestDeleteAccount_Success(t *testing.T) {
	accountService, accountRepo, _, _ := newAccountService()

	account, _ := accountService.CreateAccount(1, CreateAccountInput{
		Name: "Empty", Type: domain.AccountTypeChecking,
	})

	if err := accountService.DeleteAccount(1, account.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if accountRepo.Accounts[account.ID].DeletedAt == nil {
		t.Error("Expected account to be soft-deleted")
	}
}

func TestGetAccountSummary(t *testing.T) {
	accountService, _, _, _ := newAccountService()

	accountService.CreateAccount(1, CreateAccountInput{
		Name: "Checking", Type: domain.AccountTypeChecking, InitialBalance: decimal.NewFromInt(100),
	})
	accountService.CreateAccount(1, CreateAccountInput{
		Name: "Savings", Type: domain.AccountTypeSavings, InitialBalance: decimal.NewFromInt(250),
	})

	summary, err := accountService.GetAccountSummary(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.TotalBalance.StringFixed(2) != "350.00" {
		t.Errorf("Expected total balance 350.00, got %s", summary.TotalBalance.StringFixed(2))
	}
	if summary.Count != 2 || summary.CheckingCount != 1 || summary.SavingsCount != 1 {
		t.Errorf("Unexpected counts: %+v", summary)
	}
}

func TestGetAccountStats(t *testing.T) {
	accountService, _, transactionRepo, _ := newAccountService()

	account, _ := accountService.CreateAccount(1, CreateAccountInput{
		Name: "Main", Type: domain.AccountTypeChecking,
	})

	occurred := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID:     1,
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(10),
		Category:   "food",
		OccurredAt: occurred,
		Status:     domain.TransactionStatusCompleted,
	})

	stats, err := accountService.GetAccountStats(1, account.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stats.TransactionCount != 1 {
		t.Errorf("Expected 1 transaction, got %d", stats.TransactionCount)
	}
	if stats.LastActivity == nil || *stats.LastActivity != "2025-03-10" {
		t.Errorf("Expected last activity 2025-03-10, got %v", stats.LastActivity)
	}
}
