package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/testutil"
)

func newTransactionService() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockAccountRepository, *testutil.MockEventPublisher) {
	transactionRepo := testutil.NewMockTransactionRepository()
	accountRepo := testutil.NewMockAccountRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewTransactionService(transactionRepo, accountRepo, publisher), transactionRepo, accountRepo, publisher
}

func seedAccount(accountRepo *testutil.MockAccountRepository, userID int32, balance decimal.Decimal) *domain.Account {
	account := &domain.Account{
		UserID:  userID,
		Name:    "Main",
		Type:    domain.AccountTypeChecking,
		Balance: balance,
	}
	accountRepo.AddAccount(account)
	return account
}

func TestCreateTransaction_CompletedExpensePostsBalance(t *testing.T) {
	transactionService, _, accountRepo, publisher := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(500))

	created, err := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(120),
		Category:   "groceries",
		OccurredAt: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:     domain.TransactionStatusCompleted,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Balance.StringFixed(2) != "380.00" {
		t.Errorf("Expected balance 380.00, got %s", account.Balance.StringFixed(2))
	}
	if created.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status completed, got %s", created.Status)
	}
	if publisher.EventCount() != 1 {
		t.Errorf("Expected 1 published event, got %d", publisher.EventCount())
	}
}

func TestCreateTransaction_PendingDoesNotPost(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(500))

	_, err := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(120),
		Category:   "groceries",
		OccurredAt: time.Now(),
		Status:     domain.TransactionStatusPending,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Balance.StringFixed(2) != "500.00" {
		t.Errorf("Expected balance unchanged at 500.00, got %s", account.Balance.StringFixed(2))
	}
}

func TestCreateTransaction_IncomeIncreasesBalance(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(100))

	_, err := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeIncome,
		Amount:     decimal.NewFromFloat(2500.75),
		Category:   "salary",
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if account.Balance.StringFixed(2) != "2600.75" {
		t.Errorf("Expected balance 2600.75, got %s", account.Balance.StringFixed(2))
	}
}

func TestCreateTransaction_RecurringComputesNextDate(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.Zero)

	interval := domain.RecurringMonthly
	occurred := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	created, err := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:         account.ID,
		Type:              domain.TransactionTypeExpense,
		Amount:            decimal.NewFromInt(15),
		Category:          "bills",
		OccurredAt:        occurred,
		IsRecurring:       true,
		RecurringInterval: &interval,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if created.NextRecurringDate == nil {
		t.Fatal("Expected next recurring date to be set")
	}
	want := occurred.AddDate(0, 1, 0)
	if !created.NextRecurringDate.Equal(want) {
		t.Errorf("Expected next date %v, got %v", want, *created.NextRecurringDate)
	}
}

func TestCreateTransaction_RecurringRequiresInterval(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.Zero)

	_, err := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:   account.ID,
		Type:        domain.TransactionTypeExpense,
		Amount:      decimal.NewFromInt(15),
		Category:    "bills",
		OccurredAt:  time.Now(),
		IsRecurring: true,
	})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Errorf("Expected ErrInvalidInterval, got %v", err)
	}
}

func TestCreateTransaction_ValidationErrors(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.Zero)

	tests := []struct {
		name    string
		input   CreateTransactionInput
		wantErr error
	}{
		{
			name: "invalid type",
			input: CreateTransactionInput{
				AccountID: account.ID, Type: "transfer",
				Amount: decimal.NewFromInt(10), Category: "misc", OccurredAt: time.Now(),
			},
			wantErr: domain.ErrInvalidTransactionType,
		},
		{
			name: "zero amount",
			input: CreateTransactionInput{
				AccountID: account.ID, Type: domain.TransactionTypeExpense,
				Amount: decimal.Zero, Category: "misc", OccurredAt: time.Now(),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: CreateTransactionInput{
				AccountID: account.ID, Type: domain.TransactionTypeExpense,
				Amount: decimal.NewFromInt(-10), Category: "misc", OccurredAt: time.Now(),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "missing category",
			input: CreateTransactionInput{
				AccountID: account.ID, Type: domain.TransactionTypeExpense,
				Amount: decimal.NewFromInt(10), Category: "  ", OccurredAt: time.Now(),
			},
			wantErr: domain.ErrCategoryRequired,
		},
		{
			name: "unknown account",
			input: CreateTransactionInput{
				AccountID: 999, Type: domain.TransactionTypeExpense,
				Amount: decimal.NewFromInt(10), Category: "misc", OccurredAt: time.Now(),
			},
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transactionService.CreateTransaction(1, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestUpdateTransaction_RejectsCompleted(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(100))

	created, _ := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(20),
		Category:   "food",
		OccurredAt: time.Now(),
		Status:     domain.TransactionStatusCompleted,
	})

	newAmount := decimal.NewFromInt(50)
	_, err := transactionService.UpdateTransaction(1, created.ID, UpdateTransactionInput{Amount: &newAmount})
	if !errors.Is(err, domain.ErrTransactionImmutable) {
		t.Errorf("Expected ErrTransactionImmutable, got %v", err)
	}
}

func TestUpdateTransaction_CompletingPostsBalance(t *testing.T) {
	transactionService, _, accountRepo, publisher := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(100))

	created, _ := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(30),
		Category:   "food",
		OccurredAt: time.Now(),
		Status:     domain.TransactionStatusPending,
	})

	completed := domain.TransactionStatusCompleted
	updated, err := transactionService.UpdateTransaction(1, created.ID, UpdateTransactionInput{Status: &completed})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.Status != domain.TransactionStatusCompleted {
		t.Errorf("Expected status completed, got %s", updated.Status)
	}
	if account.Balance.StringFixed(2) != "70.00" {
		t.Errorf("Expected balance 70.00, got %s", account.Balance.StringFixed(2))
	}
	// created + updated
	if publisher.EventCount() != 2 {
		t.Errorf("Expected 2 published events, got %d", publisher.EventCount())
	}
}

func TestDeleteTransaction_ReversesPostedBalance(t *testing.T) {
	transactionService, transactionRepo, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(500))

	created, _ := transactionService.CreateTransaction(1, CreateTransactionInput{
		AccountID:  account.ID,
		Type:       domain.TransactionTypeExpense,
		Amount:     decimal.NewFromInt(100),
		Category:   "shopping",
		OccurredAt: time.Now(),
		Status:     domain.TransactionStatusCompleted,
	})

	if err := transactionService.DeleteTransaction(1, created.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if account.Balance.StringFixed(2) != "500.00" {
		t.Errorf("Expected balance restored to 500.00, got %s", account.Balance.StringFixed(2))
	}
	if len(transactionRepo.Transactions) != 0 {
		t.Errorf("Expected transaction removed, %d left", len(transactionRepo.Transactions))
	}
}

func TestBulkDeleteTransactions(t *testing.T) {
	transactionService, _, accountRepo, _ := newTransactionService()
	account := seedAccount(accountRepo, 1, decimal.NewFromInt(1000))

	var ids []int32
	for i := 0; i < 3; i++ {
		created, _ := transactionService.CreateTransaction(1, CreateTransactionInput{
			AccountID:  account.ID,
			Type:       domain.TransactionTypeExpense,
			Amount:     decimal.NewFromInt(100),
			Category:   "misc",
			OccurredAt: time.Now(),
			Status:     domain.TransactionStatusCompleted,
		})
		ids = append(ids, created.ID)
	}

	deleted, err := transactionService.BulkDeleteTransactions(1, ids)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}
	if account.Balance.StringFixed(2) != "1000.00" {
		t.Errorf("Expected balance restored to 1000.00, got %s", account.Balance.StringFixed(2))
	}
}

func TestBulkDeleteTransactions_EmptyInput(t *testing.T) {
	transactionService, _, _, _ := newTransactionService()

	_, err := transactionService.BulkDeleteTransactions(1, nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestGetTransactions_ClampsPageSize(t *testing.T) {
	transactionService, _, _, _ := newTransactionService()

	page, err := transactionService.GetTransactions(1, &domain.TransactionFilters{PageSize: 5000})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.PageSize != domain.MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", domain.MaxPageSize, page.PageSize)
	}
}

func TestGetTransactions_UserScoping(t *testing.T) {
	transactionService, transactionRepo, accountRepo, _ := newTransactionService()
	mine := seedAccount(accountRepo, 1, decimal.Zero)

	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 1, AccountID: mine.ID, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(10), Category: "food", OccurredAt: time.Now(),
		Status: domain.TransactionStatusCompleted,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 2, AccountID: 77, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(99), Category: "other", OccurredAt: time.Now(),
		Status: domain.TransactionStatusCompleted,
	})

	page, err := transactionService.GetTransactions(1, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.TotalItems != 1 {
		t.Errorf("Expected 1 transaction for user 1, got %d", page.TotalItems)
	}
}

func TestNextRecurringDate(t *testing.T) {
	from := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		interval domain.RecurringInterval
		want     time.Time
	}{
		{domain.RecurringDaily, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{domain.RecurringWeekly, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)},
		{domain.RecurringMonthly, time.Date(2025, 3, 28, 0, 0, 0, 0, time.UTC)},
		{domain.RecurringYearly, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got := nextRecurringDate(from, tt.interval)
		if !got.Equal(tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.interval, tt.want, got)
		}
	}
}
