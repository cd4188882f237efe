package service

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/testutil"
)

func newBudgetService() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockTransactionRepository, *testutil.MockEventPublisher) {
	budgetRepo := testutil.NewMockBudgetRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewBudgetService(budgetRepo, transactionRepo, publisher), budgetRepo, transactionRepo, publisher
}

func addExpense(transactionRepo *testutil.MockTransactionRepository, amount int64, occurred time.Time) {
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 1, AccountID: 1, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(amount), Category: "misc",
		OccurredAt: occurred, Status: domain.TransactionStatusCompleted,
	})
}

func TestGetBudgetStatus_NoBudgetSet(t *testing.T) {
	budgetService, _, transactionRepo, _ := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	addExpense(transactionRepo, 300, ref)

	status, err := budgetService.GetBudgetStatus(1, ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status.Budget != nil {
		t.Error("Expected no budget")
	}
	if status.UsageOK {
		t.Error("Expected usage to be undefined without a budget")
	}
	if status.Spent.StringFixed(2) != "300.00" {
		t.Errorf("Expected spent 300.00, got %s", status.Spent.StringFixed(2))
	}
}

func TestSetBudget_ComputesUsage(t *testing.T) {
	budgetService, _, transactionRepo, publisher := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	addExpense(transactionRepo, 400, ref)

	status, err := budgetService.SetBudget(1, decimal.NewFromInt(1000), ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !status.UsageOK {
		t.Fatal("Expected usage to be defined")
	}
	if status.UsagePercent.StringFixed(2) != "40.00" {
		t.Errorf("Expected usage 40.00, got %s", status.UsagePercent.StringFixed(2))
	}
	if status.AlertTriggered {
		t.Error("Expected no alert at 40% usage")
	}
	if publisher.EventCount() != 0 {
		t.Errorf("Expected no alert event, got %d", publisher.EventCount())
	}
}

func TestSetBudget_AlertAtThreshold(t *testing.T) {
	budgetService, _, transactionRepo, publisher := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	addExpense(transactionRepo, 800, ref)

	status, err := budgetService.SetBudget(1, decimal.NewFromInt(1000), ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !status.AlertTriggered {
		t.Error("Expected alert at exactly 80% usage")
	}
	if publisher.EventCount() != 1 {
		t.Errorf("Expected 1 alert event, got %d", publisher.EventCount())
	}
	if publisher.LastEvent().Type != "budget.alert" {
		t.Errorf("Expected budget.alert event, got %s", publisher.LastEvent().Type)
	}
}

func TestSetBudget_IgnoresOtherMonths(t *testing.T) {
	budgetService, _, transactionRepo, _ := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	addExpense(transactionRepo, 800, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))

	status, err := budgetService.SetBudget(1, decimal.NewFromInt(1000), ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !status.Spent.IsZero() {
		t.Errorf("Expected zero spend for March, got %s", status.Spent.String())
	}
	if status.AlertTriggered {
		t.Error("Expected no alert")
	}
}

func TestGetBudgetStatus_MonthBoundaryIsHalfOpen(t *testing.T) {
	budgetService, budgetRepo, transactionRepo, _ := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	budgetRepo.Upsert(1, decimal.NewFromInt(1000))

	// Only the first-of-March posting counts: the window is [Mar 1, Apr 1),
	// so a transaction dated exactly April 1st belongs to April.
	addExpense(transactionRepo, 200, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	addExpense(transactionRepo, 900, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	addExpense(transactionRepo, 900, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))

	status, err := budgetService.GetBudgetStatus(1, ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status.Spent.StringFixed(2) != "200.00" {
		t.Errorf("Expected spent 200.00 for March, got %s", status.Spent.StringFixed(2))
	}
	if status.AlertTriggered {
		t.Error("Expected no alert from out-of-month postings")
	}
}

func TestSetBudget_RejectsNonPositiveAmount(t *testing.T) {
	budgetService, _, _, _ := newBudgetService()

	_, err := budgetService.SetBudget(1, decimal.Zero, time.Now())
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("Expected ErrInvalidAmount, got %v", err)
	}
}

func TestSetBudget_UpsertReplacesAmount(t *testing.T) {
	budgetService, budgetRepo, _, _ := newBudgetService()
	ref := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	budgetService.SetBudget(1, decimal.NewFromInt(500), ref)
	budgetService.SetBudget(1, decimal.NewFromInt(900), ref)

	budget, err := budgetRepo.GetByUser(1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if budget.Amount.StringFixed(2) != "900.00" {
		t.Errorf("Expected amount 900.00, got %s", budget.Amount.StringFixed(2))
	}
}
