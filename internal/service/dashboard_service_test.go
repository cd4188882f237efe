package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/testutil"
)

func seedDashboardData(accountRepo *testutil.MockAccountRepository, transactionRepo *testutil.MockTransactionRepository) {
	accountRepo.AddAccount(&domain.Account{
		UserID: 1, Name: "Checking", Type: domain.AccountTypeChecking,
		Balance: decimal.NewFromInt(1000),
	})
	accountRepo.AddAccount(&domain.Account{
		UserID: 1, Name: "Savings", Type: domain.AccountTypeSavings,
		Balance: decimal.NewFromInt(500),
	})

	// Reference month: March 2025. Previous: February 2025.
	add := func(txType domain.TransactionType, amount int64, category string, occurred time.Time) {
		transactionRepo.AddTransaction(&domain.Transaction{
			UserID: 1, AccountID: 1, Type: txType,
			Amount: decimal.NewFromInt(amount), Category: category,
			OccurredAt: occurred, Status: domain.TransactionStatusCompleted,
		})
	}
	add(domain.TransactionTypeIncome, 2000, "salary", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	add(domain.TransactionTypeExpense, 400, "food", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	add(domain.TransactionTypeExpense, 100, "transport", time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))
	add(domain.TransactionTypeIncome, 2000, "salary", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	add(domain.TransactionTypeExpense, 1000, "food", time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC))
	// Outside both months, must be ignored
	add(domain.TransactionTypeExpense, 9999, "travel", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC))
}

func TestGetSummary(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	seedDashboardData(accountRepo, transactionRepo)
	dashboardService := NewDashboardService(accountRepo, transactionRepo)

	ref := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	summary, err := dashboardService.GetSummary(1, ref)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.Accounts.Count != 2 {
		t.Errorf("Expected 2 accounts, got %d", summary.Accounts.Count)
	}
	if summary.TotalBalance != "$1500.00" {
		t.Errorf("Expected total balance $1500.00, got %s", summary.TotalBalance)
	}
	if summary.Report.Current.Expense.StringFixed(2) != "500.00" {
		t.Errorf("Expected current expense 500.00, got %s", summary.Report.Current.Expense.StringFixed(2))
	}
	if summary.Report.Previous.Expense.StringFixed(2) != "1000.00" {
		t.Errorf("Expected previous expense 1000.00, got %s", summary.Report.Previous.Expense.StringFixed(2))
	}
	if !summary.Report.ExpenseChange.OK || summary.Report.ExpenseChange.Value.StringFixed(2) != "-50.00" {
		t.Errorf("Expected expense change -50.00, got %+v", summary.Report.ExpenseChange)
	}
	if summary.Net != "$1500.00" {
		t.Errorf("Expected net $1500.00, got %s", summary.Net)
	}
	if summary.Year != 2025 || summary.Month != 3 {
		t.Errorf("Expected 2025-03, got %d-%d", summary.Year, summary.Month)
	}
}

func TestGetSummary_EmptyState(t *testing.T) {
	dashboardService := NewDashboardService(testutil.NewMockAccountRepository(), testutil.NewMockTransactionRepository())

	summary, err := dashboardService.GetSummary(1, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Accounts.Count != 0 {
		t.Errorf("Expected 0 accounts, got %d", summary.Accounts.Count)
	}
	if summary.TotalBalance != "$0.00" {
		t.Errorf("Expected total balance $0.00, got %s", summary.TotalBalance)
	}
	if summary.Report.ExpenseChange.OK {
		t.Error("Expected expense change to be not applicable")
	}
	if len(summary.Report.Categories) != 0 {
		t.Errorf("Expected no categories, got %d", len(summary.Report.Categories))
	}
}

func TestGetSummary_JanuaryComparesAgainstDecember(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 1, AccountID: 1, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(100), Category: "food",
		OccurredAt: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		Status:     domain.TransactionStatusCompleted,
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 1, AccountID: 1, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(200), Category: "food",
		OccurredAt: time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC),
		Status:     domain.TransactionStatusCompleted,
	})
	dashboardService := NewDashboardService(accountRepo, transactionRepo)

	summary, err := dashboardService.GetSummary(1, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summary.Report.Previous.Expense.StringFixed(2) != "200.00" {
		t.Errorf("Expected December expense 200.00, got %s", summary.Report.Previous.Expense.StringFixed(2))
	}
	if !summary.Report.ExpenseChange.OK || summary.Report.ExpenseChange.Value.StringFixed(2) != "-50.00" {
		t.Errorf("Expected expense change -50.00, got %+v", summary.Report.ExpenseChange)
	}
}

func TestGetCategoryBreakdown(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	seedDashboardData(accountRepo, transactionRepo)
	dashboardService := NewDashboardService(accountRepo, transactionRepo)

	buckets, err := dashboardService.GetCategoryBreakdown(1, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Category != "food" || buckets[0].Amount.StringFixed(2) != "400.00" {
		t.Errorf("Expected food 400.00 first, got %s %s", buckets[0].Category, buckets[0].Amount.StringFixed(2))
	}
	if buckets[0].Percentage.StringFixed(0) != "80" {
		t.Errorf("Expected food share 80%%, got %s", buckets[0].Percentage.StringFixed(0))
	}
}

func TestGetCategoryBreakdown_ExcludesFirstOfNextMonth(t *testing.T) {
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	seedDashboardData(accountRepo, transactionRepo)
	// A recurring posting landing on April 1st must not count toward March:
	// the month window is half-open [Mar 1, Apr 1).
	transactionRepo.AddTransaction(&domain.Transaction{
		UserID: 1, AccountID: 1, Type: domain.TransactionTypeExpense,
		Amount: decimal.NewFromInt(5000), Category: "rent",
		OccurredAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:     domain.TransactionStatusCompleted,
	})
	dashboardService := NewDashboardService(accountRepo, transactionRepo)

	buckets, err := dashboardService.GetCategoryBreakdown(1, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	for _, bucket := range buckets {
		if bucket.Category == "rent" {
			t.Fatalf("Expected April posting to be excluded, got bucket %s %s", bucket.Category, bucket.Amount.String())
		}
	}
	if len(buckets) != 2 {
		t.Errorf("Expected 2 buckets, got %d", len(buckets))
	}
}
