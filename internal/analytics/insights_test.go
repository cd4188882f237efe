package analytics

import (
	"testing"
	"time"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportFor(currentIncome, currentExpense, prevIncome, prevExpense int64, categories ...CategoryBucket) PeriodReport {
	current := PeriodTotals{Income: decimal.NewFromInt(currentIncome), Expense: decimal.NewFromInt(currentExpense)}
	previous := PeriodTotals{Income: decimal.NewFromInt(prevIncome), Expense: decimal.NewFromInt(prevExpense)}
	return PeriodReport{
		Current:       current,
		Previous:      previous,
		ExpenseChange: PercentChange(current.Expense, previous.Expense),
		IncomeChange:  PercentChange(current.Income, previous.Income),
		SavingsRate:   SavingsRate(current),
		Categories:    categories,
	}
}

func TestEvaluate_ExpenseIncreaseWarning(t *testing.T) {
	report := reportFor(0, 1500, 0, 1000)

	insights := Evaluate(report)

	require.Len(t, insights, 1)
	assert.Equal(t, InsightWarning, insights[0].Kind)
	assert.Equal(t, "Increased Spending Detected", insights[0].Title)
	assert.Equal(t, 92, insights[0].Confidence)
	assert.Contains(t, insights[0].Message, "50%")
	assert.Equal(t, "-$500.00 more spent", insights[0].Impact)
}

func TestEvaluate_ExpenseDecreaseSuccess(t *testing.T) {
	report := reportFor(0, 800, 0, 1000)

	insights := Evaluate(report)

	require.Len(t, insights, 1)
	assert.Equal(t, InsightSuccess, insights[0].Kind)
	assert.Equal(t, "Great Job Reducing Expenses", insights[0].Title)
	assert.Equal(t, 94, insights[0].Confidence)
}

func TestEvaluate_ExpenseRuleBranchesAreExclusive(t *testing.T) {
	// A change between -10% and +15% fires neither branch
	report := reportFor(0, 1050, 0, 1000)
	assert.Empty(t, Evaluate(report))

	// No previous expense: rule cannot fire at all
	report = reportFor(0, 1500, 0, 0)
	assert.Empty(t, Evaluate(report))
}

func TestEvaluate_IncomeGrowth(t *testing.T) {
	report := reportFor(2200, 2000, 2000, 2000)

	insights := Evaluate(report)

	require.Len(t, insights, 1)
	assert.Equal(t, "Income Growth Detected", insights[0].Title)
	assert.Equal(t, 89, insights[0].Confidence)
	assert.Equal(t, "+$200.00 extra income", insights[0].Impact)
}

func TestEvaluate_TopCategoryConcentration(t *testing.T) {
	report := reportFor(0, 1500, 0, 1500,
		CategoryBucket{Category: "Food", Amount: decimal.NewFromInt(1200), Percentage: decimal.NewFromInt(80)},
		CategoryBucket{Category: "Transport", Amount: decimal.NewFromInt(300), Percentage: decimal.NewFromInt(20)},
	)

	insights := Evaluate(report)

	require.Len(t, insights, 1)
	assert.Equal(t, InsightInfo, insights[0].Kind)
	assert.Equal(t, "High Food Spending", insights[0].Title)
	assert.Equal(t, "Food", insights[0].Category)
	assert.Equal(t, 87, insights[0].Confidence)
	assert.Contains(t, insights[0].Message, "80%")
}

func TestEvaluate_SavingsRate(t *testing.T) {
	// 25% savings rate fires the success rule
	report := reportFor(2000, 1500, 2000, 1500)
	insights := Evaluate(report)
	require.Len(t, insights, 1)
	assert.Equal(t, "Excellent Savings Rate", insights[0].Title)
	assert.Equal(t, 96, insights[0].Confidence)

	// 2% savings rate fires the warning
	report = reportFor(1000, 980, 1000, 980)
	insights = Evaluate(report)
	require.Len(t, insights, 1)
	assert.Equal(t, "Low Savings Rate", insights[0].Title)
	assert.Equal(t, 91, insights[0].Confidence)
	assert.Equal(t, "Only $20.00 saved", insights[0].Impact)

	// Overspending renders the overspent impact
	report = reportFor(1000, 1200, 1000, 1200)
	insights = Evaluate(report)
	require.Len(t, insights, 1)
	assert.Equal(t, "Overspent by $200.00", insights[0].Impact)

	// Zero income: rule cannot fire
	report = reportFor(0, 0, 0, 0)
	assert.Empty(t, Evaluate(report))
}

func TestEvaluate_RulesAreIndependent(t *testing.T) {
	// This month: expense 1500 vs 1000 (+50%), income 2000 vs 1800 (+11%),
	// Food at 80% of expenses, savings rate 25%. All four rules fire, in order.
	report := reportFor(2000, 1500, 1800, 1000,
		CategoryBucket{Category: "Food", Amount: decimal.NewFromInt(1200), Percentage: decimal.NewFromInt(80)},
	)

	insights := Evaluate(report)

	require.Len(t, insights, 4)
	assert.Equal(t, "Increased Spending Detected", insights[0].Title)
	assert.Equal(t, "Income Growth Detected", insights[1].Title)
	assert.Equal(t, "High Food Spending", insights[2].Title)
	assert.Equal(t, "Excellent Savings Rate", insights[3].Title)
}

func TestEvaluate_Deterministic(t *testing.T) {
	ref := time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC)
	thisMonth := time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.June, 3, 0, 0, 0, 0, time.UTC)
	transactions := []*domain.Transaction{
		txn(1, domain.TransactionTypeExpense, "900", "Food", thisMonth),
		txn(2, domain.TransactionTypeExpense, "600", "Transport", thisMonth),
		txn(3, domain.TransactionTypeIncome, "2000", "Salary", thisMonth),
		txn(4, domain.TransactionTypeExpense, "1000", "Food", lastMonth),
		txn(5, domain.TransactionTypeIncome, "1800", "Salary", lastMonth),
	}

	first := Evaluate(BuildPeriodReport(transactions, ref))
	for i := 0; i < 10; i++ {
		again := Evaluate(BuildPeriodReport(transactions, ref))
		assert.Equal(t, first, again)
	}
}
