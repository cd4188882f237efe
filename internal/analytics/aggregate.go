// Package analytics implements the financial aggregation core: account
// summaries, calendar-month period comparisons, category rankings, and
// rule-based insights. Every function is pure: inputs are already-fetched
// records plus an explicit reference date, outputs are plain values.
package analytics

import (
	"sort"
	"time"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AccountSummary holds cross-account aggregate stats
type AccountSummary struct {
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	Count         int             `json:"count"`
	CheckingCount int             `json:"checkingCount"`
	SavingsCount  int             `json:"savingsCount"`
}

// PeriodPartition splits transactions into the reference month and the
// immediately preceding calendar month
type PeriodPartition struct {
	Current  []*domain.Transaction
	Previous []*domain.Transaction
}

// PeriodTotals holds income and expense sums for one period.
// Skipped counts records excluded by validation (unknown type, negative amount).
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Skipped int             `json:"-"`
}

// Net returns income minus expense
func (t PeriodTotals) Net() decimal.Decimal {
	return t.Income.Sub(t.Expense)
}

// Change is a percentage value with an applicability flag. OK is false when
// the comparison base is zero; callers must render "n/a" instead of a number.
type Change struct {
	Value decimal.Decimal `json:"value"`
	OK    bool            `json:"ok"`
}

// NotApplicable is the sentinel for comparisons with a zero base
var NotApplicable = Change{}

// CategoryBucket is the aggregated expense total for one category label
type CategoryBucket struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// SummarizeAccounts computes cross-account totals. An empty slice yields zeros.
func SummarizeAccounts(accounts []*domain.Account) AccountSummary {
	summary := AccountSummary{TotalBalance: decimal.Zero}
	for _, account := range accounts {
		summary.TotalBalance = summary.TotalBalance.Add(account.Balance)
		summary.Count++
		switch account.Type {
		case domain.AccountTypeChecking:
			summary.CheckingCount++
		case domain.AccountTypeSavings:
			summary.SavingsCount++
		}
	}
	return summary
}

// PartitionByPeriod splits transactions by calendar month relative to ref.
// Current is the (year, month) of ref; Previous is the preceding month,
// rolling over the year boundary (January compares against December).
func PartitionByPeriod(transactions []*domain.Transaction, ref time.Time) PeriodPartition {
	curYear, curMonth := ref.Year(), ref.Month()
	prevYear, prevMonth := previousMonth(curYear, curMonth)

	var partition PeriodPartition
	for _, txn := range transactions {
		year, month := txn.OccurredAt.Year(), txn.OccurredAt.Month()
		switch {
		case year == curYear && month == curMonth:
			partition.Current = append(partition.Current, txn)
		case year == prevYear && month == prevMonth:
			partition.Previous = append(partition.Previous, txn)
		}
	}
	return partition
}

// previousMonth returns the year and month immediately before the given month
func previousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// TotalsByType sums amounts per transaction type. Records with an unknown
// type or a negative amount are data errors upstream of this component; they
// are excluded from the sums, counted in Skipped, and logged at warn level.
func TotalsByType(transactions []*domain.Transaction) PeriodTotals {
	totals := PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, txn := range transactions {
		if txn.Amount.IsNegative() {
			log.Warn().
				Int32("transaction_id", txn.ID).
				Str("amount", txn.Amount.String()).
				Msg("Skipping transaction with negative amount")
			totals.Skipped++
			continue
		}
		switch txn.Type {
		case domain.TransactionTypeIncome:
			totals.Income = totals.Income.Add(txn.Amount)
		case domain.TransactionTypeExpense:
			totals.Expense = totals.Expense.Add(txn.Amount)
		default:
			log.Warn().
				Int32("transaction_id", txn.ID).
				Str("type", string(txn.Type)).
				Msg("Skipping transaction with unknown type")
			totals.Skipped++
		}
	}
	return totals
}

// PercentChange computes (current-previous)/previous*100. When previous is
// zero there is no meaningful comparison and the sentinel is returned.
func PercentChange(current, previous decimal.Decimal) Change {
	if previous.IsZero() {
		return NotApplicable
	}
	change := current.Sub(previous).
		Div(previous).
		Mul(decimal.NewFromInt(100))
	return Change{Value: change, OK: true}
}

// SavingsRate computes (income-expense)/income as a percentage. Undefined
// (sentinel) when income is zero.
func SavingsRate(totals PeriodTotals) Change {
	if totals.Income.IsZero() {
		return NotApplicable
	}
	rate := totals.Income.Sub(totals.Expense).
		Div(totals.Income).
		Mul(decimal.NewFromInt(100))
	return Change{Value: rate, OK: true}
}

// RankCategories buckets expense transactions by category and ranks them by
// amount descending, ties broken by label ascending. Percentages are shares
// of the total expense in the same input. Invalid records are excluded under
// the same rules as TotalsByType.
func RankCategories(transactions []*domain.Transaction) []CategoryBucket {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, txn := range transactions {
		if txn.Type != domain.TransactionTypeExpense || txn.Amount.IsNegative() {
			continue
		}
		sums[txn.Category] = sums[txn.Category].Add(txn.Amount)
		total = total.Add(txn.Amount)
	}

	buckets := make([]CategoryBucket, 0, len(sums))
	for category, amount := range sums {
		bucket := CategoryBucket{Category: category, Amount: amount, Percentage: decimal.Zero}
		if !total.IsZero() {
			bucket.Percentage = amount.Div(total).Mul(decimal.NewFromInt(100))
		}
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		cmp := buckets[i].Amount.Cmp(buckets[j].Amount)
		if cmp != 0 {
			return cmp > 0
		}
		return buckets[i].Category < buckets[j].Category
	})
	return buckets
}

// PeriodReport is the combined output of one aggregation pass: totals for the
// reference month and the month before it, derived changes, and the expense
// category ranking for the reference month.
type PeriodReport struct {
	Current        PeriodTotals     `json:"current"`
	Previous       PeriodTotals     `json:"previous"`
	ExpenseChange  Change           `json:"expenseChange"`
	IncomeChange   Change           `json:"incomeChange"`
	SavingsRate    Change           `json:"savingsRate"`
	Categories     []CategoryBucket `json:"categories"`
	SkippedRecords int              `json:"skippedRecords"`
}

// BuildPeriodReport runs the full aggregation pipeline over a caller-scoped
// transaction list for the calendar month containing ref.
func BuildPeriodReport(transactions []*domain.Transaction, ref time.Time) PeriodReport {
	partition := PartitionByPeriod(transactions, ref)
	current := TotalsByType(partition.Current)
	previous := TotalsByType(partition.Previous)

	return PeriodReport{
		Current:        current,
		Previous:       previous,
		ExpenseChange:  PercentChange(current.Expense, previous.Expense),
		IncomeChange:   PercentChange(current.Income, previous.Income),
		SavingsRate:    SavingsRate(current),
		Categories:     RankCategories(partition.Current),
		SkippedRecords: current.Skipped + previous.Skipped,
	}
}
