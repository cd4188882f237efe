package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type InsightKind string

const (
	InsightWarning InsightKind = "warning"
	InsightSuccess InsightKind = "success"
	InsightInfo    InsightKind = "info"
)

// Insight is a rule-triggered observation derived from aggregated totals.
// Confidence values are fixed per-rule constants, not computed; they exist
// for display and must not be read as statistical measures.
type Insight struct {
	Kind       InsightKind `json:"kind"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Impact     string      `json:"impact"`
	Category   string      `json:"category"`
	Action     string      `json:"action"`
	Confidence int         `json:"confidence"`
}

// Rule thresholds, percentages
var (
	expenseIncreaseThreshold = decimal.NewFromInt(15)
	expenseDecreaseThreshold = decimal.NewFromInt(-10)
	incomeGrowthThreshold    = decimal.NewFromInt(5)
	categoryShareThreshold   = decimal.NewFromInt(30)
	savingsRateHighThreshold = decimal.NewFromInt(20)
	savingsRateLowThreshold  = decimal.NewFromInt(5)
)

// Per-rule confidence constants
const (
	confExpenseIncrease = 92
	confExpenseDecrease = 94
	confIncomeGrowth    = 89
	confTopCategory     = 87
	confSavingsHigh     = 96
	confSavingsLow      = 91
)

// MaxInsights is the display cap applied by callers
const MaxInsights = 4

// Evaluate applies the fixed insight rules to a period report. Rules run
// independently and in a fixed order, so identical inputs always produce the
// same list in the same order. The list is not capped here.
func Evaluate(report PeriodReport) []Insight {
	var insights []Insight

	// Rule 1: expense change vs previous month. Requires a nonzero base, and
	// the increase/decrease branches are mutually exclusive.
	if report.ExpenseChange.OK {
		diff := report.Current.Expense.Sub(report.Previous.Expense)
		if report.ExpenseChange.Value.GreaterThan(expenseIncreaseThreshold) {
			insights = append(insights, Insight{
				Kind:  InsightWarning,
				Title: "Increased Spending Detected",
				Message: fmt.Sprintf("Your expenses increased by %s compared to last month. Consider reviewing your spending habits.",
					FormatPercent(report.ExpenseChange.Value)),
				Impact:     fmt.Sprintf("-%s more spent", FormatCurrency(diff.Abs())),
				Category:   "Spending",
				Action:     "Review Budget",
				Confidence: confExpenseIncrease,
			})
		} else if report.ExpenseChange.Value.LessThan(expenseDecreaseThreshold) {
			insights = append(insights, Insight{
				Kind:  InsightSuccess,
				Title: "Great Job Reducing Expenses",
				Message: fmt.Sprintf("You've reduced your expenses by %s this month. Keep up the excellent work!",
					FormatPercent(report.ExpenseChange.Value.Abs())),
				Impact:     fmt.Sprintf("+%s saved", FormatCurrency(diff.Abs())),
				Category:   "Savings",
				Action:     "Maintain Trend",
				Confidence: confExpenseDecrease,
			})
		}
	}

	// Rule 2: income growth vs previous month
	if report.IncomeChange.OK && report.IncomeChange.Value.GreaterThan(incomeGrowthThreshold) {
		diff := report.Current.Income.Sub(report.Previous.Income)
		insights = append(insights, Insight{
			Kind:  InsightSuccess,
			Title: "Income Growth Detected",
			Message: fmt.Sprintf("Your income increased by %s this month. Great progress!",
				FormatPercent(report.IncomeChange.Value)),
			Impact:     fmt.Sprintf("+%s extra income", FormatCurrency(diff.Abs())),
			Category:   "Income",
			Action:     "Consider Investing",
			Confidence: confIncomeGrowth,
		})
	}

	// Rule 3: top category concentration
	if len(report.Categories) > 0 {
		top := report.Categories[0]
		if top.Percentage.GreaterThan(categoryShareThreshold) {
			insights = append(insights, Insight{
				Kind:  InsightInfo,
				Title: fmt.Sprintf("High %s Spending", top.Category),
				Message: fmt.Sprintf("%s represents %s of your total expenses (%s). Consider optimizing this category.",
					top.Category, FormatPercent(top.Percentage), FormatCurrency(top.Amount)),
				Impact:     fmt.Sprintf("%s spent on %s", FormatCurrency(top.Amount), top.Category),
				Category:   top.Category,
				Action:     "Optimize Category",
				Confidence: confTopCategory,
			})
		}
	}

	// Rule 4: savings rate, requires nonzero income
	if report.SavingsRate.OK {
		saved := report.Current.Net()
		if report.SavingsRate.Value.GreaterThan(savingsRateHighThreshold) {
			insights = append(insights, Insight{
				Kind:  InsightSuccess,
				Title: "Excellent Savings Rate",
				Message: fmt.Sprintf("You're saving %s of your income this month. You're on track for financial success!",
					FormatPercent(report.SavingsRate.Value)),
				Impact:     fmt.Sprintf("%s saved", FormatCurrency(saved.Abs())),
				Category:   "Savings",
				Action:     "Set Higher Goal",
				Confidence: confSavingsHigh,
			})
		} else if report.SavingsRate.Value.LessThan(savingsRateLowThreshold) {
			impact := fmt.Sprintf("Only %s saved", FormatCurrency(saved.Abs()))
			if saved.IsNegative() {
				impact = fmt.Sprintf("Overspent by %s", FormatCurrency(saved.Abs()))
			}
			insights = append(insights, Insight{
				Kind:  InsightWarning,
				Title: "Low Savings Rate",
				Message: fmt.Sprintf("Your savings rate is only %s of your income. Consider reducing expenses or increasing income.",
					FormatPercent(report.SavingsRate.Value)),
				Impact:     impact,
				Category:   "Savings",
				Action:     "Improve Budget",
				Confidence: confSavingsLow,
			})
		}
	}

	return insights
}
