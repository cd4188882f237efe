package service

import (
	"time"

	"github.com/finlens/finlens-backend/internal/analytics"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/util"
)

// InsightService runs the rule-based insight pipeline over a user's
// transactions
type InsightService struct {
	transactionRepo domain.TransactionRepository
}

// NewInsightService creates a new InsightService
func NewInsightService(transactionRepo domain.TransactionRepository) *InsightService {
	return &InsightService{transactionRepo: transactionRepo}
}

// InsightResult bundles the generated insights with the report they were
// derived from
type InsightResult struct {
	Insights []analytics.Insight    `json:"insights"`
	Report   analytics.PeriodReport `json:"report"`
}

// GetInsights evaluates the insight rules for the calendar month containing
// ref and caps the list for display
func (s *InsightService) GetInsights(userID int32, ref time.Time) (*InsightResult, error) {
	start, end := util.ComparisonWindow(ref)
	transactions, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildPeriodReport(transactions, ref)
	insights := analytics.Evaluate(report)
	if len(insights) > analytics.MaxInsights {
		insights = insights[:analytics.MaxInsights]
	}

	return &InsightResult{Insights: insights, Report: report}, nil
}
