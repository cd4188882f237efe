package service

import (
	"time"

	"github.com/finlens/finlens-backend/internal/analytics"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/util"
)

// DashboardService composes repository fetches and the aggregation pipeline
// into the dashboard summary. The reference date is always an explicit
// parameter; "now" lives in the handler.
type DashboardService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
) *DashboardService {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

// DashboardSummary is the composed dashboard payload
type DashboardSummary struct {
	Accounts     analytics.AccountSummary  `json:"accounts"`
	Report       analytics.PeriodReport    `json:"report"`
	Net          string                    `json:"net"`
	TotalBalance string                    `json:"totalBalance"`
	Year         int                       `json:"year"`
	Month        int                       `json:"month"`
	Recent       []*domain.Transaction     `json:"recent"`
}

// recentLimit caps the recent-transaction strip on the dashboard
const recentLimit = 5

// GetSummary returns the dashboard summary for the calendar month containing ref
func (s *DashboardService) GetSummary(userID int32, ref time.Time) (*DashboardSummary, error) {
	accounts, err := s.accountRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	// Fetch the reference month and the month before it in one range query
	start, end := util.ComparisonWindow(ref)
	transactions, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	accountSummary := analytics.SummarizeAccounts(accounts)
	report := analytics.BuildPeriodReport(transactions, ref)

	recent := transactions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	return &DashboardSummary{
		Accounts:     accountSummary,
		Report:       report,
		Net:          analytics.FormatCurrency(report.Current.Net()),
		TotalBalance: analytics.FormatCurrency(accountSummary.TotalBalance),
		Year:         ref.Year(),
		Month:        int(ref.Month()),
		Recent:       recent,
	}, nil
}

// GetCategoryBreakdown returns the expense category ranking for the calendar
// month containing ref
func (s *DashboardService) GetCategoryBreakdown(userID int32, ref time.Time) ([]analytics.CategoryBucket, error) {
	start, end := util.MonthWindow(ref)
	transactions, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	return analytics.RankCategories(transactions), nil
}
