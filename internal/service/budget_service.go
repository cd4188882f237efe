package service

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/analytics"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/util"
	"github.com/finlens/finlens-backend/internal/websocket"
)

// BudgetService handles the per-user monthly expense budget
type BudgetService struct {
	budgetRepo      domain.BudgetRepository
	transactionRepo domain.TransactionRepository
	publisher       websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	transactionRepo domain.TransactionRepository,
	publisher websocket.EventPublisher,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		publisher:       publisher,
	}
}

// BudgetStatus is the budget with its usage for the reference month.
// UsageOK is false when no budget amount is set (usage is undefined).
type BudgetStatus struct {
	Budget         *domain.Budget  `json:"budget,omitempty"`
	Spent          decimal.Decimal `json:"spent"`
	UsagePercent   decimal.Decimal `json:"usagePercent"`
	UsageOK        bool            `json:"usageOk"`
	AlertTriggered bool            `json:"alertTriggered"`
}

// GetBudgetStatus returns the budget and its usage for the calendar month
// containing ref. A missing budget is not an error; usage is flagged
// undefined instead.
func (s *BudgetService) GetBudgetStatus(userID int32, ref time.Time) (*BudgetStatus, error) {
	start, end := util.MonthWindow(ref)
	transactions, err := s.transactionRepo.GetByDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	spent := analytics.TotalsByType(transactions).Expense

	status := &BudgetStatus{Spent: spent, UsagePercent: decimal.Zero}

	budget, err := s.budgetRepo.GetByUser(userID)
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return status, nil
		}
		return nil, err
	}

	status.Budget = budget
	if budget.Amount.IsPositive() {
		status.UsagePercent = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100))
		status.UsageOK = true
		status.AlertTriggered = status.UsagePercent.GreaterThanOrEqual(domain.BudgetAlertThreshold)
	}

	return status, nil
}

// SetBudget creates or replaces the user's monthly budget amount. Crossing
// the alert threshold is surfaced immediately on the status check that
// follows a write, and pushed to connected clients.
func (s *BudgetService) SetBudget(userID int32, amount decimal.Decimal, ref time.Time) (*BudgetStatus, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	if _, err := s.budgetRepo.Upsert(userID, amount); err != nil {
		return nil, err
	}

	status, err := s.GetBudgetStatus(userID, ref)
	if err != nil {
		return nil, err
	}

	if status.AlertTriggered {
		s.publisher.Publish(userID, websocket.BudgetAlert(status))
	}

	return status, nil
}
