package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a single monthly expense budget per user. The original product
// tracks one overall budget amount; per-category budgets are not modeled.
type Budget struct {
	ID        int32           `json:"id"`
	UserID    int32           `json:"userId"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BudgetAlertThreshold is the usage percentage at which an alert is raised
var BudgetAlertThreshold = decimal.NewFromInt(80)

type BudgetRepository interface {
	GetByUser(userID int32) (*Budget, error)
	Upsert(userID int32, amount decimal.Decimal) (*Budget, error)
}
