package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
)

type RecurringInterval string

const (
	RecurringDaily   RecurringInterval = "daily"
	RecurringWeekly  RecurringInterval = "weekly"
	RecurringMonthly RecurringInterval = "monthly"
	RecurringYearly  RecurringInterval = "yearly"
)

// ValidRecurringIntervals lists the recognized recurring intervals
var ValidRecurringIntervals = map[RecurringInterval]bool{
	RecurringDaily:   true,
	RecurringWeekly:  true,
	RecurringMonthly: true,
	RecurringYearly:  true,
}

type Transaction struct {
	ID                int32              `json:"id"`
	UserID            int32              `json:"userId"`
	AccountID         int32              `json:"accountId"`
	Type              TransactionType    `json:"type"`
	Amount            decimal.Decimal    `json:"amount"`
	Category          string             `json:"category"`
	Description       *string            `json:"description,omitempty"`
	OccurredAt        time.Time          `json:"occurredAt"`
	Status            TransactionStatus  `json:"status"`
	IsRecurring       bool               `json:"isRecurring"`
	RecurringInterval *RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time         `json:"nextRecurringDate,omitempty"`
	ReceiptURL        *string            `json:"receiptUrl,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

// TransactionFilters narrows GetByUser listings. StartDate and EndDate are
// inclusive day bounds, unlike GetByDateRange's half-open [start, end) window.
type TransactionFilters struct {
	AccountID *int32
	StartDate *time.Time
	EndDate   *time.Time
	Type      *TransactionType
	Status    *TransactionStatus
	Category  *string
	Page      int32
	PageSize  int32
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginatedTransactions struct {
	Data       []*Transaction `json:"data"`
	Page       int32          `json:"page"`
	PageSize   int32          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int32          `json:"totalPages"`
}

type TransactionRepository interface {
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(userID int32, id int32) (*Transaction, error)
	GetAllByUser(userID int32) ([]*Transaction, error)
	GetByUser(userID int32, filters *TransactionFilters) (*PaginatedTransactions, error)
	GetByDateRange(userID int32, start, end time.Time) ([]*Transaction, error)
	Update(transaction *Transaction) (*Transaction, error)
	Delete(userID int32, id int32) error
	BulkDelete(userID int32, ids []int32) (int64, error)
	GetRecentCategories(userID int32, limit int32) ([]string, error)
	CountAll() (int64, error)
	SumVolume() (decimal.Decimal, error)
	CountReceiptScans() (int64, error)
}
