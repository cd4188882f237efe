package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking AccountType = "checking"
	AccountTypeSavings  AccountType = "savings"
)

// ValidAccountTypes lists the recognized account types
var ValidAccountTypes = map[AccountType]bool{
	AccountTypeChecking: true,
	AccountTypeSavings:  true,
}

type Account struct {
	ID        int32           `json:"id"`
	UserID    int32           `json:"userId"`
	Name      string          `json:"name"`
	Type      AccountType     `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *time.Time      `json:"deletedAt,omitempty"`
}

type AccountRepository interface {
	Create(account *Account) (*Account, error)
	GetByID(userID int32, id int32) (*Account, error)
	GetAllByUser(userID int32) ([]*Account, error)
	Update(userID int32, id int32, name string) (*Account, error)
	// SetDefault marks the account as the user's default, clearing the flag
	// on every other account in the same statement so at most one is set.
	SetDefault(userID int32, id int32) (*Account, error)
	AdjustBalance(userID int32, id int32, delta decimal.Decimal) (*Account, error)
	SoftDelete(userID int32, id int32) error
	CountTransactions(userID int32, id int32) (int64, error)
}
