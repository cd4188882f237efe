package domain

import "errors"

// Domain errors
var (
	ErrNotFound               = errors.New("resource not found")
	ErrAlreadyExists          = errors.New("resource already exists")
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInternalError          = errors.New("internal error")
	ErrUserNotFound           = errors.New("user not found")
	ErrAccountNotFound        = errors.New("account not found")
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrBudgetNotFound         = errors.New("budget not found")
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name exceeds maximum length")
	ErrCategoryRequired       = errors.New("category is required")
	ErrInvalidAccountType     = errors.New("invalid account type")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInvalidStatus          = errors.New("invalid transaction status")
	ErrInvalidInterval        = errors.New("invalid recurring interval")
	ErrTransactionImmutable   = errors.New("completed transactions cannot be modified")
	ErrAccountHasTransactions = errors.New("account still has transactions")
	ErrDescriptionTooLong     = errors.New("description exceeds maximum length")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxCategoryLength    = 100
	MaxDescriptionLength = 500
)
