package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest represents the create account request body
type CreateAccountRequest struct {
	Name           string `json:"name"`
	Type           string `json:"type"`
	InitialBalance string `json:"initialBalance,omitempty"`
	IsDefault      bool   `json:"isDefault,omitempty"`
}

// UpdateAccountRequest represents the update account request body
type UpdateAccountRequest struct {
	Name string `json:"name"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        int32  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Balance   string `json:"balance"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Name:      account.Name,
		Type:      string(account.Type),
		Balance:   account.Balance.StringFixed(2),
		IsDefault: account.IsDefault,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
		UpdatedAt: account.UpdatedAt.Format(time.RFC3339),
	}
}

// AccountSummaryResponse represents the cross-account summary API response
type AccountSummaryResponse struct {
	TotalBalance  string `json:"totalBalance"`
	Count         int    `json:"count"`
	CheckingCount int    `json:"checkingCount"`
	SavingsCount  int    `json:"savingsCount"`
}

func parseIDParam(c echo.Context) (int32, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return int32(id), nil
}

// CreateAccount handles POST /api/v1/accounts
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	initialBalance := decimal.Zero
	if req.InitialBalance != "" {
		var err error
		initialBalance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return NewValidationError(c, "Invalid initial balance", []ValidationError{
				{Field: "initialBalance", Message: "Must be a valid decimal number"},
			})
		}
	}

	account, err := h.accountService.CreateAccount(userID, service.CreateAccountInput{
		Name:           req.Name,
		Type:           domain.AccountType(req.Type),
		InitialBalance: initialBalance,
		IsDefault:      req.IsDefault,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAccountType) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "type", Message: "Type must be one of: checking, savings"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "initialBalance", Message: "Must not be negative"},
			})
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to create account")
		return NewInternalError(c, "Failed to create account")
	}

	return c.JSON(http.StatusCreated, toAccountResponse(account))
}

// GetAccounts handles GET /api/v1/accounts
func (h *AccountHandler) GetAccounts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	accounts, err := h.accountService.GetAccounts(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get accounts")
		return NewInternalError(c, "Failed to get accounts")
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, toAccountResponse(account))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetAccountSummary handles GET /api/v1/accounts/summary
func (h *AccountHandler) GetAccountSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	summary, err := h.accountService.GetAccountSummary(userID)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get account summary")
		return NewInternalError(c, "Failed to get account summary")
	}

	return c.JSON(http.StatusOK, AccountSummaryResponse{
		TotalBalance:  summary.TotalBalance.StringFixed(2),
		Count:         summary.Count,
		CheckingCount: summary.CheckingCount,
		SavingsCount:  summary.SavingsCount,
	})
}

// GetAccountStats handles GET /api/v1/accounts/:id/stats
func (h *AccountHandler) GetAccountStats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	stats, err := h.accountService.GetAccountStats(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("account_id", id).Msg("Failed to get account stats")
		return NewInternalError(c, "Failed to get account stats")
	}

	return c.JSON(http.StatusOK, stats)
}

// UpdateAccount handles PUT /api/v1/accounts/:id
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	var req UpdateAccountRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	account, err := h.accountService.UpdateAccount(userID, id, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name must be 255 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("account_id", id).Msg("Failed to update account")
		return NewInternalError(c, "Failed to update account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// SetDefaultAccount handles PATCH /api/v1/accounts/:id/default
func (h *AccountHandler) SetDefaultAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	account, err := h.accountService.SetDefaultAccount(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("account_id", id).Msg("Failed to set default account")
		return NewInternalError(c, "Failed to set default account")
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount handles DELETE /api/v1/accounts/:id
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid account ID", nil)
	}

	if err := h.accountService.DeleteAccount(userID, id); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return NewNotFoundError(c, "Account not found")
		}
		if errors.Is(err, domain.ErrAccountHasTransactions) {
			return NewConflictError(c, "Account still has transactions")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("account_id", id).Msg("Failed to delete account")
		return NewInternalError(c, "Failed to delete account")
	}

	return c.NoContent(http.StatusNoContent)
}
