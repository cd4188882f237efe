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

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	AccountID         int32   `json:"accountId"`
	Type              string  `json:"type"`
	Amount            string  `json:"amount"`
	Category          string  `json:"category"`
	Description       *string `json:"description,omitempty"`
	Date              string  `json:"date"`
	Status            string  `json:"status,omitempty"`
	IsRecurring       bool    `json:"isRecurring,omitempty"`
	RecurringInterval *string `json:"recurringInterval,omitempty"`
	ReceiptURL        *string `json:"receiptUrl,omitempty"`
}

// UpdateTransactionRequest represents the update transaction request body.
// Omitted fields are left unchanged.
type UpdateTransactionRequest struct {
	Amount      *string `json:"amount,omitempty"`
	Category    *string `json:"category,omitempty"`
	Description *string `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// BulkDeleteRequest represents the bulk delete request body
type BulkDeleteRequest struct {
	IDs []int32 `json:"ids"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                int32   `json:"id"`
	AccountID         int32   `json:"accountId"`
	Type              string  `json:"type"`
	Amount            string  `json:"amount"`
	Category          string  `json:"category"`
	Description       *string `json:"description,omitempty"`
	Date              string  `json:"date"`
	Status            string  `json:"status"`
	IsRecurring       bool    `json:"isRecurring"`
	RecurringInterval *string `json:"recurringInterval,omitempty"`
	NextRecurringDate *string `json:"nextRecurringDate,omitempty"`
	ReceiptURL        *string `json:"receiptUrl,omitempty"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         string  `json:"updatedAt"`
}

// PaginatedTransactionsResponse represents a page of transactions
type PaginatedTransactionsResponse struct {
	Data       []TransactionResponse `json:"data"`
	Page       int32                 `json:"page"`
	PageSize   int32                 `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int32                 `json:"totalPages"`
}

func toTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		Type:        string(t.Type),
		Amount:      t.Amount.StringFixed(2),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.OccurredAt.Format("2006-01-02"),
		Status:      string(t.Status),
		IsRecurring: t.IsRecurring,
		ReceiptURL:  t.ReceiptURL,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
	}
	if t.RecurringInterval != nil {
		interval := string(*t.RecurringInterval)
		resp.RecurringInterval = &interval
	}
	if t.NextRecurringDate != nil {
		next := t.NextRecurringDate.Format("2006-01-02")
		resp.NextRecurringDate = &next
	}
	return resp
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	occurredAt, err := parseDate(req.Date)
	if err != nil {
		return NewValidationError(c, "Invalid date", []ValidationError{
			{Field: "date", Message: "Must be YYYY-MM-DD or RFC3339"},
		})
	}

	input := service.CreateTransactionInput{
		AccountID:   req.AccountID,
		Type:        domain.TransactionType(req.Type),
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		OccurredAt:  occurredAt,
		Status:      domain.TransactionStatus(req.Status),
		IsRecurring: req.IsRecurring,
		ReceiptURL:  req.ReceiptURL,
	}
	if req.RecurringInterval != nil {
		interval := domain.RecurringInterval(*req.RecurringInterval)
		input.RecurringInterval = &interval
	}

	transaction, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		return h.mapTransactionError(c, userID, err, "Failed to create transaction")
	}

	return c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	filters := &domain.TransactionFilters{}

	if v := c.QueryParam("accountId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return NewValidationError(c, "Invalid accountId", nil)
		}
		accountID := int32(id)
		filters.AccountID = &accountID
	}
	if v := c.QueryParam("type"); v != "" {
		txType := domain.TransactionType(v)
		filters.Type = &txType
	}
	if v := c.QueryParam("status"); v != "" {
		status := domain.TransactionStatus(v)
		filters.Status = &status
	}
	if v := c.QueryParam("category"); v != "" {
		filters.Category = &v
	}
	if v := c.QueryParam("startDate"); v != "" {
		start, err := parseDate(v)
		if err != nil {
			return NewValidationError(c, "Invalid startDate", nil)
		}
		filters.StartDate = &start
	}
	if v := c.QueryParam("endDate"); v != "" {
		end, err := parseDate(v)
		if err != nil {
			return NewValidationError(c, "Invalid endDate", nil)
		}
		filters.EndDate = &end
	}
	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.ParseInt(v, 10, 32)
		if err != nil || page < 1 {
			return NewValidationError(c, "Invalid page", nil)
		}
		filters.Page = int32(page)
	}
	if v := c.QueryParam("pageSize"); v != "" {
		size, err := strconv.ParseInt(v, 10, 32)
		if err != nil || size < 1 {
			return NewValidationError(c, "Invalid pageSize", nil)
		}
		filters.PageSize = int32(size)
	}

	page, err := h.transactionService.GetTransactions(userID, filters)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	data := make([]TransactionResponse, 0, len(page.Data))
	for _, t := range page.Data {
		data = append(data, toTransactionResponse(t))
	}
	return c.JSON(http.StatusOK, PaginatedTransactionsResponse{
		Data:       data,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	})
}

// GetRecentCategories handles GET /api/v1/transactions/categories/recent
func (h *TransactionHandler) GetRecentCategories(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	limit := int32(10)
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 32)
		if err != nil || parsed < 1 {
			return NewValidationError(c, "Invalid limit", nil)
		}
		limit = int32(parsed)
	}

	categories, err := h.transactionService.GetRecentCategories(userID, limit)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get recent categories")
		return NewInternalError(c, "Failed to get recent categories")
	}

	return c.JSON(http.StatusOK, map[string][]string{"categories": categories})
}

// GetTransaction handles GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	transaction, err := h.transactionService.GetTransactionByID(userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("transaction_id", id).Msg("Failed to get transaction")
		return NewInternalError(c, "Failed to get transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// UpdateTransaction handles PUT /api/v1/transactions/:id
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	var req UpdateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateTransactionInput{
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		input.Amount = &amount
	}
	if req.Date != nil {
		occurredAt, err := parseDate(*req.Date)
		if err != nil {
			return NewValidationError(c, "Invalid date", []ValidationError{
				{Field: "date", Message: "Must be YYYY-MM-DD or RFC3339"},
			})
		}
		input.OccurredAt = &occurredAt
	}
	if req.Status != nil {
		status := domain.TransactionStatus(*req.Status)
		input.Status = &status
	}

	transaction, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		return h.mapTransactionError(c, userID, err, "Failed to update transaction")
	}

	return c.JSON(http.StatusOK, toTransactionResponse(transaction))
}

// DeleteTransaction handles DELETE /api/v1/transactions/:id
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := parseIDParam(c)
	if err != nil {
		return NewValidationError(c, "Invalid transaction ID", nil)
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, domain.ErrTransactionNotFound) {
			return NewNotFoundError(c, "Transaction not found")
		}
		log.Error().Err(err).Int32("user_id", userID).Int32("transaction_id", id).Msg("Failed to delete transaction")
		return NewInternalError(c, "Failed to delete transaction")
	}

	return c.NoContent(http.StatusNoContent)
}

// BulkDeleteTransactions handles POST /api/v1/transactions/bulk-delete
func (h *TransactionHandler) BulkDeleteTransactions(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req BulkDeleteRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	deleted, err := h.transactionService.BulkDeleteTransactions(userID, req.IDs)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "At least one transaction ID is required", []ValidationError{
				{Field: "ids", Message: "Must not be empty"},
			})
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to bulk delete transactions")
		return NewInternalError(c, "Failed to delete transactions")
	}

	return c.JSON(http.StatusOK, map[string]int64{"deleted": deleted})
}

// mapTransactionError translates service errors into problem responses
func (h *TransactionHandler) mapTransactionError(c echo.Context, userID int32, err error, fallback string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "type", Message: "Type must be one of: income, expense"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "amount", Message: "Must be a positive number"},
		})
	case errors.Is(err, domain.ErrCategoryRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Category must be 100 characters or less"},
		})
	case errors.Is(err, domain.ErrDescriptionTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "description", Message: "Description must be 500 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidStatus):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "status", Message: "Status must be one of: pending, completed"},
		})
	case errors.Is(err, domain.ErrInvalidInterval):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "recurringInterval", Message: "Interval must be one of: daily, weekly, monthly, yearly"},
		})
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFoundError(c, "Account not found")
	case errors.Is(err, domain.ErrTransactionNotFound):
		return NewNotFoundError(c, "Transaction not found")
	case errors.Is(err, domain.ErrTransactionImmutable):
		return NewConflictError(c, "Completed transactions cannot be modified")
	default:
		log.Error().Err(err).Int32("user_id", userID).Msg(fallback)
		return NewInternalError(c, fallback)
	}
}
