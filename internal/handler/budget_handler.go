package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// BudgetHandler handles budget-related HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

// SetBudgetRequest represents the set budget request body
type SetBudgetRequest struct {
	Amount string `json:"amount"`
}

// GetBudget handles GET /api/v1/budget
func (h *BudgetHandler) GetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref, invalid := referenceDate(c)
	if invalid != nil {
		return NewValidationError(c, "Invalid reference date", []ValidationError{*invalid})
	}

	status, err := h.budgetService.GetBudgetStatus(userID, ref)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get budget")
		return NewInternalError(c, "Failed to get budget")
	}

	return c.JSON(http.StatusOK, status)
}

// SetBudget handles PUT /api/v1/budget
func (h *BudgetHandler) SetBudget(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref, invalid := referenceDate(c)
	if invalid != nil {
		return NewValidationError(c, "Invalid reference date", []ValidationError{*invalid})
	}

	var req SetBudgetRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	status, err := h.budgetService.SetBudget(userID, amount, ref)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Must be a positive number"},
			})
		}
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to set budget")
		return NewInternalError(c, "Failed to set budget")
	}

	return c.JSON(http.StatusOK, status)
}
