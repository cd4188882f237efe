package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// InsightHandler handles insight-related HTTP requests
type InsightHandler struct {
	insightService *service.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService *service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsights handles GET /api/v1/insights
// Accepts optional year and month query params like the dashboard
func (h *InsightHandler) GetInsights(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref, invalid := referenceDate(c)
	if invalid != nil {
		return NewValidationError(c, "Invalid reference date", []ValidationError{*invalid})
	}

	result, err := h.insightService.GetInsights(userID, ref)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Time("ref", ref).Msg("Failed to get insights")
		return NewInternalError(c, "Failed to get insights")
	}

	return c.JSON(http.StatusOK, result)
}
