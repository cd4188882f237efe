package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// referenceDate resolves the optional year/month query params to an explicit
// reference date, defaulting to the current month. The aggregation layer
// never reads the clock itself. A non-nil ValidationError means the params
// were rejected.
func referenceDate(c echo.Context) (time.Time, *ValidationError) {
	now := time.Now().UTC()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.QueryParam("year"); yearStr != "" {
		parsedYear, err := strconv.Atoi(yearStr)
		if err != nil {
			return time.Time{}, &ValidationError{Field: "year", Message: "Must be a valid integer"}
		}
		if parsedYear < 2000 || parsedYear > 2100 {
			return time.Time{}, &ValidationError{Field: "year", Message: "Must be between 2000 and 2100"}
		}
		year = parsedYear
	}
	if monthStr := c.QueryParam("month"); monthStr != "" {
		parsedMonth, err := strconv.Atoi(monthStr)
		if err != nil {
			return time.Time{}, &ValidationError{Field: "month", Message: "Must be a valid integer"}
		}
		if parsedMonth < 1 || parsedMonth > 12 {
			return time.Time{}, &ValidationError{Field: "month", Message: "Must be between 1 and 12"}
		}
		month = parsedMonth
	}

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// GetSummary handles GET /api/v1/dashboard/summary
// Accepts optional year and month query params for historical navigation
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref, invalid := referenceDate(c)
	if invalid != nil {
		return NewValidationError(c, "Invalid reference date", []ValidationError{*invalid})
	}

	summary, err := h.dashboardService.GetSummary(userID, ref)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Time("ref", ref).Msg("Failed to get dashboard summary")
		return NewInternalError(c, "Failed to get dashboard summary")
	}

	return c.JSON(http.StatusOK, summary)
}

// GetCategoryBreakdown handles GET /api/v1/dashboard/categories
func (h *DashboardHandler) GetCategoryBreakdown(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	ref, invalid := referenceDate(c)
	if invalid != nil {
		return NewValidationError(c, "Invalid reference date", []ValidationError{*invalid})
	}

	buckets, err := h.dashboardService.GetCategoryBreakdown(userID, ref)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Time("ref", ref).Msg("Failed to get category breakdown")
		return NewInternalError(c, "Failed to get category breakdown")
	}

	return c.JSON(http.StatusOK, buckets)
}
