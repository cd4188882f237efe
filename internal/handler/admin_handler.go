package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// AdminHandler handles admin console HTTP requests
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// GetPlatformStats handles GET /api/v1/admin/stats (admin role required)
func (h *AdminHandler) GetPlatformStats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	stats, err := h.adminService.GetPlatformStats(time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to get platform stats")
		return NewInternalError(c, "Failed to get platform stats")
	}

	return c.JSON(http.StatusOK, stats)
}
