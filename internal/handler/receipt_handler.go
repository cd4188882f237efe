package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/finlens/finlens-backend/internal/middleware"
	"github.com/finlens/finlens-backend/internal/service"
)

// ReceiptHandler handles receipt scanning HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ScanReceipt handles POST /api/v1/receipts/scan (multipart upload, field
// "receipt"). Returns a draft transaction for user confirmation.
func (h *ReceiptHandler) ScanReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == 0 {
		return NewUnauthorizedError(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		return NewValidationError(c, "Receipt file is required", []ValidationError{
			{Field: "receipt", Message: "Multipart field 'receipt' is required"},
		})
	}
	if fileHeader.Size > service.MaxReceiptSize {
		return NewValidationError(c, service.ErrReceiptTooLarge.Error(), nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to open receipt upload")
		return NewInternalError(c, "Failed to read receipt")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Int32("user_id", userID).Msg("Failed to read receipt upload")
		return NewInternalError(c, "Failed to read receipt")
	}

	draft, err := h.receiptService.ScanReceipt(c.Request().Context(), userID, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReceiptTooLarge),
			errors.Is(err, service.ErrInvalidReceiptFormat),
			errors.Is(err, service.ErrReceiptTooSmall),
			errors.Is(err, service.ErrInvalidReceiptData):
			return NewValidationError(c, err.Error(), nil)
		case errors.Is(err, service.ErrUnreadableReceipt):
			return NewValidationError(c, "Could not read a receipt from this image. Try a clearer photo.", nil)
		case errors.Is(err, service.ErrScanningNotConfigured):
			return NewInternalError(c, "Receipt scanning is not available")
		default:
			log.Error().Err(err).Int32("user_id", userID).Msg("Failed to scan receipt")
			return NewInternalError(c, "Failed to scan receipt")
		}
	}

	return c.JSON(http.StatusOK, draft)
}
