package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/ai"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/repository/storage"
	"github.com/finlens/finlens-backend/internal/websocket"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	MaxReceiptWidth  = 1600
	JPEGQuality      = 85

	// Presigned receipt links are short-lived; the frontend refetches on expiry
	ReceiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge       = errors.New("file too large. Maximum size is 5MB")
	ErrInvalidReceiptFormat  = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall       = errors.New("image too small. Minimum 50x50 pixels")
	ErrInvalidReceiptData    = errors.New("invalid image data")
	ErrUnreadableReceipt     = errors.New("could not read a receipt from this image")
	ErrScanningNotConfigured = errors.New("receipt scanning not configured")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptService validates and stores receipt images and extracts draft
// transactions from them
type ReceiptService struct {
	storage   storage.ReceiptRepository
	scanner   ai.ReceiptScanner
	publisher websocket.EventPublisher
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(
	storage storage.ReceiptRepository,
	scanner ai.ReceiptScanner,
	publisher websocket.EventPublisher,
) *ReceiptService {
	return &ReceiptService{
		storage:   storage,
		scanner:   scanner,
		publisher: publisher,
	}
}

// IsEnabled indicates whether scanning is supported (scanner and storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.scanner != nil && s.storage != nil
}

// DraftTransaction is a scanned receipt turned into a transaction proposal
// awaiting user confirmation
type DraftTransaction struct {
	Type        domain.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Merchant    string                 `json:"merchant"`
	OccurredAt  time.Time              `json:"occurredAt"`
	ReceiptURL  string                 `json:"receiptUrl"`
	ObjectPath  string                 `json:"objectPath"`
}

// validateAndDecode validates the receipt image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrInvalidReceiptFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidReceiptData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// normalize re-encodes the receipt as JPEG, downscaling oversized images.
// Normalized bytes are what gets stored and sent to the model.
func normalize(img image.Image) ([]byte, error) {
	if img.Bounds().Dx() > MaxReceiptWidth {
		img = imaging.Resize(img, MaxReceiptWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// ScanReceipt validates, stores, and scans a receipt image, returning a
// draft expense transaction for user confirmation
func (s *ReceiptService) ScanReceipt(ctx context.Context, userID int32, data []byte, filename string) (*DraftTransaction, error) {
	if !s.IsEnabled() {
		return nil, ErrScanningNotConfigured
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	normalized, err := normalize(img)
	if err != nil {
		return nil, err
	}

	objectPath := storage.GenerateObjectPath(userID, ".jpg")
	if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(normalized), "image/jpeg", int64(len(normalized))); err != nil {
		return nil, fmt.Errorf("failed to store receipt: %w", err)
	}

	result, err := s.scanner.ScanReceipt(ctx, normalized, "image/jpeg")
	if err != nil {
		// The stored image is useless without an extraction
		if delErr := s.storage.Delete(ctx, objectPath); delErr != nil {
			log.Warn().Err(delErr).Str("object_path", objectPath).Msg("Failed to clean up receipt after scan error")
		}
		return nil, err
	}
	if result.IsEmpty() {
		if delErr := s.storage.Delete(ctx, objectPath); delErr != nil {
			log.Warn().Err(delErr).Str("object_path", objectPath).Msg("Failed to clean up unreadable receipt")
		}
		return nil, ErrUnreadableReceipt
	}

	url, err := s.storage.GeneratePresignedURL(ctx, objectPath, ReceiptURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate receipt URL: %w", err)
	}

	draft := &DraftTransaction{
		Type:        domain.TransactionTypeExpense,
		Amount:      result.Amount,
		Category:    result.Category,
		Description: result.Description,
		Merchant:    result.MerchantName,
		OccurredAt:  parseReceiptDate(result.Date),
		ReceiptURL:  url,
		ObjectPath:  objectPath,
	}

	s.publisher.Publish(userID, websocket.ReceiptScanned(draft))
	return draft, nil
}

// parseReceiptDate is lenient about the model's date formats, falling back
// to today in UTC
func parseReceiptDate(value string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "01/02/2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now().UTC().Truncate(24 * time.Hour)
}
