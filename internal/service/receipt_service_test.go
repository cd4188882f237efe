package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/ai"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/testutil"
)

func createTestImage(width, height int, format string) ([]byte, string) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	switch format {
	case "png":
		png.Encode(&buf, img)
		return buf.Bytes(), "receipt.png"
	default:
		jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85})
		return buf.Bytes(), "receipt.jpg"
	}
}

func newReceiptService(scanner ai.ReceiptScanner) (*ReceiptService, *testutil.MockReceiptRepository, *testutil.MockEventPublisher) {
	store := testutil.NewMockReceiptRepository()
	publisher := testutil.NewMockEventPublisher()
	return NewReceiptService(store, scanner, publisher), store, publisher
}

func scannedReceipt() *ai.ReceiptData {
	return &ai.ReceiptData{
		Amount:       decimal.NewFromFloat(23.45),
		Date:         "2025-03-10",
		Description:  "Groceries",
		MerchantName: "Local Market",
		Category:     "groceries",
	}
}

func TestScanReceipt_ReturnsDraft(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Result: scannedReceipt()}
	receiptService, store, publisher := newReceiptService(scanner)

	data, filename := createTestImage(200, 300, "jpeg")
	draft, err := receiptService.ScanReceipt(context.Background(), 1, data, filename)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if draft.Type != domain.TransactionTypeExpense {
		t.Errorf("Expected expense draft, got %s", draft.Type)
	}
	if draft.Amount.StringFixed(2) != "23.45" {
		t.Errorf("Expected amount 23.45, got %s", draft.Amount.StringFixed(2))
	}
	if draft.Merchant != "Local Market" {
		t.Errorf("Expected merchant 'Local Market', got %s", draft.Merchant)
	}
	if draft.OccurredAt.Format("2006-01-02") != "2025-03-10" {
		t.Errorf("Expected date 2025-03-10, got %s", draft.OccurredAt.Format("2006-01-02"))
	}
	if len(store.Objects) != 1 {
		t.Errorf("Expected 1 stored object, got %d", len(store.Objects))
	}
	if draft.ReceiptURL == "" {
		t.Error("Expected a presigned receipt URL")
	}
	if publisher.EventCount() != 1 || publisher.LastEvent().Type != "receipt.scanned" {
		t.Errorf("Expected receipt.scanned event, got %+v", publisher.Events)
	}
}

func TestScanReceipt_AcceptsPNG(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Result: scannedReceipt()}
	receiptService, _, _ := newReceiptService(scanner)

	data, filename := createTestImage(100, 100, "png")
	if _, err := receiptService.ScanReceipt(context.Background(), 1, data, filename); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestScanReceipt_ValidationErrors(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Result: scannedReceipt()}
	receiptService, _, _ := newReceiptService(scanner)

	tiny, _ := createTestImage(10, 10, "jpeg")
	valid, _ := createTestImage(100, 100, "jpeg")

	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{"too large", make([]byte, MaxReceiptSize+1), "receipt.jpg", ErrReceiptTooLarge},
		{"bad extension", valid, "receipt.gif", ErrInvalidReceiptFormat},
		{"not an image", []byte("not an image"), "receipt.jpg", ErrInvalidReceiptData},
		{"too small", tiny, "receipt.jpg", ErrReceiptTooSmall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := receiptService.ScanReceipt(context.Background(), 1, tt.data, tt.filename)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestScanReceipt_CleansUpOnScanFailure(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Err: errors.New("model unavailable")}
	receiptService, store, publisher := newReceiptService(scanner)

	data, filename := createTestImage(100, 100, "jpeg")
	_, err := receiptService.ScanReceipt(context.Background(), 1, data, filename)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if len(store.Objects) != 0 {
		t.Errorf("Expected stored object removed, %d left", len(store.Objects))
	}
	if publisher.EventCount() != 0 {
		t.Errorf("Expected no events, got %d", publisher.EventCount())
	}
}

func TestScanReceipt_UnreadableReceipt(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Result: &ai.ReceiptData{}}
	receiptService, store, _ := newReceiptService(scanner)

	data, filename := createTestImage(100, 100, "jpeg")
	_, err := receiptService.ScanReceipt(context.Background(), 1, data, filename)
	if !errors.Is(err, ErrUnreadableReceipt) {
		t.Errorf("Expected ErrUnreadableReceipt, got %v", err)
	}
	if len(store.Objects) != 0 {
		t.Errorf("Expected stored object removed, %d left", len(store.Objects))
	}
}

func TestScanReceipt_NotConfigured(t *testing.T) {
	receiptService, _, _ := newReceiptService(nil)

	data, filename := createTestImage(100, 100, "jpeg")
	_, err := receiptService.ScanReceipt(context.Background(), 1, data, filename)
	if !errors.Is(err, ErrScanningNotConfigured) {
		t.Errorf("Expected ErrScanningNotConfigured, got %v", err)
	}
}

func TestScanReceipt_DownscalesWideImages(t *testing.T) {
	scanner := &testutil.MockReceiptScanner{Result: scannedReceipt()}
	receiptService, store, _ := newReceiptService(scanner)

	data, filename := createTestImage(3200, 400, "jpeg")
	if _, err := receiptService.ScanReceipt(context.Background(), 1, data, filename); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, stored := range store.Objects {
		img, _, err := image.Decode(bytes.NewReader(stored))
		if err != nil {
			t.Fatalf("Stored object is not a decodable image: %v", err)
		}
		if img.Bounds().Dx() > MaxReceiptWidth {
			t.Errorf("Expected width <= %d, got %d", MaxReceiptWidth, img.Bounds().Dx())
		}
	}
}
