package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt image storage
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// GenerateObjectPath creates a unique object path for a receipt image.
// Receipts are namespaced by user so bucket cleanup per account is a
// single prefix delete.
func GenerateObjectPath(userID int32, ext string) string {
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	return path.Join(fmt.Sprintf("%d", userID), "receipts", filename)
}
