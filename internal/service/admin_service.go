package service

import (
	"time"

	"github.com/finlens/finlens-backend/internal/domain"
)

// AdminService exposes platform-wide stats for the admin console
type AdminService struct {
	userRepo        domain.UserRepository
	transactionRepo domain.TransactionRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo domain.UserRepository, transactionRepo domain.TransactionRepository) *AdminService {
	return &AdminService{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
	}
}

// activeWindow defines how far back a user's last activity counts as active
const activeWindow = 30 * 24 * time.Hour

// PlatformStats holds the admin dashboard aggregates
type PlatformStats struct {
	TotalUsers        int64  `json:"totalUsers"`
	ActiveUsers       int64  `json:"activeUsers"`
	TotalTransactions int64  `json:"totalTransactions"`
	TotalVolume       string `json:"totalVolume"`
	ReceiptScans      int64  `json:"receiptScans"`
}

// GetPlatformStats aggregates usage stats across all users. The reference
// date anchors the active-user window.
func (s *AdminService) GetPlatformStats(ref time.Time) (*PlatformStats, error) {
	totalUsers, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}

	activeUsers, err := s.userRepo.CountActiveSince(ref.Add(-activeWindow))
	if err != nil {
		return nil, err
	}

	totalTransactions, err := s.transactionRepo.CountAll()
	if err != nil {
		return nil, err
	}

	volume, err := s.transactionRepo.SumVolume()
	if err != nil {
		return nil, err
	}

	scans, err := s.transactionRepo.CountReceiptScans()
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:        totalUsers,
		ActiveUsers:       activeUsers,
		TotalTransactions: totalTransactions,
		TotalVolume:       volume.StringFixed(2),
		ReceiptScans:      scans,
	}, nil
}
