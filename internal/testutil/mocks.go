package testutil

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/ai"
	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/finlens/finlens-backend/internal/websocket"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users  map[string]*domain.User
	ByID   map[int32]*domain.User
	NextID int32
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:  make(map[string]*domain.User),
		ByID:   make(map[int32]*domain.User),
		NextID: 1,
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id int32) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         m.NextID,
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		Role:       domain.UserRoleUser,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.NextID++
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// Count returns the number of registered users
func (m *MockUserRepository) Count() (int64, error) {
	return int64(len(m.ByID)), nil
}

// CountActiveSince returns users updated at or after the given time
func (m *MockUserRepository) CountActiveSince(since time.Time) (int64, error) {
	var count int64
	for _, user := range m.ByID {
		if !user.UpdatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == 0 {
		user.ID = m.NextID
		m.NextID++
	} else if user.ID >= m.NextID {
		m.NextID = user.ID + 1
	}
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts map[int32]*domain.Account
	NextID   int32
	TxCounts map[int32]int64
	CreateFn func(account *domain.Account) (*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts: make(map[int32]*domain.Account),
		NextID:   1,
		TxCounts: make(map[int32]int64),
	}
}

// Create creates a new account
func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	account.ID = m.NextID
	m.NextID++
	account.CreatedAt = time.Now()
	account.UpdatedAt = time.Now()
	if account.IsDefault {
		for _, other := range m.Accounts {
			if other.UserID == account.UserID {
				other.IsDefault = false
			}
		}
	}
	m.Accounts[account.ID] = account
	return account, nil
}

// GetByID retrieves an account scoped to the user
func (m *MockAccountRepository) GetByID(userID int32, id int32) (*domain.Account, error) {
	account, ok := m.Accounts[id]
	if !ok || account.UserID != userID || account.DeletedAt != nil {
		return nil, domain.ErrAccountNotFound
	}
	return account, nil
}

// GetAllByUser retrieves all accounts for a user
func (m *MockAccountRepository) GetAllByUser(userID int32) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for _, account := range m.Accounts {
		if account.UserID == userID && account.DeletedAt == nil {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// Update renames an account
func (m *MockAccountRepository) Update(userID int32, id int32, name string) (*domain.Account, error) {
	account, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	account.Name = name
	account.UpdatedAt = time.Now()
	return account, nil
}

// SetDefault marks an account as default, clearing the flag elsewhere
func (m *MockAccountRepository) SetDefault(userID int32, id int32) (*domain.Account, error) {
	account, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	for _, other := range m.Accounts {
		if other.UserID == userID {
			other.IsDefault = other.ID == id
		}
	}
	return account, nil
}

// AdjustBalance applies a signed delta to the account balance
func (m *MockAccountRepository) AdjustBalance(userID int32, id int32, delta decimal.Decimal) (*domain.Account, error) {
	account, err := m.GetByID(userID, id)
	if err != nil {
		return nil, err
	}
	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = time.Now()
	return account, nil
}

// SoftDelete marks an account as deleted if it has no transactions
func (m *MockAccountRepository) SoftDelete(userID int32, id int32) error {
	account, err := m.GetByID(userID, id)
	if err != nil {
		return err
	}
	if m.TxCounts[id] > 0 {
		return domain.ErrAccountHasTransactions
	}
	now := time.Now()
	account.DeletedAt = &now
	return nil
}

// CountTransactions returns the transaction count configured for the account
func (m *MockAccountRepository) CountTransactions(userID int32, id int32) (int64, error) {
	if _, err := m.GetByID(userID, id); err != nil {
		return 0, err
	}
	return m.TxCounts[id], nil
}

// AddAccount adds an account to the mock repository (helper for tests)
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	if account.ID == 0 {
		account.ID = m.NextID
		m.NextID++
	} else if account.ID >= m.NextID {
		m.NextID = account.ID + 1
	}
	m.Accounts[account.ID] = account
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[int32]*domain.Transaction
	NextID       int32
	CreateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
	UpdateFn     func(transaction *domain.Transaction) (*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[int32]*domain.Transaction),
		NextID:       1,
	}
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(transaction)
	}
	transaction.ID = m.NextID
	m.NextID++
	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// GetByID retrieves a transaction scoped to the user
func (m *MockTransactionRepository) GetByID(userID int32, id int32) (*domain.Transaction, error) {
	transaction, ok := m.Transactions[id]
	if !ok || transaction.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return transaction, nil
}

// GetAllByUser retrieves every transaction for a user, newest first
func (m *MockTransactionRepository) GetAllByUser(userID int32) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for _, transaction := range m.Transactions {
		if transaction.UserID == userID {
			transactions = append(transactions, transaction)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].OccurredAt.After(transactions[j].OccurredAt)
	})
	return transactions, nil
}

func matchesFilters(t *domain.Transaction, filters *domain.TransactionFilters) bool {
	if filters == nil {
		return true
	}
	if filters.AccountID != nil && t.AccountID != *filters.AccountID {
		return false
	}
	if filters.StartDate != nil && t.OccurredAt.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && t.OccurredAt.After(*filters.EndDate) {
		return false
	}
	if filters.Type != nil && t.Type != *filters.Type {
		return false
	}
	if filters.Status != nil && t.Status != *filters.Status {
		return false
	}
	if filters.Category != nil && t.Category != *filters.Category {
		return false
	}
	return true
}

// GetByUser retrieves transactions with filters and pagination
func (m *MockTransactionRepository) GetByUser(userID int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	all, _ := m.GetAllByUser(userID)
	var matched []*domain.Transaction
	for _, t := range all {
		if matchesFilters(t, filters) {
			matched = append(matched, t)
		}
	}

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if filters != nil {
		if filters.Page > 0 {
			page = filters.Page
		}
		if filters.PageSize > 0 {
			pageSize = filters.PageSize
		}
	}

	totalItems := int64(len(matched))
	totalPages := int32((totalItems + int64(pageSize) - 1) / int64(pageSize))
	start := (page - 1) * pageSize
	if start > int32(len(matched)) {
		start = int32(len(matched))
	}
	end := start + pageSize
	if end > int32(len(matched)) {
		end = int32(len(matched))
	}

	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByDateRange retrieves transactions within [start, end)
func (m *MockTransactionRepository) GetByDateRange(userID int32, start, end time.Time) ([]*domain.Transaction, error) {
	all, _ := m.GetAllByUser(userID)
	var matched []*domain.Transaction
	for _, t := range all {
		if !t.OccurredAt.Before(start) && t.OccurredAt.Before(end) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(transaction)
	}
	if _, ok := m.Transactions[transaction.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	transaction.UpdatedAt = time.Now()
	m.Transactions[transaction.ID] = transaction
	return transaction, nil
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(userID int32, id int32) error {
	if _, err := m.GetByID(userID, id); err != nil {
		return err
	}
	delete(m.Transactions, id)
	return nil
}

// BulkDelete removes multiple transactions, returning the deleted count
func (m *MockTransactionRepository) BulkDelete(userID int32, ids []int32) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if err := m.Delete(userID, id); err == nil {
			deleted++
		}
	}
	return deleted, nil
}

// GetRecentCategories returns distinct categories ordered by most recent use
func (m *MockTransactionRepository) GetRecentCategories(userID int32, limit int32) ([]string, error) {
	all, _ := m.GetAllByUser(userID)
	seen := make(map[string]bool)
	var categories []string
	for _, t := range all {
		if !seen[t.Category] {
			seen[t.Category] = true
			categories = append(categories, t.Category)
		}
		if int32(len(categories)) >= limit {
			break
		}
	}
	return categories, nil
}

// CountAll returns the total transaction count across all users
func (m *MockTransactionRepository) CountAll() (int64, error) {
	return int64(len(m.Transactions)), nil
}

// SumVolume returns the total transaction amount across all users
func (m *MockTransactionRepository) SumVolume() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.Transactions {
		total = total.Add(t.Amount)
	}
	return total, nil
}

// CountReceiptScans returns the number of transactions with a receipt attached
func (m *MockTransactionRepository) CountReceiptScans() (int64, error) {
	var count int64
	for _, t := range m.Transactions {
		if t.ReceiptURL != nil {
			count++
		}
	}
	return count, nil
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(transaction *domain.Transaction) {
	if transaction.ID == 0 {
		transaction.ID = m.NextID
		m.NextID++
	} else if transaction.ID >= m.NextID {
		m.NextID = transaction.ID + 1
	}
	m.Transactions[transaction.ID] = transaction
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets map[int32]*domain.Budget
	NextID  int32
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository() *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets: make(map[int32]*domain.Budget),
		NextID:  1,
	}
}

// GetByUser retrieves the budget for a user
func (m *MockBudgetRepository) GetByUser(userID int32) (*domain.Budget, error) {
	if budget, ok := m.Budgets[userID]; ok {
		return budget, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Upsert creates or replaces the budget for a user
func (m *MockBudgetRepository) Upsert(userID int32, amount decimal.Decimal) (*domain.Budget, error) {
	if budget, ok := m.Budgets[userID]; ok {
		budget.Amount = amount
		budget.UpdatedAt = time.Now()
		return budget, nil
	}
	budget := &domain.Budget{
		ID:        m.NextID,
		UserID:    userID,
		Amount:    amount,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.NextID++
	m.Budgets[userID] = budget
	return budget, nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID int32, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// EventCount returns the number of recorded events
func (m *MockEventPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}

// LastEvent returns the most recently published event, or nil
func (m *MockEventPublisher) LastEvent() *websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Events) == 0 {
		return nil
	}
	return &m.Events[len(m.Events)-1]
}

// MockReceiptRepository is an in-memory receipt store for tests
type MockReceiptRepository struct {
	Objects  map[string][]byte
	UploadFn func(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
}

// NewMockReceiptRepository creates a new MockReceiptRepository
func NewMockReceiptRepository() *MockReceiptRepository {
	return &MockReceiptRepository{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory
func (m *MockReceiptRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, data, contentType, size)
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes the object
func (m *MockReceiptRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

// GeneratePresignedURL returns a deterministic fake URL
func (m *MockReceiptRepository) GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	if _, ok := m.Objects[objectPath]; !ok {
		return "", fmt.Errorf("object not found: %s", objectPath)
	}
	return "https://storage.test/" + objectPath, nil
}

// MockReceiptScanner is a mock implementation of ai.ReceiptScanner
type MockReceiptScanner struct {
	Result *ai.ReceiptData
	Err    error
	Calls  int
}

// ScanReceipt returns the configured result or error
func (m *MockReceiptScanner) ScanReceipt(ctx context.Context, imageData []byte, mimeType string) (*ai.ReceiptData, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}
