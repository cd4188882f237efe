package service

import (
	"strings"

	"github.com/finlens/finlens-backend/internal/domain"
)

// UserService handles user profile logic and first-request provisioning
type UserService struct {
	userRepo domain.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo domain.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ResolveUser provisions the user on first authenticated request and
// returns the existing record afterwards. Satisfies the auth middleware's
// UserProvider.
func (s *UserService) ResolveUser(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	return s.userRepo.CreateOrGetByAuth0ID(auth0ID, email, name, pictureURL)
}

// GetUser retrieves a user by internal ID
func (s *UserService) GetUser(id int32) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByAuth0ID retrieves a user by Auth0 subject
func (s *UserService) GetUserByAuth0ID(auth0ID string) (*domain.User, error) {
	return s.userRepo.GetByAuth0ID(auth0ID)
}

// UpdateName updates the user's display name
func (s *UserService) UpdateName(auth0ID string, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}
	return s.userRepo.UpdateName(auth0ID, name)
}
