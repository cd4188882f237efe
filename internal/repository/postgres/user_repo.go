package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/finlens/finlens-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, picture_url, role, created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var name, pictureURL pgtype.Text
	var deletedAt pgtype.Timestamptz
	err := row.Scan(&user.ID, &user.Auth0ID, &user.Email, &name, &pictureURL,
		&user.Role, &user.CreatedAt, &user.UpdatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	user.Name = pgTextToStringPtr(name)
	user.PictureURL = pgTextToStringPtr(pictureURL)
	if deletedAt.Valid {
		t := deletedAt.Time
		user.DeletedAt = &t
	}
	return &user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id int32) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
	return scanUser(row)
}

// GetByAuth0ID retrieves a user by Auth0 subject
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1 AND deleted_at IS NULL`, auth0ID)
	return scanUser(row)
}

// CreateOrGetByAuth0ID provisions a user on first authenticated request.
// The upsert keeps email and profile fields fresh on subsequent logins.
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO users (auth0_id, email, name, picture_url)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (auth0_id) DO UPDATE
		SET email = EXCLUDED.email, updated_at = now()
		RETURNING `+userColumns,
		auth0ID, email, stringPtrToPgText(name), stringPtrToPgText(pictureURL))
	return scanUser(row)
}

// UpdateName updates only the user's display name
func (r *UserRepository) UpdateName(auth0ID string, name string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE users SET name = $2, updated_at = now()
		WHERE auth0_id = $1 AND deleted_at IS NULL
		RETURNING `+userColumns, auth0ID, name)
	return scanUser(row)
}

// Count returns the total number of users (admin stats)
func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&count)
	return count, err
}

// CountActiveSince returns users updated since the given time (admin stats)
func (r *UserRepository) CountActiveSince(since time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND updated_at >= $1`, since).Scan(&count)
	return count, err
}
