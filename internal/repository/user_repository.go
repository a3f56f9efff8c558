package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository provides access to the users table
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, first_name, last_name,
	organization, position, COALESCE(image_url, ''), created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.FirstName, &u.LastName,
		&u.Organization, &u.Position, &u.ImageURL, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user and returns the generated id
func (r *UserRepository) Create(ctx context.Context, user *models.User) (string, error) {
	start := time.Now()
	operation := "createUser"

	query := `
		INSERT INTO users (email, password_hash, role, first_name, last_name, organization, position, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))
		RETURNING id
	`

	var id string
	err := r.pool.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName,
		user.Organization, user.Position, user.ImageURL,
	).Scan(&id)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	r.record(operation, "success", start, zap.String("user_id", id))
	return id, nil
}

// GetByEmail fetches a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByField(ctx, "getUserByEmail", "email = $1", email)
}

// GetByID fetches a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getByField(ctx, "getUserByID", "id = $1", id)
}

func (r *UserRepository) getByField(ctx context.Context, operation, whereClause string, arg interface{}) (*models.User, error) {
	start := time.Now()

	query := fmt.Sprintf("SELECT %s FROM users WHERE %s", userColumns, whereClause)

	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.record(operation, "not_found", start)
			return nil, ErrUserNotFound
		}
		r.record(operation, "error", start, zap.Error(err))
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	r.record(operation, "success", start)
	return user, nil
}

// EmailExists reports whether an account already uses the email
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	start := time.Now()
	operation := "emailExists"

	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	r.record(operation, "success", start)
	return exists, nil
}

// ResolveRole fetches the authoritative role for a user id. This is the query
// the route guard issues on every guarded request; the role stored here wins
// over anything the client holds.
func (r *UserRepository) ResolveRole(ctx context.Context, userID string) (models.Role, error) {
	start := time.Now()
	operation := "resolveRole"

	var role models.Role
	err := r.pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.record(operation, "not_found", start)
			return "", ErrUserNotFound
		}
		r.record(operation, "error", start, zap.Error(err))
		return "", fmt.Errorf("failed to resolve role: %w", err)
	}

	r.record(operation, "success", start)
	return role, nil
}

// UpdatePassword replaces the password hash for the account with this email
func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	start := time.Now()
	operation := "updatePassword"

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE email = $1`,
		email, passwordHash,
	)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.record(operation, "not_found", start)
		return ErrUserNotFound
	}

	r.record(operation, "success", start)
	return nil
}

// UpdateImageURL stores the uploaded profile picture URL
func (r *UserRepository) UpdateImageURL(ctx context.Context, userID, imageURL string) error {
	start := time.Now()
	operation := "updateImageURL"

	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET image_url = $2, updated_at = now() WHERE id = $1`,
		userID, imageURL,
	)
	if err != nil {
		r.record(operation, "error", start, zap.Error(err))
		return fmt.Errorf("failed to update image url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		r.record(operation, "not_found", start)
		return ErrUserNotFound
	}

	r.record(operation, "success", start)
	return nil
}

func (r *UserRepository) record(operation, status string, start time.Time, fields ...zap.Field) {
	duration := metrics.MeasureDuration(start)
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
	logger.LogAPICall("postgres", operation, status, duration, fields...)
}
