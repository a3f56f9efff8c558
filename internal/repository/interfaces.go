package repository

import (
	"context"

	"github.com/bridgeit/bridgeit-api/internal/models"
)

// UserRepositoryInterface defines data access for user accounts
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) (string, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ResolveRole(ctx context.Context, userID string) (models.Role, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	UpdateImageURL(ctx context.Context, userID, imageURL string) error
}

// OtpRepositoryInterface defines data access for OTP challenges
type OtpRepositoryInterface interface {
	Replace(ctx context.Context, challenge *models.OtpChallenge) error
	GetActiveByEmail(ctx context.Context, email string) (*models.OtpChallenge, error)
	MarkVerified(ctx context.Context, id string) error
	Consume(ctx context.Context, id string) error
}
