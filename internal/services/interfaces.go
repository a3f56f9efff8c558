package services

import (
	"context"

	"github.com/bridgeit/bridgeit-api/internal/models"
)

// AuthServiceInterface defines the session issuer operations
type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	ResolveProfile(ctx context.Context, userID string) (*models.Profile, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

// OtpServiceInterface defines the OTP challenge lifecycle operations
type OtpServiceInterface interface {
	Generate(ctx context.Context, email string, role models.Role) error
	Verify(ctx context.Context, email string, otp int) error
	Resend(ctx context.Context, email string) error
	ConsumeVerified(ctx context.Context, email string) error
}

// RegistrationServiceInterface defines the registration staging and finalize operations
type RegistrationServiceInterface interface {
	Stage(ctx context.Context, pending *models.PendingRegistration) (*models.SubmitRegistrationResponse, error)
	Finalize(ctx context.Context, role models.Role, email string) (*models.FinalizeRegistrationResponse, error)
}
