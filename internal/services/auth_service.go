package services

import (
	"context"
	"errors"
	"time"

	"github.com/bridgeit/bridgeit-api/config"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/repository"
	"github.com/bridgeit/bridgeit-api/pkg/jwt"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnknownRole        = errors.New("unrecognized account role")
	ErrJWTSecretNotSet    = errors.New("JWT secret not configured")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrOtpNotVerified     = errors.New("no verified otp challenge for this email")
)

// AuthService exchanges verified credentials for a bearer token and resolves
// the caller's authoritative role.
type AuthService struct {
	userRepo     repository.UserRepositoryInterface
	otpService   OtpServiceInterface
	config       *config.Config
	tokenManager *jwt.TokenManager
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepositoryInterface, otpService OtpServiceInterface, cfg *config.Config) *AuthService {
	var tokenManager *jwt.TokenManager
	if cfg.Session.JWTSecret != "" {
		tokenManager = jwt.NewTokenManager(
			cfg.Session.JWTSecret,
			cfg.Session.JWTIssuer,
			cfg.Session.SessionTTLHours,
		)
	}

	return &AuthService{
		userRepo:     userRepo,
		otpService:   otpService,
		config:       cfg,
		tokenManager: tokenManager,
	}
}

// Login verifies credentials and issues a session token. The response also
// carries the landing route from the role dispatch table so the client can
// navigate without waiting for a separate profile call.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	start := time.Now()

	if s.tokenManager == nil {
		logger.Error("JWT secret not configured")
		metrics.LoginRequests.WithLabelValues("not_configured").Inc()
		return nil, ErrJWTSecretNotSet
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		// Run a dummy compare so a missing account costs the same as a
		// wrong password.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(password))
		logger.Warn("Login attempt for unknown email", zap.String("email", email))
		metrics.LoginRequests.WithLabelValues("unknown_email").Inc()
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Login attempt with wrong password", zap.String("user_id", user.ID))
		metrics.LoginRequests.WithLabelValues("bad_password").Inc()
		return nil, ErrInvalidCredentials
	}

	// The role string drives navigation; a value outside the dispatch table
	// means a corrupted account and must not produce a session.
	if !user.Role.IsValid() {
		logger.Error("Account holds unrecognized role",
			zap.String("user_id", user.ID),
			zap.String("role", string(user.Role)))
		metrics.LoginRequests.WithLabelValues("unknown_role").Inc()
		return nil, ErrUnknownRole
	}

	token, err := s.tokenManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		logger.Error("Failed to generate session token",
			zap.String("user_id", user.ID),
			zap.Error(err))
		metrics.LoginRequests.WithLabelValues("token_failed").Inc()
		return nil, err
	}

	metrics.LoginDuration.Observe(metrics.MeasureDuration(start))
	metrics.LoginRequests.WithLabelValues("success").Inc()

	logger.Info("Login successful",
		zap.String("user_id", user.ID),
		zap.String("role", string(user.Role)),
		zap.Duration("duration", time.Since(start)))

	return &models.LoginResponse{
		Success:  true,
		Token:    token,
		Redirect: user.Role.LandingRoute(),
	}, nil
}

// ResolveProfile returns the authoritative identity for a user id. The role
// always comes from the users table; token claims are never consulted.
func (s *AuthService) ResolveProfile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &models.Profile{
		UserID:   user.ID,
		Email:    user.Email,
		Role:     user.Role,
		Name:     user.FirstName + " " + user.LastName,
		Redirect: user.Role.LandingRoute(),
	}, nil
}

// ResetPassword completes a forgot-password flow. The email must hold a
// verified OTP challenge, which is consumed here so the same code cannot
// authorize a second reset.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if err := s.otpService.ConsumeVerified(ctx, email); err != nil {
		return ErrOtpNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, email, string(hash)); err != nil {
		logger.Error("Failed to update password", zap.String("email", email), zap.Error(err))
		return err
	}

	logger.Info("Password reset completed", zap.String("email", email))
	return nil
}

// GetTokenManager returns the JWT token manager, nil when no secret is set
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}
