package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/bridgeit/bridgeit-api/config"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/repository"
	"github.com/bridgeit/bridgeit-api/pkg/httpclient"
	"github.com/bridgeit/bridgeit-api/pkg/jwt"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/bridgeit/bridgeit-api/pkg/trigger"
	"go.uber.org/zap"
)

var (
	ErrInvalidOtp        = errors.New("invalid or expired otp code")
	ErrNoActiveChallenge = errors.New("no active otp challenge for this email")
)

// OtpService owns the OTP challenge lifecycle: generation, dispatch by email,
// verification, and consumption by the flows the challenge authorizes.
type OtpService struct {
	otpRepo    repository.OtpRepositoryInterface
	config     *config.Config
	httpClient httpclient.Client
}

// NewOtpService creates a new OtpService
func NewOtpService(otpRepo repository.OtpRepositoryInterface, cfg *config.Config, httpClient httpclient.Client) *OtpService {
	return &OtpService{
		otpRepo:    otpRepo,
		config:     cfg,
		httpClient: httpClient,
	}
}

// Generate creates a fresh challenge for the email and dispatches the code.
// Any previous challenge for the email is displaced.
func (s *OtpService) Generate(ctx context.Context, email string, role models.Role) error {
	code, err := generateCode()
	if err != nil {
		logger.Error("Failed to generate otp code", zap.Error(err))
		metrics.OtpRequests.WithLabelValues("generate", "code_failed").Inc()
		return err
	}

	challenge := &models.OtpChallenge{
		Email:     email,
		Code:      code,
		Role:      role,
		ExpiresAt: time.Now().Add(time.Duration(s.config.Otp.TTLMinutes) * time.Minute),
	}

	if err := s.otpRepo.Replace(ctx, challenge); err != nil {
		logger.Error("Failed to store otp challenge", zap.String("email", email), zap.Error(err))
		metrics.OtpRequests.WithLabelValues("generate", "storage_failed").Inc()
		return err
	}

	s.dispatchCode(email, code)

	metrics.OtpRequests.WithLabelValues("generate", "success").Inc()
	logger.Info("OTP challenge created",
		zap.String("email", email),
		zap.String("role", string(role)))
	return nil
}

// Verify checks a submitted code against the live challenge. A challenge is
// single-use: once verified it cannot be verified again, so a replayed code
// fails here even before expiry.
func (s *OtpService) Verify(ctx context.Context, email string, otp int) error {
	challenge, err := s.otpRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		metrics.OtpRequests.WithLabelValues("verify", "not_found").Inc()
		return ErrInvalidOtp
	}

	submitted := fmt.Sprintf("%0*d", models.OtpCodeLength, otp)
	if !jwt.TimingSafeCompare(submitted, challenge.Code) {
		logger.Warn("OTP code mismatch", zap.String("email", email))
		metrics.OtpRequests.WithLabelValues("verify", "mismatch").Inc()
		return ErrInvalidOtp
	}

	if err := s.otpRepo.MarkVerified(ctx, challenge.ID); err != nil {
		// Already verified or expired between fetch and transition
		logger.Warn("OTP verify rejected by state transition",
			zap.String("email", email),
			zap.Error(err))
		metrics.OtpRequests.WithLabelValues("verify", "replayed").Inc()
		return ErrInvalidOtp
	}

	metrics.OtpRequests.WithLabelValues("verify", "success").Inc()
	logger.Info("OTP verified", zap.String("email", email))
	return nil
}

// Resend issues a new code for the email. The staged registration payload,
// if any, is untouched; only the challenge changes.
func (s *OtpService) Resend(ctx context.Context, email string) error {
	// Carry the role forward from the displaced challenge so a registration
	// resend keeps pointing at the same flow.
	role := models.Role("")
	if existing, err := s.otpRepo.GetActiveByEmail(ctx, email); err == nil {
		role = existing.Role
	}

	if err := s.Generate(ctx, email, role); err != nil {
		metrics.OtpRequests.WithLabelValues("resend", "failed").Inc()
		return err
	}

	metrics.OtpRequests.WithLabelValues("resend", "success").Inc()
	return nil
}

// ConsumeVerified spends the email's verified challenge. Exactly one
// finalize-registration or password-reset call can succeed per verified
// challenge.
func (s *OtpService) ConsumeVerified(ctx context.Context, email string) error {
	challenge, err := s.otpRepo.GetActiveByEmail(ctx, email)
	if err != nil {
		return ErrNoActiveChallenge
	}
	if challenge.Status != models.OtpStatusVerified {
		return ErrNoActiveChallenge
	}
	if err := s.otpRepo.Consume(ctx, challenge.ID); err != nil {
		return ErrNoActiveChallenge
	}
	return nil
}

// dispatchCode hands the code to the email webhook, or logs it in development
// when no webhook is configured.
func (s *OtpService) dispatchCode(email, code string) {
	if s.config.EventTriggers.OtpEmailTriggerURL != "" {
		payload := map[string]interface{}{
			"type":  "otp_email",
			"email": email,
			"code":  code,
		}
		trigger.CallAsyncWithPayload(s.config.EventTriggers.OtpEmailTriggerURL, payload, s.httpClient)
		return
	}

	if s.config.IsDevelopment() {
		logger.Info("=== DEVELOPMENT OTP CODE ===",
			zap.String("email", email),
			zap.String("code", code))
		return
	}

	logger.Warn("OTP email trigger URL not configured, code not dispatched",
		zap.String("email", email))
}

// generateCode produces a fixed-length numeric code with crypto/rand.
func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < models.OtpCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", models.OtpCodeLength, n), nil
}
