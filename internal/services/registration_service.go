package services

import (
	"context"
	"errors"

	"github.com/bridgeit/bridgeit-api/config"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/repository"
	"github.com/bridgeit/bridgeit-api/internal/staging"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/bridgeit/bridgeit-api/pkg/objectstorage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken            = errors.New("an account with this email already exists")
	ErrNoPendingRegistration = errors.New("no pending registration for this email")
)

// LoginRoute is where the client is sent after registration completes.
const LoginRoute = "/auth/login-user"

// RegistrationService turns a staged registration form into a confirmed
// account, gated by OTP possession proof.
type RegistrationService struct {
	userRepo      repository.UserRepositoryInterface
	otpService    OtpServiceInterface
	pendingStore  *staging.PendingStore
	storageClient objectstorage.StorageClientInterface
	config        *config.Config
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(
	userRepo repository.UserRepositoryInterface,
	otpService OtpServiceInterface,
	pendingStore *staging.PendingStore,
	storageClient objectstorage.StorageClientInterface,
	cfg *config.Config,
) *RegistrationService {
	return &RegistrationService{
		userRepo:      userRepo,
		otpService:    otpService,
		pendingStore:  pendingStore,
		storageClient: storageClient,
		config:        cfg,
	}
}

// Stage validates and parks a registration form, then opens an OTP challenge
// for the applicant's email. No account exists until the challenge is
// verified and the registration finalized. Resubmitting overwrites the
// previous staged payload under the same role key.
func (s *RegistrationService) Stage(ctx context.Context, pending *models.PendingRegistration) (*models.SubmitRegistrationResponse, error) {
	exists, err := s.userRepo.EmailExists(ctx, pending.Email)
	if err != nil {
		metrics.Registrations.WithLabelValues(string(pending.Role), "stage_error").Inc()
		return nil, err
	}
	if exists {
		metrics.Registrations.WithLabelValues(string(pending.Role), "email_taken").Inc()
		return nil, ErrEmailTaken
	}

	s.pendingStore.Put(pending)

	if err := s.otpService.Generate(ctx, pending.Email, pending.Role); err != nil {
		// Leave the payload staged; the user can request a resend.
		metrics.Registrations.WithLabelValues(string(pending.Role), "otp_error").Inc()
		return nil, err
	}

	metrics.Registrations.WithLabelValues(string(pending.Role), "staged").Inc()
	logger.Info("Registration staged",
		zap.String("email", pending.Email),
		zap.String("role", string(pending.Role)))

	return &models.SubmitRegistrationResponse{
		Success: true,
		Message: "Verification code sent. Enter it to complete your registration.",
	}, nil
}

// Finalize creates the account from the staged payload. It spends the
// email's verified OTP challenge first: no verified challenge, no account.
// If account creation then fails, the staged payload stays put and the user
// re-runs the OTP round before trying again.
func (s *RegistrationService) Finalize(ctx context.Context, role models.Role, email string) (*models.FinalizeRegistrationResponse, error) {
	pending, found := s.pendingStore.Get(role, email)
	if !found {
		metrics.Registrations.WithLabelValues(string(role), "no_pending").Inc()
		return nil, ErrNoPendingRegistration
	}

	if err := s.otpService.ConsumeVerified(ctx, email); err != nil {
		metrics.Registrations.WithLabelValues(string(role), "otp_not_verified").Inc()
		return nil, ErrOtpNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pending.Password), bcrypt.DefaultCost)
	if err != nil {
		metrics.Registrations.WithLabelValues(string(role), "hash_error").Inc()
		return nil, err
	}

	user := &models.User{
		Email:        pending.Email,
		PasswordHash: string(hash),
		Role:         pending.Role,
		FirstName:    pending.FirstName,
		LastName:     pending.LastName,
		Organization: pending.Organization,
		Position:     pending.Position,
	}

	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Staged payload stays put so the flow can be retried after a
		// fresh OTP round; it expires with the staging TTL otherwise.
		metrics.Registrations.WithLabelValues(string(role), "create_error").Inc()
		logger.Error("Failed to create account",
			zap.String("email", email),
			zap.String("role", string(role)),
			zap.Error(err))
		return nil, err
	}

	s.pendingStore.Delete(role, email)

	// Profile picture upload is best-effort; the account stands either way.
	if pending.ProfilePicture.Image != "" {
		if uploadErr := s.uploadProfilePicture(ctx, userID, &pending.ProfilePicture); uploadErr != nil {
			logger.Error("Failed to upload profile picture",
				zap.String("user_id", userID),
				zap.Error(uploadErr))
		}
	}

	metrics.Registrations.WithLabelValues(string(role), "success").Inc()
	logger.Info("Registration finalized",
		zap.String("user_id", userID),
		zap.String("role", string(role)))

	return &models.FinalizeRegistrationResponse{
		Success:  true,
		Message:  "Registration successful. You can now log in.",
		Redirect: LoginRoute,
	}, nil
}

func (s *RegistrationService) uploadProfilePicture(ctx context.Context, userID string, picture *models.ProfilePictureData) error {
	if s.storageClient == nil {
		logger.Warn("Object storage not configured, skipping profile picture upload")
		return nil
	}

	if err := s.storageClient.ValidateImageType(picture.ContentType); err != nil {
		return err
	}
	if err := s.storageClient.ValidateImageSize(picture.Image); err != nil {
		return err
	}

	key := s.storageClient.GenerateFileName(userID, picture.FileName, picture.ContentType)
	imageURL, err := s.storageClient.UploadImage(ctx, picture.Image, key, picture.ContentType)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateImageURL(ctx, userID, imageURL)
}
