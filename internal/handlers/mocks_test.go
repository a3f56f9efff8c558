package handlers

import (
	"context"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)

	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

// MockAuthService is a mock implementation of services.AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) ResolveProfile(ctx context.Context, userID string) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	args := m.Called(ctx, email, newPassword)
	return args.Error(0)
}

// MockOtpService is a mock implementation of services.OtpServiceInterface
type MockOtpService struct {
	mock.Mock
}

func (m *MockOtpService) Generate(ctx context.Context, email string, role models.Role) error {
	args := m.Called(ctx, email, role)
	return args.Error(0)
}

func (m *MockOtpService) Verify(ctx context.Context, email string, otp int) error {
	args := m.Called(ctx, email, otp)
	return args.Error(0)
}

func (m *MockOtpService) Resend(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockOtpService) ConsumeVerified(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockRegistrationService is a mock implementation of services.RegistrationServiceInterface
type MockRegistrationService struct {
	mock.Mock
}

func (m *MockRegistrationService) Stage(ctx context.Context, pending *models.PendingRegistration) (*models.SubmitRegistrationResponse, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmitRegistrationResponse), args.Error(1)
}

func (m *MockRegistrationService) Finalize(ctx context.Context, role models.Role, email string) (*models.FinalizeRegistrationResponse, error) {
	args := m.Called(ctx, role, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinalizeRegistrationResponse), args.Error(1)
}
