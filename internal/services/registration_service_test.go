package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bridgeit/bridgeit-api/config"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/bridgeit/bridgeit-api/internal/staging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registrationTestConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{AppEnv: "development"},
		Staging: config.StagingConfig{PendingTTLMinutes: 30},
	}
}

func newPendingStudent() *models.PendingRegistration {
	return &models.PendingRegistration{
		Email:        "student@example.com",
		Password:     "password123",
		Role:         models.RoleStudent,
		FirstName:    "Grace",
		LastName:     "Hopper",
		Organization: "Test University",
		Position:     "Computer Science, Year 2",
	}
}

func TestRegistrationService_Stage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())
	ctx := context.Background()

	mockUserRepo.On("EmailExists", ctx, "student@example.com").Return(false, nil).Once()
	mockOtpService.On("Generate", ctx, "student@example.com", models.RoleStudent).Return(nil).Once()

	resp, err := service.Stage(ctx, newPendingStudent())
	require.NoError(t, err)
	assert.True(t, resp.Success)

	// The payload is parked, not persisted: no account call happened.
	_, found := store.Get(models.RoleStudent, "student@example.com")
	assert.True(t, found)
	mockUserRepo.AssertNotCalled(t, "Create")
	mockOtpService.AssertExpectations(t)
}

func TestRegistrationService_Stage_EmailTaken(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())
	ctx := context.Background()

	mockUserRepo.On("EmailExists", ctx, "student@example.com").Return(true, nil).Once()

	resp, err := service.Stage(ctx, newPendingStudent())
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, services.ErrEmailTaken)
	assert.Equal(t, 0, store.Len())
	mockOtpService.AssertNotCalled(t, "Generate")
}

func TestRegistrationService_Finalize(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())
	ctx := context.Background()

	store.Put(newPendingStudent())

	mockOtpService.On("ConsumeVerified", ctx, "student@example.com").Return(nil).Once()
	var created *models.User
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.User)
		}).Return("user-1", nil).Once()

	resp, err := service.Finalize(ctx, models.RoleStudent, "student@example.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "/auth/login-user", resp.Redirect)

	require.NotNil(t, created)
	assert.Equal(t, models.RoleStudent, created.Role)
	assert.Equal(t, "Test University", created.Organization)
	assert.NotEqual(t, "password123", created.PasswordHash, "password must be stored hashed")

	// The staged payload is gone once the account exists.
	_, found := store.Get(models.RoleStudent, "student@example.com")
	assert.False(t, found)
	mockOtpService.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRegistrationService_Finalize_WithoutVerifiedOtp(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())
	ctx := context.Background()

	store.Put(newPendingStudent())

	mockOtpService.On("ConsumeVerified", ctx, "student@example.com").Return(errors.New("no challenge")).Once()

	resp, err := service.Finalize(ctx, models.RoleStudent, "student@example.com")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, services.ErrOtpNotVerified)
	mockUserRepo.AssertNotCalled(t, "Create")

	// Payload stays staged for a retry after a fresh OTP round.
	_, found := store.Get(models.RoleStudent, "student@example.com")
	assert.True(t, found)
}

func TestRegistrationService_Finalize_NoPendingPayload(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())

	resp, err := service.Finalize(context.Background(), models.RoleStudent, "student@example.com")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, services.ErrNoPendingRegistration)
	mockOtpService.AssertNotCalled(t, "ConsumeVerified")
}

func TestRegistrationService_Finalize_CreateFails(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())
	ctx := context.Background()

	store.Put(newPendingStudent())

	mockOtpService.On("ConsumeVerified", ctx, "student@example.com").Return(nil).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return("", errors.New("db down")).Once()

	resp, err := service.Finalize(ctx, models.RoleStudent, "student@example.com")
	assert.Nil(t, resp)
	assert.Error(t, err)

	// Payload survives the failure so the flow can be retried.
	_, found := store.Get(models.RoleStudent, "student@example.com")
	assert.True(t, found)
}

func TestRegistrationService_Finalize_RoleKeyIsolation(t *testing.T) {
	// A payload staged under the faculty key must not satisfy a finalize for
	// the student flow of the same email.
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, nil, registrationTestConfig())

	pending := newPendingStudent()
	pending.Role = models.RoleFaculty
	store.Put(pending)

	resp, err := service.Finalize(context.Background(), models.RoleStudent, "student@example.com")
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, services.ErrNoPendingRegistration)
}

func TestRegistrationService_Finalize_ProfilePictureUpload(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	mockStorage := new(MockStorageClient)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, mockStorage, registrationTestConfig())
	ctx := context.Background()

	pending := newPendingStudent()
	pending.ProfilePicture = models.ProfilePictureData{
		Image:       "aGVsbG8=",
		FileName:    "avatar.png",
		ContentType: "image/png",
	}
	store.Put(pending)

	mockOtpService.On("ConsumeVerified", ctx, "student@example.com").Return(nil).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return("user-1", nil).Once()
	mockStorage.On("ValidateImageType", "image/png").Return(nil).Once()
	mockStorage.On("ValidateImageSize", "aGVsbG8=").Return(nil).Once()
	mockStorage.On("GenerateFileName", "user-1", "avatar.png", "image/png").Return("profiles/user-1/abc.png").Once()
	mockStorage.On("UploadImage", ctx, "aGVsbG8=", "profiles/user-1/abc.png", "image/png").Return("https://cdn.example.com/profiles/user-1/abc.png", nil).Once()
	mockUserRepo.On("UpdateImageURL", ctx, "user-1", "https://cdn.example.com/profiles/user-1/abc.png").Return(nil).Once()

	resp, err := service.Finalize(ctx, models.RoleStudent, "student@example.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	mockStorage.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestRegistrationService_Finalize_UploadFailureDoesNotFailRegistration(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockOtpService := new(MockOtpService)
	mockStorage := new(MockStorageClient)
	store := staging.NewPendingStore(30)
	service := services.NewRegistrationService(mockUserRepo, mockOtpService, store, mockStorage, registrationTestConfig())
	ctx := context.Background()

	pending := newPendingStudent()
	pending.ProfilePicture = models.ProfilePictureData{
		Image:       "aGVsbG8=",
		FileName:    "avatar.png",
		ContentType: "image/png",
	}
	store.Put(pending)

	mockOtpService.On("ConsumeVerified", ctx, "student@example.com").Return(nil).Once()
	mockUserRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return("user-1", nil).Once()
	mockStorage.On("ValidateImageType", "image/png").Return(errors.New("unsupported type")).Once()

	resp, err := service.Finalize(ctx, models.RoleStudent, "student@example.com")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	mockUserRepo.AssertNotCalled(t, "UpdateImageURL")
}
