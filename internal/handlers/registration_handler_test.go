package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func registrationRouter(service services.RegistrationServiceInterface) *gin.Engine {
	handler := NewRegistrationHandler(service)
	router := gin.New()
	router.POST("/register/:role", handler.Register)
	router.POST("/register/:role/complete", handler.Complete)
	return router
}

func TestRegistrationHandler_Register_Student(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	var staged *models.PendingRegistration
	mockService.On("Stage", mock.Anything, mock.AnythingOfType("*models.PendingRegistration")).
		Run(func(args mock.Arguments) {
			staged = args.Get(1).(*models.PendingRegistration)
		}).
		Return(&models.SubmitRegistrationResponse{Success: true, Message: "Verification code sent"}, nil).Once()

	body := `{
		"email": "student@example.com",
		"password": "password123",
		"firstName": "Grace",
		"lastName": "Hopper",
		"university": "Test University",
		"program": "Computer Science",
		"yearOfStudy": 2
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/student", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, staged)
	assert.Equal(t, models.RoleStudent, staged.Role)
	assert.Equal(t, "Test University", staged.Organization)
	assert.Equal(t, "Computer Science, Year 2", staged.Position)
	mockService.AssertExpectations(t)
}

func TestRegistrationHandler_Register_IndustryExpert(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	var staged *models.PendingRegistration
	mockService.On("Stage", mock.Anything, mock.AnythingOfType("*models.PendingRegistration")).
		Run(func(args mock.Arguments) {
			staged = args.Get(1).(*models.PendingRegistration)
		}).
		Return(&models.SubmitRegistrationResponse{Success: true}, nil).Once()

	body := `{
		"email": "expert@example.com",
		"password": "password123",
		"firstName": "Alan",
		"lastName": "Kay",
		"company": "Example Corp",
		"designation": "Principal Engineer",
		"expertise": "Distributed systems"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/industryexpert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, staged)
	assert.Equal(t, models.RoleIndustryExpert, staged.Role)
	assert.Equal(t, "Example Corp", staged.Organization)
}

func TestRegistrationHandler_Register_UnknownRole(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/wizard", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertNotCalled(t, "Stage")
}

func TestRegistrationHandler_Register_MissingRoleFields(t *testing.T) {
	// A faculty form is not a valid student form: role-specific fields are
	// required per role.
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	body := `{
		"email": "student@example.com",
		"password": "password123",
		"firstName": "Grace",
		"lastName": "Hopper",
		"department": "Physics",
		"designation": "Professor"
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/student", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	mockService.AssertNotCalled(t, "Stage")
}

func TestRegistrationHandler_Register_EmailTaken(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	mockService.On("Stage", mock.Anything, mock.AnythingOfType("*models.PendingRegistration")).
		Return(nil, services.ErrEmailTaken).Once()

	body := `{
		"email": "student@example.com",
		"password": "password123",
		"firstName": "Grace",
		"lastName": "Hopper",
		"university": "Test University",
		"program": "Computer Science",
		"yearOfStudy": 2
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/student", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegistrationHandler_Complete(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	mockService.On("Finalize", mock.Anything, models.RoleFaculty, "faculty@example.com").
		Return(&models.FinalizeRegistrationResponse{
			Success:  true,
			Message:  "Registration successful. You can now log in.",
			Redirect: "/auth/login-user",
		}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/faculty/complete",
		strings.NewReader(`{"email":"faculty@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/auth/login-user"`)
	mockService.AssertExpectations(t)
}

func TestRegistrationHandler_Complete_NotVerified(t *testing.T) {
	mockService := new(MockRegistrationService)
	router := registrationRouter(mockService)

	mockService.On("Finalize", mock.Anything, models.RoleStudent, "student@example.com").
		Return(nil, services.ErrOtpNotVerified).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/register/student/complete",
		strings.NewReader(`{"email":"student@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
