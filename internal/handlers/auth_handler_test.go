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

func TestAuthHandler_Login(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	mockService.On("Login", mock.Anything, "test@example.com", "password123").
		Return(&models.LoginResponse{
			Success:  true,
			Token:    "jwt-token",
			Redirect: "/student",
		}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"test@example.com","password":"password123"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"token":"jwt-token","redirect":"/student"}`, w.Body.String())
	mockService.AssertExpectations(t)
}

func TestAuthHandler_Login_BadCredentials(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	mockService.On("Login", mock.Anything, "test@example.com", "wrongpassword").
		Return(nil, services.ErrInvalidCredentials).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"test@example.com","password":"wrongpassword"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid email or password"}`, w.Body.String())
}

func TestAuthHandler_Login_ValidationFailure(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := gin.New()
	router.POST("/login", handler.Login)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login",
		strings.NewReader(`{"email":"not-an-email","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation failed")
	mockService.AssertNotCalled(t, "Login")
}

func TestAuthHandler_Logout(t *testing.T) {
	handler := NewAuthHandler(new(MockAuthService))
	router := gin.New()
	router.POST("/logout", handler.Logout)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/logout", http.NoBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"redirect":"/auth/login-user"}`, w.Body.String())
}

func TestAuthHandler_ResetPassword_WithoutVerifiedOtp(t *testing.T) {
	mockService := new(MockAuthService)
	handler := NewAuthHandler(mockService)
	router := gin.New()
	router.POST("/password/reset", handler.ResetPassword)

	mockService.On("ResetPassword", mock.Anything, "test@example.com", "newpassword1").
		Return(services.ErrOtpNotVerified).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/password/reset",
		strings.NewReader(`{"email":"test@example.com","newPassword":"newpassword1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "not verified")
}
