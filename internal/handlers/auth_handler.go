package handlers

import (
	"errors"
	"net/http"

	"github.com/bridgeit/bridgeit-api/internal/middleware"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, logout, profile and password reset endpoints
type AuthHandler struct {
	service services.AuthServiceInterface
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service services.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		service: service,
	}
}

// Login handles POST /api/v1/auth/login
// Verifies credentials and issues a session token plus the role's landing route
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			attachError(c, err)
			c.JSON(http.StatusUnauthorized, models.LoginResponse{
				Error: "Invalid email or password",
			})
		case errors.Is(err, services.ErrUnknownRole):
			attachError(c, err)
			c.JSON(http.StatusForbidden, models.LoginResponse{
				Error: "Account role is not recognized",
			})
		case errors.Is(err, services.ErrJWTSecretNotSet):
			respondError(c, http.StatusInternalServerError, "Service temporarily unavailable", err)
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Profile handles GET /api/v1/auth/profile
// Returns the caller's identity as resolved by the route guard this request
func (h *AuthHandler) Profile(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	profile, err := h.service.ResolveProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, services.ErrProfileNotFound) {
			respondError(c, http.StatusNotFound, "Profile not found", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Logout handles POST /api/v1/auth/logout
// Sessions are stateless: the client discards the token, the server just
// confirms where to navigate next.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.LogoutResponse{
		Success:  true,
		Redirect: middleware.LoginRedirect,
	})
}

// ResetPassword handles POST /api/v1/auth/password/reset
// Requires a verified OTP challenge for the email; the challenge is consumed
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req.Email, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrOtpNotVerified) {
			respondError(c, http.StatusForbidden, "Email is not verified for a password reset", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Password updated. You can now log in.",
		"redirect": middleware.LoginRedirect,
	})
}
