package handlers

import (
	"errors"
	"net/http"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/gin-gonic/gin"
)

// OtpHandler handles OTP challenge endpoints
type OtpHandler struct {
	service services.OtpServiceInterface
}

// NewOtpHandler creates a new OtpHandler
func NewOtpHandler(service services.OtpServiceInterface) *OtpHandler {
	return &OtpHandler{
		service: service,
	}
}

// Generate handles POST /api/v1/auth/otp
// Opens a fresh challenge for the email, displacing any previous one
func (h *OtpHandler) Generate(c *gin.Context) {
	var req models.GenerateOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	if err := h.service.Generate(c.Request.Context(), req.Email, ""); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to send verification code", err)
		return
	}

	c.JSON(http.StatusOK, models.OtpResponse{
		Success: true,
		Message: "Verification code sent",
	})
}

// Verify handles POST /api/v1/auth/otp/verify
// A correct code moves the challenge to verified; a wrong, expired or
// replayed code all come back as the same rejection.
func (h *OtpHandler) Verify(c *gin.Context) {
	var req models.VerifyOtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	if err := h.service.Verify(c.Request.Context(), req.Email, *req.Otp); err != nil {
		if errors.Is(err, services.ErrInvalidOtp) {
			attachError(c, err)
			c.JSON(http.StatusUnauthorized, models.OtpResponse{
				Error: "Invalid or expired verification code",
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, models.OtpResponse{
		Success: true,
		Message: "Email verified",
	})
}

// Resend handles PATCH /api/v1/auth/otp
// The body is the raw email string, not JSON. A staged registration payload,
// if any, is left untouched; only the challenge is replaced.
func (h *OtpHandler) Resend(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		respondError(c, http.StatusBadRequest, "Email is required", err)
		return
	}

	email := string(body)
	if err := h.service.Resend(c.Request.Context(), email); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to resend verification code", err)
		return
	}

	c.JSON(http.StatusOK, models.OtpResponse{
		Success: true,
		Message: "Verification code resent",
	})
}
