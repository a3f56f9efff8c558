package models

import "time"

// OTP challenge states. A challenge is single-use: pending until the code is
// verified, verified until the flow that requested it (registration finalize
// or password reset) consumes it, then dead. A second verify attempt against
// the same challenge fails.
const (
	OtpStatusPending  = "pending"
	OtpStatusVerified = "verified"
	OtpStatusConsumed = "consumed"
)

// OtpCodeLength is the number of digits in a challenge code.
const OtpCodeLength = 6

// OtpChallenge is a row in the otp_challenges table. At most one live
// challenge exists per email; requesting a new code replaces the old row.
type OtpChallenge struct {
	ID         string
	Email      string
	Code       string
	Role       Role // empty for forgot-password challenges
	Status     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	VerifiedAt *time.Time
	ConsumedAt *time.Time
}

// GenerateOtpRequest is the payload for POST /api/v1/auth/otp.
type GenerateOtpRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// VerifyOtpRequest is the payload for POST /api/v1/auth/otp/verify. The
// frontend concatenates the per-digit inputs into one integer. Otp is a
// pointer so an all-zeros code survives the required check.
type VerifyOtpRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Otp   *int   `json:"otp" binding:"required,min=0,max=999999"`
}

// OtpResponse is the common success/failure shape for OTP endpoints.
type OtpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
