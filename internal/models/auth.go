package models

// LoginRequest is the payload for POST /api/v1/auth/login. The binding tags
// mirror the frontend's own pre-submit checks (email shape, minimum password
// length) so malformed input fails fast without touching storage.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginResponse is returned after a successful login. Redirect carries the
// role's landing route so the client can navigate even if a follow-up
// profile-resolution call fails.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Token    string `json:"token,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}

// LogoutResponse is returned after logout. The token is discarded client-side;
// there is no server-side invalidation before natural expiry.
type LogoutResponse struct {
	Success  bool   `json:"success"`
	Redirect string `json:"redirect"`
}

// ResetPasswordRequest completes a forgot-password flow. The email must hold
// a verified, unconsumed OTP challenge.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=128"`
}
