package models

import "time"

// User is an account row in the users table. PasswordHash is a bcrypt hash
// and never leaves the repository layer.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	FirstName    string
	LastName     string
	Organization string
	Position     string
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the authoritative identity returned by the profile-resolution
// endpoint. The route guard re-fetches this on every guarded request instead
// of trusting anything the client cached.
type Profile struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Name     string `json:"name"`
	Redirect string `json:"redirect"`
}
