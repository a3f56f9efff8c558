package models

import "time"

// ProfilePictureData carries an optional base64-encoded profile picture
// submitted with a registration form.
type ProfilePictureData struct {
	Image       string `json:"image"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// StudentRegistrationRequest is the registration form for the Student role.
type StudentRegistrationRequest struct {
	Email          string             `json:"email" binding:"required,email,max=255"`
	Password       string             `json:"password" binding:"required,min=8,max=128"`
	FirstName      string             `json:"firstName" binding:"required,max=100"`
	LastName       string             `json:"lastName" binding:"required,max=100"`
	University     string             `json:"university" binding:"required,max=255"`
	Program        string             `json:"program" binding:"required,max=255"`
	YearOfStudy    int                `json:"yearOfStudy" binding:"required,min=1,max=10"`
	ProfilePicture ProfilePictureData `json:"profilePicture"`
}

// FacultyRegistrationRequest is the registration form for the Faculty role.
type FacultyRegistrationRequest struct {
	Email          string             `json:"email" binding:"required,email,max=255"`
	Password       string             `json:"password" binding:"required,min=8,max=128"`
	FirstName      string             `json:"firstName" binding:"required,max=100"`
	LastName       string             `json:"lastName" binding:"required,max=100"`
	University     string             `json:"university" binding:"required,max=255"`
	Department     string             `json:"department" binding:"required,max=255"`
	Designation    string             `json:"designation" binding:"required,max=255"`
	ProfilePicture ProfilePictureData `json:"profilePicture"`
}

// IndustryExpertRegistrationRequest is the registration form for the
// IndustryExpert role.
type IndustryExpertRegistrationRequest struct {
	Email          string             `json:"email" binding:"required,email,max=255"`
	Password       string             `json:"password" binding:"required,min=8,max=128"`
	FirstName      string             `json:"firstName" binding:"required,max=100"`
	LastName       string             `json:"lastName" binding:"required,max=100"`
	Company        string             `json:"company" binding:"required,max=255"`
	Designation    string             `json:"designation" binding:"required,max=255"`
	Expertise      string             `json:"expertise" binding:"required,max=1000"`
	ProfilePicture ProfilePictureData `json:"profilePicture"`
}

// UniversityAdminRegistrationRequest is the registration form for the
// UniversityAdmin role.
type UniversityAdminRegistrationRequest struct {
	Email          string             `json:"email" binding:"required,email,max=255"`
	Password       string             `json:"password" binding:"required,min=8,max=128"`
	FirstName      string             `json:"firstName" binding:"required,max=100"`
	LastName       string             `json:"lastName" binding:"required,max=100"`
	University     string             `json:"university" binding:"required,max=255"`
	OfficeContact  string             `json:"officeContact" binding:"required,max=100"`
	ProfilePicture ProfilePictureData `json:"profilePicture"`
}

// PendingRegistration is the normalized form of a role-specific registration
// request, staged between form submission and OTP confirmation. It is held
// only in the ephemeral staging store, never in the database.
type PendingRegistration struct {
	Email          string
	Password       string
	Role           Role
	FirstName      string
	LastName       string
	Organization   string
	Position       string
	ProfilePicture ProfilePictureData
	StagedAt       time.Time
}

// SubmitRegistrationResponse is returned after a registration form is staged
// and an OTP challenge has been dispatched.
type SubmitRegistrationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// FinalizeRegistrationResponse is returned after OTP-confirmed registration
// completes. Redirect points the client back at the login screen.
type FinalizeRegistrationResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
}
