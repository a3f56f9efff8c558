package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RegistrationHandler handles role-specific registration endpoints
type RegistrationHandler struct {
	service services.RegistrationServiceInterface
	binders map[models.Role]registrationBinder
}

// registrationBinder binds a role-specific form and normalizes it into the
// staged representation. Each role carries different organization fields, so
// binding is the only per-role code in the flow.
type registrationBinder func(c *gin.Context) (*models.PendingRegistration, error)

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service services.RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		binders: map[models.Role]registrationBinder{
			models.RoleStudent:         bindStudent,
			models.RoleFaculty:         bindFaculty,
			models.RoleIndustryExpert:  bindIndustryExpert,
			models.RoleUniversityAdmin: bindUniversityAdmin,
		},
	}
}

// Register handles POST /api/v1/auth/register/:role
// Validates the role-specific form, stages it, and opens an OTP challenge
func (h *RegistrationHandler) Register(c *gin.Context) {
	role, ok := models.RoleFromParam(c.Param("role"))
	if !ok {
		respondError(c, http.StatusNotFound, "Unknown registration role", fmt.Errorf("unknown role param %q", c.Param("role")))
		return
	}

	pending, err := h.binders[role](c)
	if err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	resp, err := h.service.Stage(c.Request.Context(), pending)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			attachError(c, err)
			c.JSON(http.StatusConflict, models.SubmitRegistrationResponse{
				Error: "An account with this email already exists",
			})
			return
		}
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// finalizeRequest identifies which staged payload to confirm.
type finalizeRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}

// Complete handles POST /api/v1/auth/register/:role/complete
// Requires a verified OTP challenge; creates the account from the staged form
func (h *RegistrationHandler) Complete(c *gin.Context) {
	role, ok := models.RoleFromParam(c.Param("role"))
	if !ok {
		respondError(c, http.StatusNotFound, "Unknown registration role", fmt.Errorf("unknown role param %q", c.Param("role")))
		return
	}

	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationErrors := ParseValidationErrors(err)
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", validationErrors, err)
		return
	}

	resp, err := h.service.Finalize(c.Request.Context(), role, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoPendingRegistration):
			attachError(c, err)
			c.JSON(http.StatusNotFound, models.FinalizeRegistrationResponse{
				Error: "No pending registration for this email. Please fill the form again.",
			})
		case errors.Is(err, services.ErrOtpNotVerified):
			attachError(c, err)
			c.JSON(http.StatusForbidden, models.FinalizeRegistrationResponse{
				Error: "Email is not verified. Please verify the code sent to your inbox.",
			})
		default:
			respondError(c, http.StatusInternalServerError, "Internal server error", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

func bindStudent(c *gin.Context) (*models.PendingRegistration, error) {
	var req models.StudentRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &models.PendingRegistration{
		Email:          req.Email,
		Password:       req.Password,
		Role:           models.RoleStudent,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Organization:   req.University,
		Position:       req.Program + ", Year " + strconv.Itoa(req.YearOfStudy),
		ProfilePicture: req.ProfilePicture,
	}, nil
}

func bindFaculty(c *gin.Context) (*models.PendingRegistration, error) {
	var req models.FacultyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &models.PendingRegistration{
		Email:          req.Email,
		Password:       req.Password,
		Role:           models.RoleFaculty,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Organization:   req.University,
		Position:       req.Designation + ", " + req.Department,
		ProfilePicture: req.ProfilePicture,
	}, nil
}

func bindIndustryExpert(c *gin.Context) (*models.PendingRegistration, error) {
	var req models.IndustryExpertRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &models.PendingRegistration{
		Email:          req.Email,
		Password:       req.Password,
		Role:           models.RoleIndustryExpert,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Organization:   req.Company,
		Position:       req.Designation,
		ProfilePicture: req.ProfilePicture,
	}, nil
}

func bindUniversityAdmin(c *gin.Context) (*models.PendingRegistration, error) {
	var req models.UniversityAdminRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}
	return &models.PendingRegistration{
		Email:          req.Email,
		Password:       req.Password,
		Role:           models.RoleUniversityAdmin,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Organization:   req.University,
		Position:       "University Administrator",
		ProfilePicture: req.ProfilePicture,
	}, nil
}
