package handlers

import (
	"net/http"

	"github.com/bridgeit/bridgeit-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// HomeHandler serves the per-role landing endpoints behind the route guard.
// Each area's real content lives in the frontend; these endpoints confirm
// access and hand back the caller's identity for the dashboard shell.
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home handles GET /api/v1/{student,faculty,industryexpert,uniadmin}/home
// Reaching it at all means the route guard matched the caller's role.
func (h *HomeHandler) Home(c *gin.Context) {
	identity, err := middleware.GetIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId": identity.UserID,
		"email":  identity.Email,
		"role":   identity.Role,
		"area":   identity.Role.LandingRoute(),
	})
}
