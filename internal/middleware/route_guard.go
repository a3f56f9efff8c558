package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/pkg/jwt"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/gin-gonic/gin"
)

const (
	// IdentityContextKey is the key used to store the caller identity in context
	IdentityContextKey = "auth_identity"

	// LoginRedirect is where every guard failure except a role mismatch sends
	// the client.
	LoginRedirect = "/auth/login-user"

	// UnauthorizedRedirect is where a role mismatch sends the client.
	UnauthorizedRedirect = "/unauthorized"
)

var (
	ErrIdentityNotFound = errors.New("identity not found in context")
	ErrInvalidIdentity  = errors.New("invalid identity type")
)

// Identity is the authenticated caller attached to the request context. The
// role in here was resolved from the users table during this request, never
// read from the token.
type Identity struct {
	UserID string
	Email  string
	Role   models.Role
}

// RoleResolver looks up the authoritative role for a user id.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (models.Role, error)
}

// AccessDecision is the outcome of matching a path against the route bindings.
type AccessDecision int

const (
	AccessAllow AccessDecision = iota
	AccessDenyRole
)

// ResolveAccess matches path against bindings in declaration order. The first
// matching prefix decides: the bound role passes, any other role is denied.
// A path no binding claims is allowed through for any authenticated caller.
func ResolveAccess(path string, role models.Role, bindings []models.RouteBinding) AccessDecision {
	for _, binding := range bindings {
		if strings.HasPrefix(path, binding.Prefix) {
			if role == binding.Role {
				return AccessAllow
			}
			return AccessDenyRole
		}
	}
	return AccessAllow
}

// RouteGuard authenticates the bearer token, re-resolves the caller's role
// from storage, and enforces the route bindings against the request path
// (with basePath stripped). The token proves identity only; a session minted
// before a role change still routes by the current role.
func RouteGuard(tokenManager *jwt.TokenManager, roles RoleResolver, basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			redirectToLogin(c, fmt.Errorf("missing bearer token"))
			return
		}

		claims, err := tokenManager.ValidateToken(token)
		if err != nil {
			redirectToLogin(c, fmt.Errorf("invalid session token: %w", err))
			return
		}

		// Authoritative role comes from the users table on every request.
		role, err := roles.ResolveRole(c.Request.Context(), claims.UserID)
		if err != nil {
			redirectToLogin(c, fmt.Errorf("role resolution failed: %w", err))
			return
		}

		path := strings.TrimPrefix(c.Request.URL.Path, basePath)
		if ResolveAccess(path, role, models.RouteBindings) == AccessDenyRole {
			attachGuardError(c, fmt.Errorf("role %s denied for %s", role, path))
			metrics.GuardDecisions.WithLabelValues("deny_role").Inc()
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "Forbidden",
				"redirect": UnauthorizedRedirect,
			})
			c.Abort()
			return
		}

		metrics.GuardDecisions.WithLabelValues("allow").Inc()
		c.Set(IdentityContextKey, &Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   role,
		})
		c.Next()
	}
}

// GetIdentity extracts the authenticated caller from context
func GetIdentity(c *gin.Context) (*Identity, error) {
	val, exists := c.Get(IdentityContextKey)
	if !exists {
		return nil, ErrIdentityNotFound
	}

	identity, ok := val.(*Identity)
	if !ok {
		return nil, ErrInvalidIdentity
	}

	return identity, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// redirectToLogin is the collapse point for every guard failure that is not a
// role mismatch: missing token, bad token, expired token, unknown user.
func redirectToLogin(c *gin.Context, err error) {
	attachGuardError(c, err)
	metrics.GuardDecisions.WithLabelValues("redirect_login").Inc()
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":    "Unauthorized",
		"redirect": LoginRedirect,
	})
	c.Abort()
}

func attachGuardError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}
