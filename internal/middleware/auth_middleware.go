package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/coursehub/internal/app/auth"
	"github.com/yigit/coursehub/internal/app/models"
	"github.com/yigit/coursehub/internal/pkg/apperrors"
	jwtauth "github.com/yigit/coursehub/internal/pkg/auth"
)

// IdentityKey is the gin context key holding the caller's *auth.Identity.
const IdentityKey = "identity"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *jwtauth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *jwtauth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// JWTAuth validates the bearer token and stores the caller's identity.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from Authorization header
		tokenString, err := jwtauth.ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			HandleAPIError(c, apperrors.NewCustomError(apperrors.ErrUnauthorized, "Authorization header missing or malformed"))
			return
		}

		// Validate token; expired and invalid tokens map to distinct codes
		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		// Store identity in context for the policy guard and handlers
		c.Set(IdentityKey, &auth.Identity{
			UserID:   claims.UserID,
			Email:    claims.Email,
			RoleType: models.RoleType(claims.RoleType),
		})
		c.Next()
	}
}

// RequirePolicy rejects the request unless the caller satisfies policy.
func RequirePolicy(policy auth.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(GetIdentity(c), policy); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by JWTAuth, or nil.
func GetIdentity(c *gin.Context) *auth.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
