package middleware

import (
	"net/http"
	"strings"

	"leaveflow/internal/auth"
	"leaveflow/internal/model"
	"leaveflow/pkg/response"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware holds the token service the request guards verify against.
// Constructed explicitly in main — no ambient secret lookup.
type AuthMiddleware struct {
	tokens auth.TokenService
}

func NewAuthMiddleware(tokens auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Authenticate extracts and verifies the bearer token and attaches the
// resulting identity to the request context. Missing, malformed, invalid
// and expired credentials all fail closed with 401 before any handler runs.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authorization is missing"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid authorization format, expected 'Bearer <token>'"))
			return
		}

		claims, err := m.tokens.Verify(parts[1])
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		c.Set(identityKey, claims.Identity())
		c.Next()
	}
}

// RequireRole checks the attached identity's role against the allowed set.
// It composes after Authenticate; a request that skipped authentication is
// rejected rather than let through.
func (m *AuthMiddleware) RequireRole(allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied: insufficient permissions"))
	}
}

// GetIdentity returns the identity attached by Authenticate.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}
