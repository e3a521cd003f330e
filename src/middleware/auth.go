package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rutdashboard/rut-dashboard-api/src/models"
	"github.com/rutdashboard/rut-dashboard-api/src/services"
)

// ClaimsKey is the context key of the authenticated identity
const ClaimsKey = "auth_claims"

// TokenVerifier verifies session tokens; *services.TokenService implements it
type TokenVerifier interface {
	Verify(token string) *services.Claims
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Authenticate requires a valid bearer token and stores its claims in the context
func Authenticate(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("Access token is required"))
			return
		}

		claims := tokens.Verify(token)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("Invalid or expired token"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Authorize admits only identities whose role is in roles.
// It must run after Authenticate.
func Authorize(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Failure("Authentication required"))
			return
		}

		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, models.Failure("Insufficient permissions"))
			return
		}

		c.Next()
	}
}

// GetClaims returns the authenticated identity, or nil
func GetClaims(c *gin.Context) *services.Claims {
	if v, exists := c.Get(ClaimsKey); exists {
		if claims, ok := v.(*services.Claims); ok {
			return claims
		}
	}
	return nil
}
