package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tasmeem-studio/tasmeem-api/models"
	"github.com/tasmeem-studio/tasmeem-api/policy"
	"github.com/tasmeem-studio/tasmeem-api/services"
)

const principalKey = "principal"

// RequireAuth resolves the session token into a principal and aborts with
// 401 when none can be resolved. Absence of a valid token is a normal
// outcome here, never a panic: unauthenticated requests short-circuit
// before any resource lookup happens downstream.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found || tokenString == "" {
			abortUnauthenticated(c)
			return
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		c.Set(principalKey, policy.Principal{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireRole aborts with 403 unless the resolved principal has one of the
// given roles. Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := GetPrincipal(c)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "ليس لديك صلاحية للوصول إلى هذا المورد",
			},
		})
	}
}

// GetPrincipal extracts the resolved principal from the Gin context
func GetPrincipal(c *gin.Context) (policy.Principal, error) {
	value, exists := c.Get(principalKey)
	if !exists {
		return policy.Principal{}, &AuthError{Code: "MISSING_PRINCIPAL", Message: "Principal not found in context"}
	}

	principal, ok := value.(policy.Principal)
	if !ok {
		return policy.Principal{}, &AuthError{Code: "INVALID_PRINCIPAL", Message: "Principal is not in the expected format"}
	}

	return principal, nil
}

// SetPrincipal stores a principal in the Gin context (primarily for testing)
func SetPrincipal(c *gin.Context, p policy.Principal) {
	c.Set(principalKey, p)
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "يجب تسجيل الدخول أولاً",
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
