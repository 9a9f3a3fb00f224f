package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/caresync/hospital-api/internal/model"
	"github.com/caresync/hospital-api/pkg/auth"
	"github.com/caresync/hospital-api/pkg/httputil"
)

const ContextRequester = "requester"

type AuthMiddleware struct {
	jwt auth.JWTService
}

func NewAuthMiddleware(jwt auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticate verifies the bearer token and stores the caller's identity.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}
		if !model.Role(claims.Role).Valid() {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ContextRequester, claims.Requester())
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not in the allowed set.
// Superadmins always pass.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester := RequesterFrom(c)
		if requester.Role == model.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, role := range roles {
			if requester.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, httputil.Response{
			Success: false,
			Error:   "insufficient role",
		})
	}
}

// RequesterFrom extracts the authenticated caller set by Authenticate.
func RequesterFrom(c *gin.Context) model.Requester {
	v, ok := c.Get(ContextRequester)
	if !ok {
		return model.Requester{}
	}
	requester, _ := v.(model.Requester)
	return requester
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, httputil.Response{
		Success: false,
		Error:   msg,
	})
}
