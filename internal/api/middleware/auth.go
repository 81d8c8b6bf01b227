package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/philippe-delaval/Lesot-bon/internal/service"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/response"
)

// Context keys set by the auth middleware.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// RequireAuth validates the Bearer token, rejects revoked or non-access
// tokens, and stores the principal on the context.
func RequireAuth(jwtManager *jwt.Manager, auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, 10001, "missing authorization header")
			c.Abort()
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			response.Unauthorized(c, 10002, "authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(token)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				response.Unauthorized(c, 10003, "token expired")
			} else {
				response.Unauthorized(c, 10004, "token invalid")
			}
			c.Abort()
			return
		}
		if claims.TokenType != "access" {
			response.Unauthorized(c, 10004, "token invalid")
			c.Abort()
			return
		}
		if auth.IsRevoked(c.Request.Context(), claims.ID) {
			response.Unauthorized(c, 10005, "token revoked")
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole allows only the listed roles past. Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if !allowed[role] {
			response.Forbidden(c, 10006, "insufficient role")
			c.Abort()
			return
		}
		c.Next()
	}
}
