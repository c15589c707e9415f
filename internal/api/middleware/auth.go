package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/response"
)

const ContextUserIDKey = "user_id"

// TokenParser 解析 access token
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

// Auth 校验 Bearer token 并注入 user_id
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization format")
			return
		}
		claims, err := parser.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// CurrentUserID 当前登录用户；未经过 Auth 时为空串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
