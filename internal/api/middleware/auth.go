package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/pkg/jwt"
	"task-tracker/pkg/constants"
	"task-tracker/pkg/utils"
)

// AuthMiddleware JWT认证中间件，只接受 access 类型的 Token
func AuthMiddleware(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取Authorization header
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorWithCode(c, 401, "缺少Authorization Header")
			c.Abort()
			return
		}

		// 检查Bearer前缀
		if !strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
			utils.ErrorWithCode(c, 401, "Authorization格式错误")
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix)

		claims, err := issuer.ValidateToken(token, constants.JWTTypeAccess)
		if err != nil {
			utils.Error(c, err)
			c.Abort()
			return
		}

		// 将用户信息存入context
		c.Set(constants.ContextUserIDKey, claims.UserID)
		c.Set(constants.ContextClaimsKey, claims)

		c.Next()
	}
}

// BearerToken 提取 Authorization 头中的 Token，格式不符时返回空串
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix)
}
