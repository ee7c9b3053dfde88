package middleware

import (
	"net/http"
	"strings"

	"Campus/config"
	appctx "Campus/pkg/context"
	"Campus/pkg/jwt"
	"Campus/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth 解析 Bearer token，把 user_id 和 role 写进请求上下文
func Auth(conf *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "缺少认证信息")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Abort(c, http.StatusUnauthorized, "认证格式错误")
			return
		}

		claims, err := jwt.ParseToken([]byte(conf.Jwt.Secret), "access", parts[1])
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "token 无效或已过期")
			return
		}

		c.Set(appctx.CtxUserID, claims.UserID)
		c.Set(appctx.CtxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin 仅管理员路由用，挂在 Auth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appctx.IsAdmin(c) {
			response.Abort(c, http.StatusForbidden, "需要管理员权限")
			return
		}
		c.Next()
	}
}
