package middleware

import (
	"net/http"
	"strings"

	"guard_bot_server/internal/config"
	"guard_bot_server/pkg/errorx"
	"guard_bot_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth 管理端认证中间件
// 管理端只有管理员一个合法身份：除验证 Access Token 本身外，
// 还要求 Token 载荷中的身份就是配置的管理员，其余身份一律拒绝
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "请先获取管理端 Token")
			return
		}

		// 2. 解析 Bearer Token
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Token 格式错误，请使用 Bearer Token")
			return
		}

		// 3. 验证 Token
		claims, err := jwt.ParseToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新获取")
			return
		}

		// 4. 验证是否为 Access Token（Refresh Token 只能用于换发）
		if claims.Subject != "access_token" {
			abortUnauthorized(c, "请使用 Access Token 访问管理端接口")
			return
		}

		// 5. 身份必须是配置的管理员
		// 正常换发的 Token 身份总是管理员，这里防的是换过管理员配置后的旧 Token
		if claims.UserID != config.GetConfig().BotConfig.ModeratorId {
			abortUnauthorized(c, "仅管理员可以访问管理端接口")
			return
		}

		// 6. 将管理员身份存入上下文，供决策接口作为操作者使用
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// abortUnauthorized 以 401 终止请求
func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
	})
}
