// Package router 提供 HTTP 路由注册
// 本文件定义认证相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册认证相关路由
// 凭管理端口令换取 JWT Token，无需认证即可访问
func (rt *Router) RegisterAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/auth")
	{
		// POST /auth/token - 管理端登录，口令换 Token
		authGroup.POST("/token", rt.handlers.Auth.GetToken)
		// POST /auth/refresh - 刷新 Access Token
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}
}
