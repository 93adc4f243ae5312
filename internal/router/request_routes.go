// Package router 提供 HTTP 路由注册
// 本文件定义入群申请管理相关的路由
package router

import (
	"github.com/gin-gonic/gin"

	"guard_bot_server/internal/infrastructure/middleware"
)

// RegisterRequestRoutes 注册入群申请管理路由（需要认证）
// 包括待处理列表、详情、回复记录查询以及管理端决策
func (rt *Router) RegisterRequestRoutes(r *gin.Engine) {
	requestGroup := r.Group("/requests")
	requestGroup.Use(middleware.JWTAuth())
	{
		requestGroup.GET("/pending", rt.handlers.Request.PendingRequests)              // 待处理申请列表
		requestGroup.GET("/:requesterId", rt.handlers.Request.RequestDetail)           // 申请详情
		requestGroup.GET("/:requesterId/responses", rt.handlers.Request.ResponseLog)   // 申请人回复记录
		requestGroup.POST("/decision", rt.handlers.Request.Decide)                     // 通过/拒绝申请
	}
}
