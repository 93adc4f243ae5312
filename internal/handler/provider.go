// Package handler 提供 HTTP 请求处理层
// 本文件实现 Handler 层的依赖注入和聚合
package handler

import (
	"guard_bot_server/internal/config"
	"guard_bot_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
type Handlers struct {
	Auth    *AuthHandler    // 管理端认证
	Request *RequestHandler // 入群申请管理
}

// NewHandlers 创建并注入所有 Handler 实例
func NewHandlers(services *service.Services, conf *config.Config) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(conf),
		Request: NewRequestHandler(services.Moderation, services.Lifecycle),
	}
}
