// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"guard_bot_server/internal/config"
	"guard_bot_server/internal/dao/mysql/repository"
	myredis "guard_bot_server/internal/dao/redis"
	"guard_bot_server/internal/gateway"
	"guard_bot_server/internal/service/lifecycle"
	"guard_bot_server/internal/service/moderation"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口：事件分发器、清理任务和 Handler 层都从这里取服务
type Services struct {
	Lifecycle  LifecycleService  // 生命周期引擎
	Moderation ModerationService // 管理端查询
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// cache: 缓存服务
// gw: 消息传输层网关
// conf: 机器人业务配置
func NewServices(repos *repository.Repositories, cache myredis.AsyncCacheService, gw gateway.Gateway, conf *config.BotConfig) *Services {
	return &Services{
		Lifecycle:  lifecycle.NewLifecycleService(repos, gw, cache, conf),
		Moderation: moderation.NewModerationService(repos, cache),
	}
}
