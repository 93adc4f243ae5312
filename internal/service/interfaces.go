// Package service 提供业务逻辑层
// 本文件定义 Service 层接口
package service

import (
	"context"

	"guard_bot_server/internal/dto/respond"
)

// LifecycleService 入群申请生命周期引擎
// 申请的全部状态变更都经由这里，保证恰好一次处理：
// 同一申请人的竞争操作通过 Store 的条件更新串行化，引擎本身不加锁
type LifecycleService interface {
	// OnJoinRequest 处理入群申请事件：创建/重置待处理记录并发送验证消息
	// 验证消息发送失败不影响申请状态，仅告警管理员
	OnJoinRequest(ctx context.Context, requesterId, chatId, label string) error

	// OnRequesterResponse 处理申请人私聊回复：
	// 申请不存在或已关闭时静默丢弃；否则落库、转发给管理员并附决策按钮
	OnRequesterResponse(ctx context.Context, requesterId, content, sourceChatId, sourceMessageId string) error

	// OnDecision 处理管理员决策（approve/decline）
	// 非管理员返回 CodeUnauthorized；申请不存在返回 CodeNotFound；
	// 已是终态返回 CodeAlreadyDecided；成员操作失败返回 CodeMembershipError 且状态不变
	OnDecision(ctx context.Context, actorId, requesterId, action, messageRef string) error

	// OnExpire 以系统权限关闭超时申请，仅清理任务调用
	// 终态保护与 OnDecision 相同：已被处理的申请不会被覆盖为超时
	OnExpire(ctx context.Context, requesterId, chatId string) error
}

// ModerationService 管理端查询服务
// 只读，不参与生命周期状态变更
type ModerationService interface {
	// PendingRequests 待处理申请列表（带缓存）
	PendingRequests(ctx context.Context) ([]respond.JoinRequestRespond, error)
	// RequestDetail 申请详情
	RequestDetail(ctx context.Context, requesterId string) (*respond.JoinRequestRespond, error)
	// ResponseLog 申请人的回复记录
	ResponseLog(ctx context.Context, requesterId string) ([]respond.ResponseRecordRespond, error)
}
