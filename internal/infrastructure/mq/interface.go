// Package mq 提供传输层入站事件的接入
// 支持两种模式：kafka（生产部署，事件经消息队列进入）
// 和 channel（本地/进程内绑定，事件走内存通道）
package mq

import (
	"context"

	"guard_bot_server/internal/dto/event"
)

// EventHandler 入站事件处理器接口
// 用于解耦 MQ 层和业务分发层的依赖关系
// MQ 层只需知道"有个东西能处理事件"，不需要知道具体实现
type EventHandler interface {
	// HandleRaw 处理原始 JSON 事件
	HandleRaw(ctx context.Context, raw []byte) error
	// Handle 处理已反序列化的事件
	Handle(ctx context.Context, ev event.TransportEvent) error
}

// EventSource 入站事件源
// Start 启动消费循环（非阻塞），ctx 取消即停止；Close 释放底层资源
type EventSource interface {
	Start(ctx context.Context)
	Close() error
}
