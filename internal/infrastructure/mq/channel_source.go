package mq

import (
	"context"

	"go.uber.org/zap"

	"guard_bot_server/internal/dto/event"
	"guard_bot_server/pkg/constants"
)

// ChannelEventSource channel 模式的事件源
// 进程内传输层绑定通过 Publish 注入事件，本地联调和测试使用
type ChannelEventSource struct {
	ch      chan event.TransportEvent
	handler EventHandler
}

// NewChannelEventSource 创建 channel 事件源
func NewChannelEventSource(handler EventHandler) *ChannelEventSource {
	return &ChannelEventSource{
		ch:      make(chan event.TransportEvent, constants.EVENT_CHANNEL_SIZE),
		handler: handler,
	}
}

// Publish 注入一条事件
// Close 之后不得再调用
func (s *ChannelEventSource) Publish(ev event.TransportEvent) {
	s.ch <- ev
}

// Start 启动消费循环
func (s *ChannelEventSource) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-s.ch:
				if !ok {
					return
				}
				if err := s.handler.Handle(ctx, ev); err != nil {
					zap.L().Error("事件处理失败",
						zap.String("type", ev.Type),
						zap.String("requesterId", ev.RequesterId),
						zap.Error(err),
					)
				}
			}
		}
	}()
}

// Close 关闭事件通道
func (s *ChannelEventSource) Close() error {
	close(s.ch)
	return nil
}
