// kafka_source.go
// 核心职责：Kafka 事件源
// 1. 封装 Kafka 底层连接 (Reader)
// 2. 消费传输层事件并交给 EventHandler
// 3. 纯技术组件，不包含守门业务逻辑
package mq

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"guard_bot_server/internal/config"
)

// KafkaEventSource Kafka 模式的事件源
type KafkaEventSource struct {
	reader  *kafka.Reader
	handler EventHandler
}

// NewKafkaEventSource 创建 Kafka 事件源
func NewKafkaEventSource(conf *config.KafkaConfig, handler EventHandler) *KafkaEventSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{conf.HostPort},
		Topic:          conf.EventTopic,
		GroupID:        conf.GroupID,
		CommitInterval: conf.Timeout * time.Second,
		StartOffset:    kafka.LastOffset,
	})
	return &KafkaEventSource{
		reader:  reader,
		handler: handler,
	}
}

// Start 启动消费循环
// 单条事件的处理错误只记日志，消费循环继续；ctx 取消即退出
func (s *KafkaEventSource) Start(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error(fmt.Sprintf("kafka event source panic: %v", r))
			}
		}()
		for {
			msg, err := s.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return // 正常关停
				}
				zap.L().Error("kafka read error", zap.Error(err))
				continue
			}
			zap.L().Debug("收到传输层事件",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
			)
			if err := s.handler.HandleRaw(ctx, msg.Value); err != nil {
				zap.L().Error("事件处理失败",
					zap.ByteString("event", msg.Value),
					zap.Error(err),
				)
			}
		}
	}()
}

// Close 关闭底层 Reader
func (s *KafkaEventSource) Close() error {
	return s.reader.Close()
}
