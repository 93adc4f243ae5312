package gateway

import (
	"context"

	"go.uber.org/zap"
)

// LoggingGateway Gateway 的日志实现
// 本地联调用：所有外呼动作只打日志，不接真实传输层
type LoggingGateway struct{}

// NewLoggingGateway 创建日志网关实例
func NewLoggingGateway() *LoggingGateway {
	return &LoggingGateway{}
}

func (g *LoggingGateway) SendDirect(ctx context.Context, identity string, text string, controls []Control) error {
	zap.L().Info("gateway send_direct",
		zap.String("identity", identity),
		zap.String("text", text),
		zap.Int("controls", len(controls)),
	)
	return nil
}

func (g *LoggingGateway) Forward(ctx context.Context, identity string, sourceChat string, sourceMessage string) error {
	zap.L().Info("gateway forward",
		zap.String("identity", identity),
		zap.String("sourceChat", sourceChat),
		zap.String("sourceMessage", sourceMessage),
	)
	return nil
}

func (g *LoggingGateway) ApproveMembership(ctx context.Context, chatId string, identity string) error {
	zap.L().Info("gateway approve_membership",
		zap.String("chatId", chatId),
		zap.String("identity", identity),
	)
	return nil
}

func (g *LoggingGateway) DeclineMembership(ctx context.Context, chatId string, identity string) error {
	zap.L().Info("gateway decline_membership",
		zap.String("chatId", chatId),
		zap.String("identity", identity),
	)
	return nil
}

func (g *LoggingGateway) UpdateMessage(ctx context.Context, identity string, messageRef string, newText string) error {
	zap.L().Info("gateway update_message",
		zap.String("identity", identity),
		zap.String("messageRef", messageRef),
		zap.String("newText", newText),
	)
	return nil
}
