// Package dispatch 实现传输层事件到生命周期引擎的路由
// 所有已归档的业务异常（未授权/已处理/不存在/成员操作失败）
// 在这里被消化：反馈给操作者并记日志，绝不向事件源冒泡导致进程退出
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"guard_bot_server/internal/config"
	"guard_bot_server/internal/dto/event"
	"guard_bot_server/internal/gateway"
	"guard_bot_server/internal/service"
	"guard_bot_server/pkg/errorx"
)

// Dispatcher 事件分发器
type Dispatcher struct {
	lifecycle service.LifecycleService
	gw        gateway.Gateway
	conf      *config.BotConfig
}

// NewDispatcher 构造函数，注入引擎与网关
func NewDispatcher(lifecycle service.LifecycleService, gw gateway.Gateway, conf *config.BotConfig) *Dispatcher {
	return &Dispatcher{
		lifecycle: lifecycle,
		gw:        gw,
		conf:      conf,
	}
}

// HandleRaw 反序列化原始事件并分发
func (d *Dispatcher) HandleRaw(ctx context.Context, raw []byte) error {
	var ev event.TransportEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidParam, "事件反序列化失败")
	}
	return d.Handle(ctx, ev)
}

// Handle 按事件类型路由到引擎
func (d *Dispatcher) Handle(ctx context.Context, ev event.TransportEvent) error {
	switch ev.Type {
	case event.TypeJoinRequest:
		return d.lifecycle.OnJoinRequest(ctx, ev.RequesterId, ev.ChatId, ev.Label)

	case event.TypePrivateMessage:
		return d.lifecycle.OnRequesterResponse(ctx, ev.RequesterId, ev.Content, ev.SourceChatId, ev.SourceMessageId)

	case event.TypeDecision:
		err := d.lifecycle.OnDecision(ctx, ev.ActorId, ev.RequesterId, ev.Action, ev.MessageRef)
		if err == nil {
			return nil
		}
		switch errorx.GetCode(err) {
		case errorx.CodeUnauthorized, errorx.CodeAlreadyDecided, errorx.CodeNotFound, errorx.CodeMembershipError:
			// 已归档条件：反馈操作者后按已处理计
			zap.L().Info("决策未生效",
				zap.String("actorId", ev.ActorId),
				zap.String("requesterId", ev.RequesterId),
				zap.Error(err),
			)
			d.notifyActor(ctx, ev.ActorId, err)
			return nil
		}
		return err

	default:
		return errorx.Newf(errorx.CodeInvalidParam, "未知事件类型: %s", ev.Type)
	}
}

// notifyActor 将失败原因反馈给操作者，发送失败只记日志
func (d *Dispatcher) notifyActor(ctx context.Context, actorId string, cause error) {
	if actorId == "" {
		return
	}
	text := cause.Error()
	var codeErr *errorx.CodeError
	if errors.As(cause, &codeErr) {
		// 只反馈业务消息，不暴露底层错误细节
		text = codeErr.Msg
	}
	if err := d.gw.SendDirect(ctx, actorId, fmt.Sprintf("⚠️ %s", text), nil); err != nil {
		zap.L().Error("操作反馈发送失败", zap.String("actorId", actorId), zap.Error(err))
	}
}
