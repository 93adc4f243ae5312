package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard_bot_server/internal/config"
	"guard_bot_server/internal/dto/event"
	"guard_bot_server/internal/gateway"
	"guard_bot_server/pkg/errorx"
)

// recordingLifecycle 记录被调用的操作，可注入决策错误
type recordingLifecycle struct {
	joins     []string
	responses []string
	decisions []string
	expires   []string

	decisionErr error
}

func (r *recordingLifecycle) OnJoinRequest(ctx context.Context, requesterId, chatId, label string) error {
	r.joins = append(r.joins, requesterId)
	return nil
}

func (r *recordingLifecycle) OnRequesterResponse(ctx context.Context, requesterId, content, sourceChatId, sourceMessageId string) error {
	r.responses = append(r.responses, requesterId)
	return nil
}

func (r *recordingLifecycle) OnDecision(ctx context.Context, actorId, requesterId, action, messageRef string) error {
	r.decisions = append(r.decisions, requesterId)
	return r.decisionErr
}

func (r *recordingLifecycle) OnExpire(ctx context.Context, requesterId, chatId string) error {
	r.expires = append(r.expires, requesterId)
	return nil
}

// recordingGateway 只记录 SendDirect，其余方法不会被分发器调用
type recordingGateway struct {
	sent []string // identity + "|" + text
}

func (g *recordingGateway) SendDirect(ctx context.Context, identity, text string, controls []gateway.Control) error {
	g.sent = append(g.sent, identity+"|"+text)
	return nil
}
func (g *recordingGateway) Forward(ctx context.Context, identity, sourceChat, sourceMessage string) error {
	return nil
}
func (g *recordingGateway) ApproveMembership(ctx context.Context, chatId, identity string) error {
	return nil
}
func (g *recordingGateway) DeclineMembership(ctx context.Context, chatId, identity string) error {
	return nil
}
func (g *recordingGateway) UpdateMessage(ctx context.Context, identity, messageRef, newText string) error {
	return nil
}

func newTestDispatcher() (*Dispatcher, *recordingLifecycle, *recordingGateway) {
	lifecycle := &recordingLifecycle{}
	gw := &recordingGateway{}
	conf := &config.BotConfig{ModeratorId: "U10000"}
	return NewDispatcher(lifecycle, gw, conf), lifecycle, gw
}

func TestHandleRoutesJoinRequest(t *testing.T) {
	d, lifecycle, _ := newTestDispatcher()

	err := d.Handle(context.Background(), event.TransportEvent{
		Type:        event.TypeJoinRequest,
		RequesterId: "U20001",
		ChatId:      "G30001",
		Label:       "小明",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"U20001"}, lifecycle.joins)
}

func TestHandleRoutesPrivateMessage(t *testing.T) {
	d, lifecycle, _ := newTestDispatcher()

	err := d.Handle(context.Background(), event.TransportEvent{
		Type:            event.TypePrivateMessage,
		RequesterId:     "U20001",
		Content:         "你好",
		SourceChatId:    "P1",
		SourceMessageId: "M1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"U20001"}, lifecycle.responses)
}

func TestHandleRoutesDecision(t *testing.T) {
	d, lifecycle, _ := newTestDispatcher()

	err := d.Handle(context.Background(), event.TransportEvent{
		Type:        event.TypeDecision,
		RequesterId: "U20001",
		ActorId:     "U10000",
		Action:      gateway.ActionApprove,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"U20001"}, lifecycle.decisions)
}

func TestHandleUnknownEventType(t *testing.T) {
	d, _, _ := newTestDispatcher()

	err := d.Handle(context.Background(), event.TransportEvent{Type: "poll"})
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

// 已归档的决策失败被消化：反馈操作者，不向事件源冒泡
func TestHandleConsumesBenignDecisionErrors(t *testing.T) {
	benign := []error{
		errorx.New(errorx.CodeUnauthorized, "仅管理员可以处理申请"),
		errorx.Newf(errorx.CodeAlreadyDecided, "申请已处理: approved"),
		errorx.Newf(errorx.CodeNotFound, "申请 U20001 不存在"),
		errorx.New(errorx.CodeMembershipError, "入群通过操作失败"),
	}
	for _, cause := range benign {
		d, lifecycle, gw := newTestDispatcher()
		lifecycle.decisionErr = cause

		err := d.Handle(context.Background(), event.TransportEvent{
			Type:        event.TypeDecision,
			RequesterId: "U20001",
			ActorId:     "U55555",
			Action:      gateway.ActionApprove,
		})
		require.NoError(t, err, "benign error %v must not bubble up", cause)

		// 操作者收到失败原因反馈
		require.Len(t, gw.sent, 1)
		assert.Contains(t, gw.sent[0], "U55555|⚠️")
	}
}

// 基础设施类错误必须冒泡，由事件源记日志
func TestHandlePropagatesInfrastructureErrors(t *testing.T) {
	d, lifecycle, gw := newTestDispatcher()
	lifecycle.decisionErr = errorx.New(errorx.CodeDBError, "connection refused")

	err := d.Handle(context.Background(), event.TransportEvent{
		Type:        event.TypeDecision,
		RequesterId: "U20001",
		ActorId:     "U10000",
		Action:      gateway.ActionApprove,
	})
	require.Error(t, err)
	assert.Empty(t, gw.sent)
}

func TestHandleRawMalformedJSON(t *testing.T) {
	d, _, _ := newTestDispatcher()

	err := d.HandleRaw(context.Background(), []byte("{not json"))
	require.Error(t, err)
	assert.Equal(t, errorx.CodeInvalidParam, errorx.GetCode(err))
}

func TestHandleRawRoundTrip(t *testing.T) {
	d, lifecycle, _ := newTestDispatcher()

	raw := []byte(`{"type":"join_request","requesterId":"U20001","chatId":"G30001","label":"小明"}`)
	require.NoError(t, d.HandleRaw(context.Background(), raw))
	assert.Equal(t, []string{"U20001"}, lifecycle.joins)
}
