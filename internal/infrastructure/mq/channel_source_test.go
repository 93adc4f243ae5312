package mq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard_bot_server/internal/dto/event"
)

// collectingHandler 收集经过的事件
type collectingHandler struct {
	mu     sync.Mutex
	events []event.TransportEvent
	done   chan struct{} // 收到 want 条事件后关闭
	want   int
}

func newCollectingHandler(want int) *collectingHandler {
	return &collectingHandler{done: make(chan struct{}), want: want}
}

func (h *collectingHandler) HandleRaw(ctx context.Context, raw []byte) error {
	panic("channel source delivers typed events")
}

func (h *collectingHandler) Handle(ctx context.Context, ev event.TransportEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	if len(h.events) == h.want {
		close(h.done)
	}
	return nil
}

func TestChannelSourceDeliversInOrder(t *testing.T) {
	handler := newCollectingHandler(3)
	source := NewChannelEventSource(handler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	source.Start(ctx)

	source.Publish(event.TransportEvent{Type: event.TypeJoinRequest, RequesterId: "U20001"})
	source.Publish(event.TransportEvent{Type: event.TypePrivateMessage, RequesterId: "U20001"})
	source.Publish(event.TransportEvent{Type: event.TypeDecision, RequesterId: "U20001"})

	select {
	case <-handler.done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not delivered in time")
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	require.Len(t, handler.events, 3)
	assert.Equal(t, event.TypeJoinRequest, handler.events[0].Type)
	assert.Equal(t, event.TypePrivateMessage, handler.events[1].Type)
	assert.Equal(t, event.TypeDecision, handler.events[2].Type)
}

func TestChannelSourceStopsOnContextCancel(t *testing.T) {
	handler := newCollectingHandler(1)
	source := NewChannelEventSource(handler)

	ctx, cancel := context.WithCancel(context.Background())
	source.Start(ctx)
	cancel()

	// 取消后消费循环退出，Close 不应 panic
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, source.Close())
}
