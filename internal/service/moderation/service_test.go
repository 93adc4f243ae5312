package moderation

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard_bot_server/internal/dao/mysql/repository"
	"guard_bot_server/internal/dto/respond"
	"guard_bot_server/internal/model"
	"guard_bot_server/pkg/enum/join_request/request_status_enum"
	"guard_bot_server/pkg/errorx"
)

// memoryCache 记录读写的缓存替身，SubmitTask 同步执行
type memoryCache struct {
	mu      sync.Mutex
	data    map[string]string
	getErr  error
	setKeys []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.setKeys = append(c.setKeys, key)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.data[key], nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error          { return nil }
func (c *memoryCache) DeleteByPattern(ctx context.Context, p string) error   { return nil }
func (c *memoryCache) SubmitTask(action func())                              { action() }

// fakeRequestStore 只实现查询接口
type fakeRequestStore struct {
	rows  []model.JoinRequest
	calls int
}

func (f *fakeRequestStore) FindByRequesterId(requesterId string) (*model.JoinRequest, error) {
	for i := range f.rows {
		if f.rows[i].RequesterId == requesterId {
			return &f.rows[i], nil
		}
	}
	return nil, errorx.Newf(errorx.CodeNotFound, "申请 %s 不存在", requesterId)
}

func (f *fakeRequestStore) FindByStatus(status int8) ([]model.JoinRequest, error) {
	f.calls++
	var out []model.JoinRequest
	for _, r := range f.rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) FindStalePending(olderThan time.Duration) ([]model.JoinRequest, error) {
	panic("not used")
}
func (f *fakeRequestStore) Upsert(requesterId, chatId, label string) error { panic("not used") }
func (f *fakeRequestStore) UpdateStatusIfPending(requesterId string, status int8) error {
	panic("not used")
}
func (f *fakeRequestStore) MarkNotified(requesterId string) error { panic("not used") }

// fakeRecordStore 只实现查询接口
type fakeRecordStore struct {
	records []model.ResponseRecord
}

func (f *fakeRecordStore) Create(record *model.ResponseRecord) error { panic("not used") }
func (f *fakeRecordStore) FindByRequesterId(requesterId string) ([]model.ResponseRecord, error) {
	var out []model.ResponseRecord
	for _, r := range f.records {
		if r.RequesterId == requesterId {
			out = append(out, r)
		}
	}
	return out, nil
}

func pendingRow(requesterId string) model.JoinRequest {
	return model.JoinRequest{
		RequesterId:  requesterId,
		OriginChatId: "G30001",
		DisplayLabel: "小明",
		RequestedAt:  time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		Status:       request_status_enum.PENDING,
	}
}

func TestPendingRequestsCacheMissThenHit(t *testing.T) {
	store := &fakeRequestStore{rows: []model.JoinRequest{
		pendingRow("U20001"),
		{RequesterId: "U20002", Status: request_status_enum.APPROVED},
	}}
	cache := newMemoryCache()
	svc := NewModerationService(&repository.Repositories{JoinRequest: store}, cache)
	ctx := context.Background()

	// 首次查询回源数据库，只返回待处理行，并异步回写缓存
	list, err := svc.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "U20001", list[0].RequesterId)
	assert.Equal(t, "pending", list[0].Status)
	assert.Equal(t, 1, store.calls)
	assert.Contains(t, cache.setKeys, "pending_request_list")

	// 第二次命中缓存，不再访问数据库
	list, err = svc.PendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, store.calls, "second call must be served from cache")
}

func TestPendingRequestsEmptyListSerializesToArray(t *testing.T) {
	store := &fakeRequestStore{}
	cache := newMemoryCache()
	svc := NewModerationService(&repository.Repositories{JoinRequest: store}, cache)

	list, err := svc.PendingRequests(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

// 缓存内容损坏时回源数据库，并在回写后自愈
func TestPendingRequestsCorruptCacheFallsBackToDB(t *testing.T) {
	store := &fakeRequestStore{rows: []model.JoinRequest{pendingRow("U20001")}}
	cache := newMemoryCache()
	cache.data["pending_request_list"] = "{not json"
	svc := NewModerationService(&repository.Repositories{JoinRequest: store}, cache)

	list, err := svc.PendingRequests(context.Background())
	require.NoError(t, err, "corrupt cache must not break the listing")
	require.Len(t, list, 1)
	assert.Equal(t, 1, store.calls)

	// 回写覆盖了损坏内容，后续查询重新命中缓存
	list, err = svc.PendingRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, store.calls)
}

func TestPendingRequestsCacheErrorFallsBackToDB(t *testing.T) {
	store := &fakeRequestStore{rows: []model.JoinRequest{pendingRow("U20001")}}
	cache := newMemoryCache()
	cache.getErr = errorx.New(errorx.CodeCacheError, "redis down")
	svc := NewModerationService(&repository.Repositories{JoinRequest: store}, cache)

	list, err := svc.PendingRequests(context.Background())
	require.NoError(t, err, "cache failure must not break the listing")
	require.Len(t, list, 1)
	assert.Equal(t, 1, store.calls)
}

func TestRequestDetail(t *testing.T) {
	row := pendingRow("U20001")
	row.Notified = 1
	store := &fakeRequestStore{rows: []model.JoinRequest{row}}
	svc := NewModerationService(&repository.Repositories{JoinRequest: store}, newMemoryCache())

	detail, err := svc.RequestDetail(context.Background(), "U20001")
	require.NoError(t, err)
	assert.Equal(t, &respond.JoinRequestRespond{
		RequesterId:  "U20001",
		OriginChatId: "G30001",
		DisplayLabel: "小明",
		Status:       "pending",
		Notified:     true,
		RequestedAt:  "2026-08-30 10:00:00",
	}, detail)

	_, err = svc.RequestDetail(context.Background(), "U99999")
	require.Error(t, err)
	assert.Equal(t, errorx.CodeNotFound, errorx.GetCode(err))
}

func TestResponseLog(t *testing.T) {
	records := &fakeRecordStore{records: []model.ResponseRecord{
		{Uuid: "R1", RequesterId: "U20001", Content: "我是隔壁班的", ReceivedAt: time.Date(2026, 8, 30, 10, 5, 0, 0, time.UTC)},
		{Uuid: "R2", RequesterId: "U20001", Content: "<non-text message>", ReceivedAt: time.Date(2026, 8, 30, 10, 6, 0, 0, time.UTC)},
	}}
	svc := NewModerationService(&repository.Repositories{ResponseRecord: records}, newMemoryCache())

	log, err := svc.ResponseLog(context.Background(), "U20001")
	require.NoError(t, err)
	require.Len(t, log, 2)
	assert.Equal(t, "我是隔壁班的", log[0].Content)
	assert.Equal(t, "2026-08-30 10:06:00", log[1].ReceivedAt)
}
