// Package moderation 实现管理端只读查询服务
// 列表查询走缓存（cache-aside），生命周期引擎在每次状态变更时失效缓存
package moderation

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"guard_bot_server/internal/dao/mysql/repository"
	myredis "guard_bot_server/internal/dao/redis"
	"guard_bot_server/internal/dto/respond"
	"guard_bot_server/internal/model"
	"guard_bot_server/pkg/constants"
	"guard_bot_server/pkg/enum/join_request/request_status_enum"
	"guard_bot_server/pkg/errorx"
)

// pendingListCacheKey 待处理列表缓存键
// 生命周期引擎按 "pending_request_list*" 模式失效
const pendingListCacheKey = "pending_request_list"

// moderationService 管理端查询实现
type moderationService struct {
	repos *repository.Repositories
	cache myredis.AsyncCacheService
}

// NewModerationService 构造函数，注入 Repository 和 Cache 依赖
func NewModerationService(repos *repository.Repositories, cache myredis.AsyncCacheService) *moderationService {
	return &moderationService{
		repos: repos,
		cache: cache,
	}
}

// PendingRequests 待处理申请列表
func (m *moderationService) PendingRequests(ctx context.Context) ([]respond.JoinRequestRespond, error) {
	// 1. 尝试从缓存获取
	cached, err := m.cache.Get(ctx, pendingListCacheKey)
	if err == nil && cached != "" {
		var listRsp []respond.JoinRequestRespond
		if jsonErr := json.Unmarshal([]byte(cached), &listRsp); jsonErr == nil {
			return listRsp, nil
		} else {
			// 缓存内容损坏，记日志后回源数据库
			zap.L().Error("Unmarshal pending list cache error", zap.Error(jsonErr))
		}
	} else if err != nil {
		// Redis 出错不中断业务，回源数据库
		zap.L().Error("Redis get error", zap.Error(err))
	}

	// 2. 缓存未命中或出错，查询数据库
	reqs, err := m.repos.JoinRequest.FindByStatus(request_status_enum.PENDING)
	if err != nil {
		zap.L().Error("查询待处理申请失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	// 使用 make 初始化 len=0，确保序列化后是 [] 而不是 null
	listRsp := make([]respond.JoinRequestRespond, 0, len(reqs))
	for _, req := range reqs {
		listRsp = append(listRsp, toRequestRespond(&req))
	}

	// 3. 回写缓存（异步）
	m.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(listRsp)
		if err != nil {
			zap.L().Error("Marshal pending list error", zap.Error(err))
			return
		}
		if err := m.cache.Set(context.Background(), pendingListCacheKey, string(rspBytes), constants.PENDING_LIST_TTL); err != nil {
			zap.L().Error("Set cache error", zap.Error(err))
		}
	})

	return listRsp, nil
}

// RequestDetail 申请详情
func (m *moderationService) RequestDetail(ctx context.Context, requesterId string) (*respond.JoinRequestRespond, error) {
	req, err := m.repos.JoinRequest.FindByRequesterId(requesterId)
	if err != nil {
		return nil, err
	}
	rsp := toRequestRespond(req)
	return &rsp, nil
}

// ResponseLog 申请人的回复记录
func (m *moderationService) ResponseLog(ctx context.Context, requesterId string) ([]respond.ResponseRecordRespond, error) {
	records, err := m.repos.ResponseRecord.FindByRequesterId(requesterId)
	if err != nil {
		return nil, err
	}
	listRsp := make([]respond.ResponseRecordRespond, 0, len(records))
	for _, record := range records {
		listRsp = append(listRsp, respond.ResponseRecordRespond{
			Uuid:        record.Uuid,
			RequesterId: record.RequesterId,
			Content:     record.Content,
			ReceivedAt:  record.ReceivedAt.Format(time.DateTime),
		})
	}
	return listRsp, nil
}

// toRequestRespond 模型转管理端响应
func toRequestRespond(req *model.JoinRequest) respond.JoinRequestRespond {
	return respond.JoinRequestRespond{
		RequesterId:  req.RequesterId,
		OriginChatId: req.OriginChatId,
		DisplayLabel: req.DisplayLabel,
		Status:       request_status_enum.Label(req.Status),
		Notified:     req.Notified == 1,
		RequestedAt:  req.RequestedAt.Format(time.DateTime),
	}
}
