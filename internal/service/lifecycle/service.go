// Package lifecycle 实现入群申请生命周期引擎
// 状态机：pending -> {approved, declined, expired}，终态不可再变更
// 防止重复处理的关键在 Store 的条件更新（仅 pending 可变），引擎不做任何加锁
package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"guard_bot_server/internal/config"
	"guard_bot_server/internal/dao/mysql/repository"
	myredis "guard_bot_server/internal/dao/redis"
	"guard_bot_server/internal/gateway"
	"guard_bot_server/internal/model"
	"guard_bot_server/pkg/constants"
	"guard_bot_server/pkg/enum/join_request/request_status_enum"
	"guard_bot_server/pkg/errorx"
	"guard_bot_server/pkg/util/random"
)

// lifecycleService 生命周期引擎实现
// 通过构造函数注入 Repository、Gateway 和 Cache 依赖
type lifecycleService struct {
	repos *repository.Repositories
	gw    gateway.Gateway
	cache myredis.AsyncCacheService
	conf  *config.BotConfig
}

// NewLifecycleService 构造函数，注入所有依赖
func NewLifecycleService(repos *repository.Repositories, gw gateway.Gateway, cache myredis.AsyncCacheService, conf *config.BotConfig) *lifecycleService {
	return &lifecycleService{
		repos: repos,
		gw:    gw,
		cache: cache,
		conf:  conf,
	}
}

// OnJoinRequest 处理入群申请事件
// 创建/重置待处理记录，然后向申请人发送验证消息
// 发送失败时申请保持待处理（管理员仍可人工介入），仅向管理员告警
func (s *lifecycleService) OnJoinRequest(ctx context.Context, requesterId, chatId, label string) error {
	zap.L().Info("收到入群申请",
		zap.String("requesterId", requesterId),
		zap.String("chatId", chatId),
		zap.String("label", label),
	)

	if err := s.repos.JoinRequest.Upsert(requesterId, chatId, label); err != nil {
		zap.L().Error("创建申请记录失败", zap.Error(err))
		return err
	}
	s.invalidatePendingCache()

	if err := s.gw.SendDirect(ctx, requesterId, s.conf.ChallengeMessage, nil); err != nil {
		zap.L().Error("验证消息发送失败",
			zap.String("requesterId", requesterId),
			zap.Error(err),
		)
		// 告警管理员，失败只记日志
		warning := fmt.Sprintf("⚠️ 无法向申请人 %s 发送验证消息: %v", requesterId, err)
		if warnErr := s.gw.SendDirect(ctx, s.conf.ModeratorId, warning, nil); warnErr != nil {
			zap.L().Error("管理员告警发送失败", zap.Error(warnErr))
		}
	}
	return nil
}

// OnRequesterResponse 处理申请人私聊回复
// 申请不存在或已关闭时静默丢弃（不落库，仅记日志）；
// 待处理申请的回复会落库、转发给管理员并附决策按钮，最后标记已通知
func (s *lifecycleService) OnRequesterResponse(ctx context.Context, requesterId, content, sourceChatId, sourceMessageId string) error {
	req, err := s.repos.JoinRequest.FindByRequesterId(requesterId)
	if err != nil {
		if errorx.IsNotFound(err) {
			zap.L().Info("忽略无申请记录的消息", zap.String("requesterId", requesterId))
			return nil
		}
		return err
	}
	if request_status_enum.IsTerminal(req.Status) {
		zap.L().Info("忽略已关闭申请的消息",
			zap.String("requesterId", requesterId),
			zap.String("status", request_status_enum.Label(req.Status)),
		)
		return nil
	}

	if content == "" {
		content = constants.NON_TEXT_CONTENT
	}
	record := &model.ResponseRecord{
		Uuid:        fmt.Sprintf("R%s", random.GetNowAndLenRandomString(13)),
		RequesterId: requesterId,
		Content:     content,
		ReceivedAt:  time.Now(),
	}
	if err := s.repos.ResponseRecord.Create(record); err != nil {
		zap.L().Error("回复记录入库失败", zap.Error(err))
		return err
	}

	// 转发给管理员并附决策按钮
	header := fmt.Sprintf("候选人新消息\n用户: %s\nID: %s\n\n内容见转发", req.DisplayLabel, requesterId)
	controls := []gateway.Control{
		{Label: "✅ 通过", Action: gateway.ActionApprove, Target: requesterId},
		{Label: "❌ 拒绝", Action: gateway.ActionDecline, Target: requesterId},
	}
	relayErr := s.gw.SendDirect(ctx, s.conf.ModeratorId, header, controls)
	if relayErr == nil {
		relayErr = s.gw.Forward(ctx, s.conf.ModeratorId, sourceChatId, sourceMessageId)
	}
	if relayErr != nil {
		zap.L().Error("转发申请人消息失败",
			zap.String("requesterId", requesterId),
			zap.Error(relayErr),
		)
		warning := fmt.Sprintf("⚠️ 转发申请人 %s 的消息失败: %v", requesterId, relayErr)
		if warnErr := s.gw.SendDirect(ctx, s.conf.ModeratorId, warning, nil); warnErr != nil {
			zap.L().Error("管理员告警发送失败", zap.Error(warnErr))
		}
	}

	if req.Notified == 0 {
		if err := s.repos.JoinRequest.MarkNotified(requesterId); err != nil {
			zap.L().Error("标记通知失败", zap.Error(err))
		} else {
			s.invalidatePendingCache()
		}
	}
	return nil
}

// OnDecision 处理管理员决策
// 执行顺序：鉴权 -> 终态检查 -> 成员操作 -> 条件状态更新 -> 尽力而为的通知
// 成员操作失败时状态不变（可重试）；条件更新竞争失败时跳过全部消息副作用
func (s *lifecycleService) OnDecision(ctx context.Context, actorId, requesterId, action, messageRef string) error {
	if actorId != s.conf.ModeratorId {
		zap.L().Warn("非管理员尝试处理申请",
			zap.String("actorId", actorId),
			zap.String("requesterId", requesterId),
		)
		return errorx.ErrUnauthorized
	}

	var status int8
	switch action {
	case gateway.ActionApprove:
		status = request_status_enum.APPROVED
	case gateway.ActionDecline:
		status = request_status_enum.DECLINED
	default:
		return errorx.Newf(errorx.CodeInvalidParam, "未知决策操作: %s", action)
	}

	req, err := s.repos.JoinRequest.FindByRequesterId(requesterId)
	if err != nil {
		return err
	}
	if request_status_enum.IsTerminal(req.Status) {
		return errorx.Newf(errorx.CodeAlreadyDecided, "申请已处理: %s", request_status_enum.Label(req.Status))
	}

	// 先执行成员操作，成功后才允许状态落库
	if status == request_status_enum.APPROVED {
		err = s.gw.ApproveMembership(ctx, req.OriginChatId, requesterId)
	} else {
		err = s.gw.DeclineMembership(ctx, req.OriginChatId, requesterId)
	}
	if err != nil {
		zap.L().Error("成员操作失败",
			zap.String("requesterId", requesterId),
			zap.String("action", action),
			zap.Error(err),
		)
		return errorx.Wrapf(err, errorx.CodeMembershipError, "入群%s操作失败", actionLabel(status))
	}

	// 条件更新是重复处理的最终裁决：竞争失败方跳过全部消息副作用
	if err := s.repos.JoinRequest.UpdateStatusIfPending(requesterId, status); err != nil {
		return err
	}
	s.invalidatePendingCache()

	zap.L().Info("申请已处理",
		zap.String("requesterId", requesterId),
		zap.String("status", request_status_enum.Label(status)),
	)

	// 裁决消息与管理员侧界面刷新均为尽力而为
	verdict := s.conf.ApprovedMessage
	if status == request_status_enum.DECLINED {
		verdict = s.conf.DeclinedMessage
	}
	if err := s.gw.SendDirect(ctx, requesterId, verdict, nil); err != nil {
		zap.L().Error("裁决消息发送失败", zap.String("requesterId", requesterId), zap.Error(err))
	}
	if messageRef != "" {
		outcome := fmt.Sprintf("申请 %s — 已%s", requesterId, actionLabel(status))
		if err := s.gw.UpdateMessage(ctx, s.conf.ModeratorId, messageRef, outcome); err != nil {
			zap.L().Error("管理员界面刷新失败", zap.Error(err))
		}
	}
	return nil
}

// OnExpire 以系统权限关闭超时申请，仅清理任务调用
// 终态保护与 OnDecision 相同：条件更新保证已处理的申请不会被覆盖为超时
func (s *lifecycleService) OnExpire(ctx context.Context, requesterId, chatId string) error {
	req, err := s.repos.JoinRequest.FindByRequesterId(requesterId)
	if err != nil {
		return err
	}
	if request_status_enum.IsTerminal(req.Status) {
		return errorx.Newf(errorx.CodeAlreadyDecided, "申请已处理: %s", request_status_enum.Label(req.Status))
	}

	if err := s.gw.DeclineMembership(ctx, chatId, requesterId); err != nil {
		return errorx.Wrapf(err, errorx.CodeMembershipError, "超时拒绝入群操作失败")
	}

	if err := s.repos.JoinRequest.UpdateStatusIfPending(requesterId, request_status_enum.EXPIRED); err != nil {
		return err
	}
	s.invalidatePendingCache()

	// 超时通知尽力而为，对端屏蔽机器人属常态
	if err := s.gw.SendDirect(ctx, requesterId, s.conf.ExpiredMessage, nil); err != nil {
		zap.L().Debug("超时通知发送失败", zap.String("requesterId", requesterId), zap.Error(err))
	}
	return nil
}

// invalidatePendingCache 异步失效管理端待处理列表缓存
func (s *lifecycleService) invalidatePendingCache() {
	s.cache.SubmitTask(func() {
		if err := s.cache.DeleteByPattern(context.Background(), "pending_request_list*"); err != nil {
			zap.L().Error("待处理列表缓存失效失败", zap.Error(err))
		}
	})
}

// actionLabel 决策对应的中文文案
func actionLabel(status int8) string {
	if status == request_status_enum.APPROVED {
		return "通过 ✅"
	}
	return "拒绝 ❌"
}
