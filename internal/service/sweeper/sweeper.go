// Package sweeper 实现过期申请的定时清理任务
// 单个 cron 任务按固定节奏扫描超过过期窗口仍未处理的申请，
// 逐条走引擎的 OnExpire；单条失败只告警，不影响其余行，也绝不终止进程
package sweeper

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"guard_bot_server/internal/config"
	"guard_bot_server/internal/dao/mysql/repository"
	"guard_bot_server/internal/service"
	"guard_bot_server/pkg/errorx"
)

// defaultSweepSpec 默认每小时整点执行（cron 含秒字段）
const defaultSweepSpec = "0 0 * * * *"

// Sweeper 过期清理任务
type Sweeper struct {
	cron      *cron.Cron
	lifecycle service.LifecycleService
	repos     *repository.Repositories
	conf      *config.BotConfig
}

// New 创建清理任务并注册 cron 调度
// SkipIfStillRunning 保证上一轮未结束时跳过本轮，任务永不与自身并发；
// Recover 将单轮 panic 降级为日志，不拖垮进程
func New(lifecycle service.LifecycleService, repos *repository.Repositories, conf *config.BotConfig) (*Sweeper, error) {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(zap.L()))
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	s := &Sweeper{
		cron:      c,
		lifecycle: lifecycle,
		repos:     repos,
		conf:      conf,
	}

	spec := conf.SweepSpec
	if spec == "" {
		spec = defaultSweepSpec
	}
	if _, err := c.AddFunc(spec, s.Sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start 启动 cron 调度
func (s *Sweeper) Start() {
	s.cron.Start()
	zap.L().Info("过期清理任务已启动", zap.Int("expirationDays", s.conf.ExpirationDays))
}

// Stop 停止调度并等待执行中的一轮结束
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.L().Info("过期清理任务已停止")
}

// Sweep 执行一轮清理
// 扫描超过过期窗口的待处理申请并逐条关闭；
// 竞争失败（管理员抢先处理）属正常，降级为 debug 日志
func (s *Sweeper) Sweep() {
	ctx := context.Background()

	rows, err := s.repos.JoinRequest.FindStalePending(s.conf.ExpirationWindow())
	if err != nil {
		zap.L().Error("查询过期申请失败", zap.Error(err))
		return
	}
	if len(rows) == 0 {
		return
	}
	zap.L().Info("开始清理过期申请", zap.Int("count", len(rows)))

	for _, row := range rows {
		if err := s.lifecycle.OnExpire(ctx, row.RequesterId, row.OriginChatId); err != nil {
			if errorx.IsAlreadyDecided(err) {
				zap.L().Debug("申请在扫描期间已被处理",
					zap.String("requesterId", row.RequesterId),
				)
				continue
			}
			zap.L().Warn("自动关闭申请失败",
				zap.String("requesterId", row.RequesterId),
				zap.Error(err),
			)
			continue
		}
		zap.L().Info("申请已超时关闭", zap.String("requesterId", row.RequesterId))
	}
}
