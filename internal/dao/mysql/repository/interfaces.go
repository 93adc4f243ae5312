// Package repository 定义数据访问层接口和聚合结构
// 采用 Repository 模式将数据访问逻辑与业务逻辑分离
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
package repository

import (
	"time"

	"guard_bot_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// JoinRequestRepository 入群申请数据访问接口
// 所有写操作都是行级原子的：不同申请人互不阻塞，
// 同一申请人的状态变更通过条件更新串行化，引擎侧不做任何加锁
type JoinRequestRepository interface {
	// FindByRequesterId 根据申请人 ID 查找申请记录
	FindByRequesterId(requesterId string) (*model.JoinRequest, error)
	// FindByStatus 根据状态查找申请记录（管理端列表）
	FindByStatus(status int8) ([]model.JoinRequest, error)
	// FindStalePending 查找超过指定时长仍未处理的申请（仅清理任务使用）
	FindStalePending(olderThan time.Duration) ([]model.JoinRequest, error)
	// Upsert 创建或重置申请：同一申请人覆盖旧记录，
	// 状态回到待处理、通知标记清零、申请时间重置为当前时间
	Upsert(requesterId, chatId, label string) error
	// UpdateStatusIfPending 条件状态更新：仅当当前状态为待处理时生效
	// 记录不存在返回 CodeNotFound，已是终态返回 CodeAlreadyDecided
	// 这是整个系统防止重复处理的核心原语
	UpdateStatusIfPending(requesterId string, status int8) error
	// MarkNotified 幂等地标记管理员已收到该申请的通知
	MarkNotified(requesterId string) error
}

// ResponseRecordRepository 申请人回复记录数据访问接口
// 只追加：记录从不修改或删除，与申请状态无关
type ResponseRecordRepository interface {
	// Create 追加一条回复记录
	Create(record *model.ResponseRecord) error
	// FindByRequesterId 查找某申请人的全部回复，按接收时间升序
	FindByRequesterId(requesterId string) ([]model.ResponseRecord, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db             *gorm.DB                 // GORM 数据库实例
	JoinRequest    JoinRequestRepository    // 入群申请 Repository
	ResponseRecord ResponseRecordRepository // 回复记录 Repository
}

// NewRepositories 创建所有 Repository 实例
// db: GORM 数据库实例
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		JoinRequest:    NewJoinRequestRepository(db),
		ResponseRecord: NewResponseRecordRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// fn: 事务执行函数，接收事务内的 Repositories 实例
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// Close 关闭底层数据库连接，进程退出前调用
func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
