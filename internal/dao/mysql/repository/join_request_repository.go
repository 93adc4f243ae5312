// Package repository 提供数据访问层的具体实现
// 本文件实现 JoinRequestRepository 接口，处理入群申请相关的数据库操作
package repository

import (
	"time"

	"guard_bot_server/internal/model"
	"guard_bot_server/pkg/enum/join_request/request_status_enum"
	"guard_bot_server/pkg/errorx"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// joinRequestRepository JoinRequestRepository 接口的实现
type joinRequestRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewJoinRequestRepository 创建 JoinRequestRepository 实例
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

// FindByRequesterId 根据申请人 ID 查找申请记录
func (r *joinRequestRepository) FindByRequesterId(requesterId string) (*model.JoinRequest, error) {
	var req model.JoinRequest
	if err := r.db.First(&req, "requester_id = ?", requesterId).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询申请 requester_id=%s", requesterId)
	}
	return &req, nil
}

// FindByStatus 根据状态查找申请记录，按申请时间升序
func (r *joinRequestRepository) FindByStatus(status int8) ([]model.JoinRequest, error) {
	var reqs []model.JoinRequest
	if err := r.db.Where("status = ?", status).Order("requested_at asc").Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询申请列表 status=%d", status)
	}
	return reqs, nil
}

// FindStalePending 查找超过指定时长仍未处理的申请
// 仅清理任务使用：requested_at <= now - olderThan 且状态为待处理
func (r *joinRequestRepository) FindStalePending(olderThan time.Duration) ([]model.JoinRequest, error) {
	cutoff := time.Now().Add(-olderThan)
	var reqs []model.JoinRequest
	if err := r.db.Where("status = ? AND requested_at <= ?", request_status_enum.PENDING, cutoff).Find(&reqs).Error; err != nil {
		return nil, wrapDBError(err, "查询过期未处理申请")
	}
	return reqs, nil
}

// Upsert 创建或重置申请记录
// requester_id 唯一：已有记录（包括终态记录）会被覆盖，
// 状态重置为待处理，通知标记清零，申请时间重置为当前时间
func (r *joinRequestRepository) Upsert(requesterId, chatId, label string) error {
	req := model.JoinRequest{
		RequesterId:  requesterId,
		OriginChatId: chatId,
		DisplayLabel: label,
		RequestedAt:  time.Now(),
		Status:       request_status_enum.PENDING,
		Notified:     0,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "requester_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"origin_chat_id", "display_label", "requested_at", "status", "notified", "updated_at",
		}),
	}).Create(&req).Error
	if err != nil {
		return wrapDBErrorf(err, "创建/重置申请 requester_id=%s", requesterId)
	}
	return nil
}

// UpdateStatusIfPending 条件状态更新：仅当当前状态为待处理时生效
// 单条 UPDATE 带状态前置条件，竞争双方（管理员 vs 清理任务）
// 谁先落库谁生效，失败方通过 RowsAffected=0 感知
func (r *joinRequestRepository) UpdateStatusIfPending(requesterId string, status int8) error {
	res := r.db.Model(&model.JoinRequest{}).
		Where("requester_id = ? AND status = ?", requesterId, request_status_enum.PENDING).
		Update("status", status)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "更新申请状态 requester_id=%s", requesterId)
	}
	if res.RowsAffected == 0 {
		// 没有命中待处理行：要么记录不存在，要么已是终态
		var req model.JoinRequest
		if err := r.db.First(&req, "requester_id = ?", requesterId).Error; err != nil {
			return wrapDBErrorf(err, "申请 %s 不存在", requesterId)
		}
		return errorx.Newf(errorx.CodeAlreadyDecided, "申请已处理: %s", request_status_enum.Label(req.Status))
	}
	return nil
}

// MarkNotified 幂等地标记管理员已收到通知
// 记录不存在返回 CodeNotFound
func (r *joinRequestRepository) MarkNotified(requesterId string) error {
	res := r.db.Model(&model.JoinRequest{}).
		Where("requester_id = ?", requesterId).
		Update("notified", 1)
	if res.Error != nil {
		return wrapDBErrorf(res.Error, "标记通知 requester_id=%s", requesterId)
	}
	if res.RowsAffected == 0 {
		// MySQL 默认只统计实际变更的行：notified 已是 1 时同样返回 0，
		// 需要回查区分"记录不存在"和"重复标记"，后者按成功处理
		var req model.JoinRequest
		if err := r.db.First(&req, "requester_id = ?", requesterId).Error; err != nil {
			return wrapDBErrorf(err, "申请 %s 不存在", requesterId)
		}
	}
	return nil
}
