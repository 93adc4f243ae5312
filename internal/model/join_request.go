// Package model 定义数据库实体模型
// 本文件定义入群申请模型，每个申请人同一时刻只保留一条记录
package model

import (
	"time"

	"gorm.io/gorm"
)

// JoinRequest 入群申请模型
// 对应数据库 join_request 表
// 每个申请人唯一一行：再次申请会覆盖旧记录并重置生命周期
// 记录只更新状态，从不删除（保留审计）
type JoinRequest struct {
	gorm.Model // 内嵌 GORM 模型，包含 ID、CreatedAt、UpdatedAt、DeletedAt

	// RequesterId 申请人唯一标识（传输层的稳定身份）
	RequesterId string `gorm:"column:requester_id;uniqueIndex;type:char(20);not null;comment:申请人ID"`

	// OriginChatId 申请加入的群组
	OriginChatId string `gorm:"column:origin_chat_id;type:char(20);not null;comment:目标群组ID"`

	// DisplayLabel 申请人昵称/用户名，仅用于展示
	DisplayLabel string `gorm:"column:display_label;type:varchar(100);comment:申请人昵称"`

	// RequestedAt 申请时间，作为过期窗口的起点
	// 再次申请时重置
	RequestedAt time.Time `gorm:"column:requested_at;type:datetime;not null;index;comment:申请时间"`

	// Status 申请状态
	// 0=待处理, 1=已通过, 2=已拒绝, 3=已超时
	// 非 0 即终态，状态变更必须走条件更新（仅 pending 可变）
	Status int8 `gorm:"column:status;not null;index;comment:申请状态，0.待处理，1.通过，2.拒绝，3.超时"`

	// Notified 管理员是否已收到该申请的转发通知
	// 0=未通知, 1=已通知
	Notified int8 `gorm:"column:notified;not null;default:0;comment:管理员是否已收到通知"`
}

// TableName 指定表名
func (JoinRequest) TableName() string {
	return "join_request"
}
