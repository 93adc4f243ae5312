package model

import (
	"time"

	"gorm.io/gorm"
)

// ResponseRecord 申请人回复记录
// 对应数据库 response_record 表
// 只追加不修改：申请被覆盖或关闭后记录依然保留，供管理员追溯
type ResponseRecord struct {
	gorm.Model

	// Uuid 记录唯一标识
	// 格式：R + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:记录id"`

	// RequesterId 申请人 ID，关联 join_request.requester_id
	// 无外键级联，一个申请人可有多条回复
	RequesterId string `gorm:"column:requester_id;index;type:char(20);not null;comment:申请人ID"`

	// Content 回复内容，非文本消息存占位符
	Content string `gorm:"column:content;type:varchar(1000);comment:回复内容"`

	// ReceivedAt 收到回复的时间
	ReceivedAt time.Time `gorm:"column:received_at;type:datetime;not null;comment:接收时间"`
}

// TableName 指定表名
func (ResponseRecord) TableName() string {
	return "response_record"
}
