// Package repository 提供数据访问层的具体实现
// 本文件实现 ResponseRecordRepository 接口，处理申请人回复记录的数据库操作
package repository

import (
	"guard_bot_server/internal/model"

	"gorm.io/gorm"
)

// responseRecordRepository ResponseRecordRepository 接口的实现
type responseRecordRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewResponseRecordRepository 创建 ResponseRecordRepository 实例
func NewResponseRecordRepository(db *gorm.DB) ResponseRecordRepository {
	return &responseRecordRepository{db: db}
}

// Create 追加一条回复记录
func (r *responseRecordRepository) Create(record *model.ResponseRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return wrapDBError(err, "创建回复记录")
	}
	return nil
}

// FindByRequesterId 查找某申请人的全部回复，按接收时间升序
func (r *responseRecordRepository) FindByRequesterId(requesterId string) ([]model.ResponseRecord, error) {
	var records []model.ResponseRecord
	if err := r.db.Where("requester_id = ?", requesterId).Order("received_at asc").Find(&records).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询回复记录 requester_id=%s", requesterId)
	}
	return records, nil
}
