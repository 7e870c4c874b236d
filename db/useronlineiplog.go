package db

import (
	"time"

	"gorm.io/gorm"
)

type UserOnlineIPLogRepo struct {
	db *gorm.DB
}

func NewUserOnlineIPLogRepo(db *gorm.DB) *UserOnlineIPLogRepo {
	return &UserOnlineIPLogRepo{db: db}
}

func (r *UserOnlineIPLogRepo) Create(log *UserOnlineIPLog) error {
	return r.db.Create(log).Error
}

func (r *UserOnlineIPLogRepo) ListByNode(proxyNodeID uint, page, pageSize int) ([]UserOnlineIPLog, int64, error) {
	var logs []UserOnlineIPLog
	var total int64

	r.db.Model(&UserOnlineIPLog{}).Where("proxy_node_id = ?", proxyNodeID).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Where("proxy_node_id = ?", proxyNodeID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&logs)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return logs, total, nil
}

func (r *UserOnlineIPLogRepo) ListByUser(userID uint, page, pageSize int) ([]UserOnlineIPLog, int64, error) {
	var logs []UserOnlineIPLog
	var total int64

	r.db.Model(&UserOnlineIPLog{}).Where("user_id = ?", userID).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&logs)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return logs, total, nil
}

func (r *UserOnlineIPLogRepo) Clean(beforeTime time.Time) error {
	return r.db.Where("created_at < ?", beforeTime).Delete(&UserOnlineIPLog{}).Error
}
