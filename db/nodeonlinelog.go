package db

import (
	"time"

	"gorm.io/gorm"
)

type NodeOnlineLogRepo struct {
	db *gorm.DB
}

func NewNodeOnlineLogRepo(db *gorm.DB) *NodeOnlineLogRepo {
	return &NodeOnlineLogRepo{db: db}
}

func (r *NodeOnlineLogRepo) Create(log *NodeOnlineLog) error {
	return r.db.Create(log).Error
}

// GetLatestByNode 最近一条心跳，无记录时返回 gorm.ErrRecordNotFound
func (r *NodeOnlineLogRepo) GetLatestByNode(proxyNodeID uint) (*NodeOnlineLog, error) {
	var log NodeOnlineLog
	result := r.db.Where("proxy_node_id = ?", proxyNodeID).
		Order("created_at DESC").
		First(&log)
	if result.Error != nil {
		return nil, result.Error
	}
	return &log, nil
}

func (r *NodeOnlineLogRepo) ListByNode(proxyNodeID uint, page, pageSize int) ([]NodeOnlineLog, int64, error) {
	var logs []NodeOnlineLog
	var total int64

	r.db.Model(&NodeOnlineLog{}).Where("proxy_node_id = ?", proxyNodeID).Count(&total)

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

func (r *NodeOnlineLogRepo) Clean(beforeTime time.Time) error {
	return r.db.Where("created_at < ?", beforeTime).Delete(&NodeOnlineLog{}).Error
}
