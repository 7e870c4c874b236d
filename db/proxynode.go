package db

import (
	"gorm.io/gorm"
)

type ProxyNodeRepo struct {
	db *gorm.DB
}

func NewProxyNodeRepo(db *gorm.DB) *ProxyNodeRepo {
	return &ProxyNodeRepo{db: db}
}

func (r *ProxyNodeRepo) Create(node *ProxyNode) error {
	return r.db.Create(node).Error
}

func (r *ProxyNodeRepo) GetByID(id uint) (*ProxyNode, error) {
	var node ProxyNode
	result := r.db.Preload("SSConfig").Preload("RelayRules").First(&node, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &node, nil
}

func (r *ProxyNodeRepo) Update(node *ProxyNode) error {
	return r.db.Save(node).Error
}

func (r *ProxyNodeRepo) Delete(id uint) error {
	// 级联：SS配置与中转规则随节点一起删除
	r.db.Where("proxy_node_id = ?", id).Delete(&SSConfig{})
	r.db.Where("proxy_node_id = ?", id).Delete(&RelayRule{})
	return r.db.Delete(&ProxyNode{}, id).Error
}

func (r *ProxyNodeRepo) List(page, pageSize int) ([]ProxyNode, int64, error) {
	var nodes []ProxyNode
	var total int64

	r.db.Model(&ProxyNode{}).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Preload("SSConfig").Preload("RelayRules").
		Order("sequence").
		Offset(offset).Limit(pageSize).Find(&nodes)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return nodes, total, nil
}

// ListActive 启用节点，按 sequence 手动序下发
func (r *ProxyNodeRepo) ListActive() ([]ProxyNode, error) {
	var nodes []ProxyNode
	result := r.db.Preload("SSConfig").Preload("RelayRules").
		Where("enable = ?", true).
		Order("sequence").
		Find(&nodes)
	if result.Error != nil {
		return nil, result.Error
	}
	return nodes, nil
}

func (r *ProxyNodeRepo) Enable(id uint, enabled bool) error {
	return r.db.Model(&ProxyNode{}).Where("id = ?", id).Update("enable", enabled).Error
}

func (r *ProxyNodeRepo) UpdateSequence(id uint, sequence uint) error {
	return r.db.Model(&ProxyNode{}).Where("id = ?", id).Update("sequence", sequence).Error
}

// AddUsedTraffic 按计费倍率累加节点已用流量，累加不覆盖
func (r *ProxyNodeRepo) AddUsedTraffic(id uint, delta int64) error {
	return r.db.Model(&ProxyNode{}).Where("id = ?", id).
		Update("used_traffic", gorm.Expr("used_traffic + ?", delta)).Error
}
