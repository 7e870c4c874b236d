package db

import (
	"gorm.io/gorm"
)

type RelayNodeRepo struct {
	db *gorm.DB
}

func NewRelayNodeRepo(db *gorm.DB) *RelayNodeRepo {
	return &RelayNodeRepo{db: db}
}

func (r *RelayNodeRepo) Create(node *RelayNode) error {
	return r.db.Create(node).Error
}

func (r *RelayNodeRepo) GetByID(id uint) (*RelayNode, error) {
	var node RelayNode
	result := r.db.Preload("RelayRules").First(&node, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &node, nil
}

func (r *RelayNodeRepo) Update(node *RelayNode) error {
	return r.db.Save(node).Error
}

func (r *RelayNodeRepo) Delete(id uint) error {
	r.db.Where("relay_node_id = ?", id).Delete(&RelayRule{})
	return r.db.Delete(&RelayNode{}, id).Error
}

func (r *RelayNodeRepo) List(page, pageSize int) ([]RelayNode, int64, error) {
	var nodes []RelayNode
	var total int64

	r.db.Model(&RelayNode{}).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Preload("RelayRules").Offset(offset).Limit(pageSize).Find(&nodes)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return nodes, total, nil
}

func (r *RelayNodeRepo) ListActive() ([]RelayNode, error) {
	var nodes []RelayNode
	result := r.db.Where("enable = ?", true).Find(&nodes)
	if result.Error != nil {
		return nil, result.Error
	}
	return nodes, nil
}

func (r *RelayNodeRepo) Enable(id uint, enabled bool) error {
	return r.db.Model(&RelayNode{}).Where("id = ?", id).Update("enable", enabled).Error
}

// GetIPList 启用中转节点的地址列表，用于防火墙白名单
func (r *RelayNodeRepo) GetIPList() ([]string, error) {
	nodes, err := r.ListActive()
	if err != nil {
		return nil, err
	}
	ips := make([]string, 0, len(nodes))
	for _, node := range nodes {
		ips = append(ips, node.Server)
	}
	return ips, nil
}
