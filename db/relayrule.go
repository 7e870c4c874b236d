package db

import "gorm.io/gorm"

type RelayRuleRepo struct {
	db *gorm.DB
}

func NewRelayRuleRepo(db *gorm.DB) *RelayRuleRepo {
	return &RelayRuleRepo{db: db}
}

func (r *RelayRuleRepo) Create(rule *RelayRule) error {
	return r.db.Create(rule).Error
}

func (r *RelayRuleRepo) GetByID(id uint) (*RelayRule, error) {
	var rule RelayRule
	result := r.db.Preload("ProxyNode").Preload("ProxyNode.SSConfig").
		Preload("RelayNode").First(&rule, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &rule, nil
}

func (r *RelayRuleRepo) Update(rule *RelayRule) error {
	return r.db.Save(rule).Error
}

func (r *RelayRuleRepo) Delete(id uint) error {
	return r.db.Delete(&RelayRule{}, id).Error
}

// 规则作为显式边，两端都可查
func (r *RelayRuleRepo) ListByProxyNode(proxyNodeID uint) ([]RelayRule, error) {
	var rules []RelayRule
	result := r.db.Preload("ProxyNode").Preload("ProxyNode.SSConfig").
		Preload("RelayNode").
		Where("proxy_node_id = ?", proxyNodeID).Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}

func (r *RelayRuleRepo) ListByRelayNode(relayNodeID uint) ([]RelayRule, error) {
	var rules []RelayRule
	result := r.db.Preload("ProxyNode").Preload("ProxyNode.SSConfig").
		Preload("RelayNode").
		Where("relay_node_id = ?", relayNodeID).Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}

func (r *RelayRuleRepo) ListAll() ([]RelayRule, error) {
	var rules []RelayRule
	result := r.db.Preload("ProxyNode").Preload("ProxyNode.SSConfig").
		Preload("RelayNode").Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}
