package manager

import (
	"fmt"

	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/utils"
)

// EnableEhcoTunnel 节点配置了隧道监听才需要下发隧道配置
func EnableEhcoTunnel(node *db.ProxyNode) bool {
	return node.EhcoListenHost != "" && node.EhcoListenPort != ""
}

type TunnelConfig struct {
	Listen        string   `json:"listen"`
	ListenType    string   `json:"listen_type"`
	TransportType string   `json:"transport_type"`
	TCPRemotes    []string `json:"tcp_remotes"`
}

type EhcoServerConfig struct {
	NodeID       uint           `json:"node_id"`
	RelayConfigs []TunnelConfig `json:"relay_configs"`
}

// EhcoServerConfigForNode 代理节点侧隧道服务配置：
// 监听隧道端口，解包后转发给本机代理进程
func EhcoServerConfigForNode(nodeID uint) (*EhcoServerConfig, error) {
	node, err := DBM.ProxyNode.GetByID(nodeID)
	if err != nil {
		return nil, err
	}
	config := &EhcoServerConfig{NodeID: node.ID, RelayConfigs: []TunnelConfig{}}
	if !EnableEhcoTunnel(node) {
		return config, nil
	}
	config.RelayConfigs = append(config.RelayConfigs, TunnelConfig{
		Listen:        fmt.Sprintf("%s:%s", node.EhcoListenHost, node.EhcoListenPort),
		ListenType:    node.EhcoListenType,
		TransportType: node.EhcoTransportType,
		TCPRemotes:    localRemotes(node),
	})
	return config, nil
}

// 隧道出口指向节点自身的代理端口，多用户端口未配置时回落到节点地址
func localRemotes(node *db.ProxyNode) []string {
	if node.NodeType == db.NodeTypeSS && node.SSConfig != nil && node.SSConfig.MultiUserPort != nil {
		return []string{fmt.Sprintf("127.0.0.1:%d", *node.SSConfig.MultiUserPort)}
	}
	return utils.SplitServers(node.Server)
}

type EhcoRelayConfig struct {
	NodeID       uint           `json:"node_id"`
	RelayConfigs []TunnelConfig `json:"relay_configs"`
}

// EhcoRelayConfigForNode 中转节点侧配置：按规则监听中转端口，
// 转发到代理节点。停用的路由整条不下发。
func EhcoRelayConfigForNode(relayNodeID uint) (*EhcoRelayConfig, error) {
	node, err := DBM.RelayNode.GetByID(relayNodeID)
	if err != nil {
		return nil, err
	}
	rules, err := DBM.RelayRule.ListByRelayNode(node.ID)
	if err != nil {
		return nil, err
	}
	config := &EhcoRelayConfig{NodeID: node.ID, RelayConfigs: []TunnelConfig{}}
	for _, rule := range rules {
		if !RelayEnabled(&rule) {
			continue
		}
		remotes := utils.SplitServers(rule.ProxyNode.Server)
		if EnableEhcoTunnel(&rule.ProxyNode) {
			remotes = []string{fmt.Sprintf("%s:%s", rule.ProxyNode.EhcoListenHost, rule.ProxyNode.EhcoListenPort)}
		}
		config.RelayConfigs = append(config.RelayConfigs, TunnelConfig{
			Listen:        fmt.Sprintf("0.0.0.0:%s", rule.RelayPort),
			ListenType:    rule.ListenType,
			TransportType: rule.TransportType,
			TCPRemotes:    remotes,
		})
	}
	return config, nil
}
