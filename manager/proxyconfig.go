package manager

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/xmrio/django-sspanel/db"
)

// 每种节点类型对应一种配置生成策略，未实现的类型显式报错，
// 不能与"没有符合条件的用户"混为一个空结果
var ErrUnsupportedNodeType = errors.New("该节点类型暂不支持配置下发")

type UserProxyConfig struct {
	UserID   uint   `json:"user_id"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	Enable   bool   `json:"enable"`
	Method   string `json:"method"`
}

type ProxyConfigs struct {
	Users []UserProxyConfig `json:"users"`
}

// GenerateProxyConfigs 计算节点应当执行的全部用户配置。
// 纯函数，结果只由传入的节点与用户快照决定。
func GenerateProxyConfigs(node *db.ProxyNode, users []db.User) (*ProxyConfigs, error) {
	if node.NodeType != db.NodeTypeSS {
		// TODO vless/trojan 下发策略
		return nil, ErrUnsupportedNodeType
	}
	return generateSSConfigs(node, users)
}

func generateSSConfigs(node *db.ProxyNode, users []db.User) (*ProxyConfigs, error) {
	ssConfig := node.SSConfig
	if ssConfig == nil {
		return nil, fmt.Errorf("ss节点 %s 缺少SS配置", node.Name)
	}
	configs := &ProxyConfigs{Users: make([]UserProxyConfig, 0, len(users))}
	for _, user := range users {
		// 配额用尽（含恰好用完）即停用；节点停用时全部停用
		enable := node.Enable && user.TotalTraffic > user.UsedTraffic()
		var port int
		if ssConfig.MultiUserPort != nil {
			// 单端口多用户，靠密码区分
			port = *ssConfig.MultiUserPort
		} else {
			port = user.SSPort
		}
		configs.Users = append(configs.Users, UserProxyConfig{
			UserID:   user.ID,
			Port:     port,
			Password: user.SSPassword,
			Enable:   enable,
			Method:   ssConfig.Method,
		})
	}
	return configs, nil
}

// ProxyConfigsForNode 从当前目录快照生成节点配置，命中缓存时直接返回
func ProxyConfigsForNode(nodeID uint) (*ProxyConfigs, error) {
	if payload, ok := ConfigCacheGet(nodeID); ok {
		configs := &ProxyConfigs{}
		if err := json.Unmarshal(payload, configs); err == nil {
			return configs, nil
		}
	}
	node, err := DBM.ProxyNode.GetByID(nodeID)
	if err != nil {
		return nil, err
	}
	users, err := DBM.User.ListByMinLevel(node.Level)
	if err != nil {
		return nil, err
	}
	configs, err := GenerateProxyConfigs(node, users)
	if err != nil {
		return nil, err
	}
	if payload, err := json.Marshal(configs); err == nil {
		ConfigCacheSet(nodeID, payload)
	}
	return configs, nil
}
