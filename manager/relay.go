package manager

import (
	"encoding/base64"
	"fmt"

	"github.com/xmrio/django-sspanel/db"
)

// RelayEnabled 两端节点都启用路由才可用，任一端停用整条路由下线
func RelayEnabled(rule *db.RelayRule) bool {
	return rule.RelayNode.Enable && rule.ProxyNode.Enable
}

// RelayRemark 路由标签，每次读取重新推导，不落库
func RelayRemark(rule *db.RelayRule) string {
	name := fmt.Sprintf("%s->%s(%s)", rule.RelayNode.Name, rule.ProxyNode.Name, rule.ProxyNode.NodeType)
	if rule.ProxyNode.EnlargeScale != 1.0 {
		name += fmt.Sprintf("-%.1f倍", rule.ProxyNode.EnlargeScale)
	}
	return name
}

// UserRelayLink 用户经中转入口连接的 ss 链接，非 ss 节点暂无链接格式
func UserRelayLink(rule *db.RelayRule, user *db.User) string {
	if rule.ProxyNode.NodeType != db.NodeTypeSS || rule.ProxyNode.SSConfig == nil {
		return ""
	}
	userInfo := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf("%s:%s", rule.ProxyNode.SSConfig.Method, user.SSPassword)))
	return fmt.Sprintf("ss://%s@%s:%s#%s", userInfo, rule.RelayNode.Server, rule.RelayPort, RelayRemark(rule))
}

// RelayRuleView 面向订阅端的路由视图
type RelayRuleView struct {
	ID            uint   `json:"id"`
	RelayHost     string `json:"relay_host"`
	RelayPort     string `json:"relay_port"`
	ListenType    string `json:"listen_type"`
	TransportType string `json:"transport_type"`
	Remark        string `json:"remark"`
	RelayLink     string `json:"relay_link"`
	Enable        bool   `json:"enable"`
}

func ToRelayRuleView(rule *db.RelayRule, user *db.User) RelayRuleView {
	view := RelayRuleView{
		ID:            rule.ID,
		RelayHost:     rule.RelayNode.Server,
		RelayPort:     rule.RelayPort,
		ListenType:    rule.ListenType,
		TransportType: rule.TransportType,
		Remark:        RelayRemark(rule),
		Enable:        RelayEnabled(rule),
	}
	if user != nil {
		view.RelayLink = UserRelayLink(rule, user)
	}
	return view
}

// ActiveRelayRules 全部可用路由，停用的整条剔除
func ActiveRelayRules() ([]db.RelayRule, error) {
	rules, err := DBM.RelayRule.ListAll()
	if err != nil {
		return nil, err
	}
	active := make([]db.RelayRule, 0, len(rules))
	for _, rule := range rules {
		if RelayEnabled(&rule) {
			active = append(active, rule)
		}
	}
	return active, nil
}
