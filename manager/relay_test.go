package manager

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmrio/django-sspanel/db"
)

func relayRule(proxyEnable, relayEnable bool, scale float64) *db.RelayRule {
	return &db.RelayRule{
		ID:        1,
		RelayPort: "20000",
		ProxyNode: db.ProxyNode{
			ID: 1, Name: "hk-1", Server: "1.2.3.4", Enable: proxyEnable,
			NodeType: db.NodeTypeSS, EnlargeScale: scale,
			SSConfig: &db.SSConfig{ProxyNodeID: 1, Method: db.DefaultSSMethod},
		},
		RelayNode: db.RelayNode{
			ID: 2, Name: "沪入口", Server: "5.6.7.8", Enable: relayEnable, ISP: db.ISPBGP,
		},
	}
}

func TestRelayEnabled(t *testing.T) {
	// 两端开关的四种组合
	tests := []struct {
		proxyEnable bool
		relayEnable bool
		expected    bool
	}{
		{true, true, true},
		{true, false, false},
		{false, true, false},
		{false, false, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("proxy=%v relay=%v", tt.proxyEnable, tt.relayEnable), func(t *testing.T) {
			rule := relayRule(tt.proxyEnable, tt.relayEnable, 1.0)
			assert.Equal(t, tt.expected, RelayEnabled(rule))
		})
	}
}

func TestRelayRemark(t *testing.T) {
	t.Run("identity scale has no suffix", func(t *testing.T) {
		rule := relayRule(true, true, 1.0)
		assert.Equal(t, "沪入口->hk-1(ss)", RelayRemark(rule))
	})
	t.Run("non-identity scale appends suffix", func(t *testing.T) {
		rule := relayRule(true, true, 1.5)
		assert.Equal(t, "沪入口->hk-1(ss)-1.5倍", RelayRemark(rule))
	})
}

func TestUserRelayLink(t *testing.T) {
	rule := relayRule(true, true, 1.0)
	user := &db.User{ID: 1, SSPassword: "secret"}
	link := UserRelayLink(rule, user)
	// 链接指向中转入口而非代理节点本身
	assert.Contains(t, link, "@5.6.7.8:20000")
	assert.Contains(t, link, "ss://")
	assert.Contains(t, link, "#沪入口->hk-1(ss)")
}

func TestToRelayRuleView(t *testing.T) {
	rule := relayRule(true, false, 2.0)
	view := ToRelayRuleView(rule, nil)
	assert.Equal(t, "5.6.7.8", view.RelayHost)
	assert.Equal(t, "20000", view.RelayPort)
	assert.Equal(t, "沪入口->hk-1(ss)-2.0倍", view.Remark)
	assert.False(t, view.Enable)
	assert.Empty(t, view.RelayLink)
}

func TestActiveRelayRulesOmitsDisabledEndpoint(t *testing.T) {
	setupTestRepos(t)

	proxyUp := &db.ProxyNode{Name: "up", Server: "1.1.1.1", Enable: true, NodeType: db.NodeTypeSS}
	proxyDown := &db.ProxyNode{Name: "down", Server: "2.2.2.2", Enable: false, NodeType: db.NodeTypeSS}
	relay := &db.RelayNode{Name: "relay", Server: "3.3.3.3", Enable: true}
	require.NoError(t, DBM.ProxyNode.Create(proxyUp))
	require.NoError(t, DBM.ProxyNode.Create(proxyDown))
	require.NoError(t, DBM.RelayNode.Create(relay))

	require.NoError(t, DBM.RelayRule.Create(&db.RelayRule{
		ProxyNodeID: proxyUp.ID, RelayNodeID: relay.ID, RelayPort: "10000",
	}))
	require.NoError(t, DBM.RelayRule.Create(&db.RelayRule{
		ProxyNodeID: proxyDown.ID, RelayNodeID: relay.ID, RelayPort: "10001",
	}))

	active, err := ActiveRelayRules()
	require.NoError(t, err)
	// 代理端停用的路由整条消失，而不是降级保留
	require.Len(t, active, 1)
	assert.Equal(t, proxyUp.ID, active[0].ProxyNodeID)
}
