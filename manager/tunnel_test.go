package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmrio/django-sspanel/db"
)

func TestEhcoServerConfigForNode(t *testing.T) {
	setupTestRepos(t)

	port := 2333
	node := &db.ProxyNode{
		Name: "n", Server: "1.1.1.1", Enable: true, NodeType: db.NodeTypeSS,
		EhcoListenHost: "0.0.0.0", EhcoListenPort: "443",
		EhcoListenType: db.ListenWSS, EhcoTransportType: db.TransportRaw,
		SSConfig: &db.SSConfig{Method: db.DefaultSSMethod, MultiUserPort: &port},
	}
	require.NoError(t, DBM.ProxyNode.Create(node))

	config, err := EhcoServerConfigForNode(node.ID)
	require.NoError(t, err)
	require.Len(t, config.RelayConfigs, 1)
	assert.Equal(t, "0.0.0.0:443", config.RelayConfigs[0].Listen)
	assert.Equal(t, db.ListenWSS, config.RelayConfigs[0].ListenType)
	assert.Equal(t, []string{"127.0.0.1:2333"}, config.RelayConfigs[0].TCPRemotes)
}

func TestEhcoServerConfigWithoutTunnel(t *testing.T) {
	setupTestRepos(t)

	node := &db.ProxyNode{Name: "n", Server: "1.1.1.1", Enable: true, NodeType: db.NodeTypeSS}
	require.NoError(t, DBM.ProxyNode.Create(node))

	config, err := EhcoServerConfigForNode(node.ID)
	require.NoError(t, err)
	assert.Empty(t, config.RelayConfigs)
}

func TestEhcoRelayConfigForNode(t *testing.T) {
	setupTestRepos(t)

	tunneled := &db.ProxyNode{
		Name: "tunneled", Server: "1.1.1.1", Enable: true, NodeType: db.NodeTypeSS,
		EhcoListenHost: "1.1.1.1", EhcoListenPort: "443",
	}
	plain := &db.ProxyNode{Name: "plain", Server: "2.2.2.2:8388, 2.2.2.3:8388", Enable: true, NodeType: db.NodeTypeSS}
	down := &db.ProxyNode{Name: "down", Server: "3.3.3.3", Enable: false, NodeType: db.NodeTypeSS}
	relay := &db.RelayNode{Name: "r", Server: "9.9.9.9", Enable: true}
	require.NoError(t, DBM.ProxyNode.Create(tunneled))
	require.NoError(t, DBM.ProxyNode.Create(plain))
	require.NoError(t, DBM.ProxyNode.Create(down))
	require.NoError(t, DBM.RelayNode.Create(relay))

	for i, proxy := range []*db.ProxyNode{tunneled, plain, down} {
		require.NoError(t, DBM.RelayRule.Create(&db.RelayRule{
			ProxyNodeID: proxy.ID, RelayNodeID: relay.ID,
			RelayPort:     []string{"10000", "10001", "10002"}[i],
			ListenType:    db.ListenRaw,
			TransportType: db.TransportWSS,
		}))
	}

	config, err := EhcoRelayConfigForNode(relay.ID)
	require.NoError(t, err)
	// 停用代理的规则整条不下发
	require.Len(t, config.RelayConfigs, 2)
	assert.Equal(t, "0.0.0.0:10000", config.RelayConfigs[0].Listen)
	// 有隧道监听的代理走隧道地址，否则直连节点地址，
	// 逗号分隔的多地址拆成多个 remote
	assert.Equal(t, []string{"1.1.1.1:443"}, config.RelayConfigs[0].TCPRemotes)
	assert.Equal(t, []string{"2.2.2.2:8388", "2.2.2.3:8388"}, config.RelayConfigs[1].TCPRemotes)
}

func TestApiEndpoints(t *testing.T) {
	setupTestRepos(t)

	node := &db.ProxyNode{ID: 3, Name: "n", Server: "1.1.1.1", NodeType: db.NodeTypeSS}
	assert.Equal(t,
		"https://panel.example.com/api/proxy_configs/3/?token=test-token",
		ApiEndpoint(node))

	vless := &db.ProxyNode{ID: 4, Name: "v", Server: "1.1.1.1", NodeType: db.NodeTypeVless}
	assert.Empty(t, ApiEndpoint(vless))

	relay := &db.RelayNode{ID: 5, Name: "r", Server: "2.2.2.2"}
	assert.Equal(t,
		"https://panel.example.com/api/ehco_relay_config/5/?token=test-token",
		EhcoRelayEndpoint(relay))
}
