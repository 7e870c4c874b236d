package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xmrio/django-sspanel/db"
)

func ssNode(enable bool, multiUserPort *int) *db.ProxyNode {
	return &db.ProxyNode{
		ID:       1,
		Name:     "hk-1",
		Server:   "1.2.3.4",
		Enable:   enable,
		NodeType: db.NodeTypeSS,
		SSConfig: &db.SSConfig{
			ProxyNodeID:   1,
			Method:        db.DefaultSSMethod,
			MultiUserPort: multiUserPort,
		},
	}
}

func TestGenerateProxyConfigsQuota(t *testing.T) {
	tests := []struct {
		name         string
		totalTraffic int64
		upload       int64
		download     int64
		expectEnable bool
	}{
		{
			name:         "quota remaining",
			totalTraffic: 100,
			upload:       10,
			download:     20,
			expectEnable: true,
		},
		{
			name:         "quota exactly exhausted",
			totalTraffic: 100,
			upload:       40,
			download:     60,
			expectEnable: false,
		},
		{
			name:         "quota exceeded",
			totalTraffic: 100,
			upload:       80,
			download:     80,
			expectEnable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := []db.User{{
				ID:              7,
				TotalTraffic:    tt.totalTraffic,
				UploadTraffic:   tt.upload,
				DownloadTraffic: tt.download,
				SSPort:          30001,
				SSPassword:      "pw",
			}}
			configs, err := GenerateProxyConfigs(ssNode(true, nil), users)
			require.NoError(t, err)
			require.Len(t, configs.Users, 1)
			assert.Equal(t, tt.expectEnable, configs.Users[0].Enable)
		})
	}
}

func TestGenerateProxyConfigsDisabledNode(t *testing.T) {
	// 节点停用时所有用户一律停用，与各自配额无关
	users := []db.User{
		{ID: 1, TotalTraffic: 100, SSPort: 30001, SSPassword: "a"},
		{ID: 2, TotalTraffic: 100, UploadTraffic: 100, SSPort: 30002, SSPassword: "b"},
	}
	configs, err := GenerateProxyConfigs(ssNode(false, nil), users)
	require.NoError(t, err)
	require.Len(t, configs.Users, 2)
	for _, user := range configs.Users {
		assert.False(t, user.Enable)
	}
}

func TestGenerateProxyConfigsPorts(t *testing.T) {
	users := []db.User{
		{ID: 1, TotalTraffic: 100, SSPort: 30001, SSPassword: "a"},
		{ID: 2, TotalTraffic: 100, SSPort: 30002, SSPassword: "b"},
	}

	t.Run("per-user ports", func(t *testing.T) {
		configs, err := GenerateProxyConfigs(ssNode(true, nil), users)
		require.NoError(t, err)
		assert.Equal(t, 30001, configs.Users[0].Port)
		assert.Equal(t, 30002, configs.Users[1].Port)
	})

	t.Run("multi-user port shared", func(t *testing.T) {
		configs, err := GenerateProxyConfigs(ssNode(true, intPtr(2333)), users)
		require.NoError(t, err)
		for _, user := range configs.Users {
			assert.Equal(t, 2333, user.Port)
		}
		// 单端口复用时靠密码区分用户
		assert.NotEqual(t, configs.Users[0].Password, configs.Users[1].Password)
	})
}

func TestGenerateProxyConfigsUnsupportedType(t *testing.T) {
	// 不支持的类型必须显式报错，不能返回与"无用户"相同的空结果
	for _, nodeType := range []string{db.NodeTypeVless, db.NodeTypeTrojan} {
		node := &db.ProxyNode{ID: 1, Name: "n", Enable: true, NodeType: nodeType}
		configs, err := GenerateProxyConfigs(node, nil)
		assert.ErrorIs(t, err, ErrUnsupportedNodeType)
		assert.Nil(t, configs)
	}
}

func TestGenerateProxyConfigsPure(t *testing.T) {
	users := []db.User{
		{ID: 1, TotalTraffic: 100, UploadTraffic: 3, SSPort: 30001, SSPassword: "a"},
	}
	node := ssNode(true, nil)
	first, err := GenerateProxyConfigs(node, users)
	require.NoError(t, err)
	second, err := GenerateProxyConfigs(node, users)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProxyConfigsForNodeEndToEnd(t *testing.T) {
	setupTestRepos(t)

	node := ssNode(true, nil)
	node.ID = 0
	require.NoError(t, DBM.ProxyNode.Create(node))
	// U1 还有余量，U2 恰好用完
	require.NoError(t, DBM.User.Create(&db.User{
		ID: 1, TotalTraffic: 10, UploadTraffic: 1, DownloadTraffic: 2,
		SSPort: 30001, SSPassword: "u1",
	}))
	require.NoError(t, DBM.User.Create(&db.User{
		ID: 2, TotalTraffic: 10, UploadTraffic: 4, DownloadTraffic: 6,
		SSPort: 30002, SSPassword: "u2",
	}))

	configs, err := ProxyConfigsForNode(node.ID)
	require.NoError(t, err)
	require.Len(t, configs.Users, 2)

	byUser := map[uint]UserProxyConfig{}
	for _, user := range configs.Users {
		byUser[user.UserID] = user
	}
	assert.True(t, byUser[1].Enable)
	assert.Equal(t, 30001, byUser[1].Port)
	assert.False(t, byUser[2].Enable)
	assert.Equal(t, 30002, byUser[2].Port)
}

func TestProxyConfigsForNodeLevelFilter(t *testing.T) {
	setupTestRepos(t)

	node := ssNode(true, nil)
	node.ID = 0
	node.Level = 2
	require.NoError(t, DBM.ProxyNode.Create(node))
	require.NoError(t, DBM.User.Create(&db.User{ID: 1, Level: 1, TotalTraffic: 10, SSPort: 30001}))
	require.NoError(t, DBM.User.Create(&db.User{ID: 2, Level: 2, TotalTraffic: 10, SSPort: 30002}))
	require.NoError(t, DBM.User.Create(&db.User{ID: 3, Level: 5, TotalTraffic: 10, SSPort: 30003}))

	configs, err := ProxyConfigsForNode(node.ID)
	require.NoError(t, err)
	require.Len(t, configs.Users, 2)
	for _, user := range configs.Users {
		assert.NotEqual(t, uint(1), user.UserID)
	}
}
