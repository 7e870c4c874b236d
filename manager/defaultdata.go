package manager

import (
	"strings"

	"github.com/google/uuid"
	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/utils"
)

// 首次启动时写入演示数据，方便面板空库可用
func loadDefaultData(dbm *db.RepoManager) {
	multiUserPort := 2333
	proxyNode := &db.ProxyNode{
		Name:         "演示SS节点",
		Server:       "127.0.0.1",
		Enable:       true,
		NodeType:     db.NodeTypeSS,
		Info:         "首次启动自动创建，可在面板删除",
		Country:      "CN",
		TotalTraffic: 100 * utils.GB,
		EnlargeScale: 1.0,
		Sequence:     1,
		SSConfig: &db.SSConfig{
			Method:        db.DefaultSSMethod,
			MultiUserPort: &multiUserPort,
		},
	}
	dbm.ProxyNode.Create(proxyNode)

	relayNode := &db.RelayNode{
		Name:   "演示中转",
		Server: "127.0.0.1",
		Enable: true,
		ISP:    db.ISPBGP,
	}
	dbm.RelayNode.Create(relayNode)

	dbm.RelayRule.Create(&db.RelayRule{
		ProxyNodeID:   proxyNode.ID,
		RelayNodeID:   relayNode.ID,
		RelayPort:     "20000",
		ListenType:    db.ListenRaw,
		TransportType: db.TransportRaw,
	})

	dbm.User.Create(&db.User{
		Level:        0,
		TotalTraffic: 10 * utils.GB,
		SSPort:       30000,
		SSPassword:   strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
		LinkToken:    uuid.NewString(),
	})
}
