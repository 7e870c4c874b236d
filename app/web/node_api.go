package web

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/manager"
)

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, errorR(400, "无效的节点ID"))
		return 0, false
	}
	return uint(id), true
}

// 节点拉取自身应执行的用户配置
func getProxyConfigs(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	configs, err := manager.ProxyConfigsForNode(id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(404, errorR(404, "节点不存在"))
		case errors.Is(err, manager.ErrUnsupportedNodeType):
			// 显式的"不支持"，与空配置区分开
			c.JSON(400, errorR(400, manager.ErrUnsupportedNodeType.Error()))
		default:
			c.JSON(500, errorR(500, "生成节点配置失败"))
		}
		return
	}
	c.JSON(200, successR(configs))
}

func getEhcoServerConfig(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	config, err := manager.EhcoServerConfigForNode(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, errorR(404, "节点不存在"))
			return
		}
		c.JSON(500, errorR(500, "生成隧道配置失败"))
		return
	}
	c.JSON(200, successR(config))
}

func getEhcoRelayConfig(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	config, err := manager.EhcoRelayConfigForNode(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, errorR(404, "中转节点不存在"))
			return
		}
		c.JSON(500, errorR(500, "生成中转配置失败"))
		return
	}
	c.JSON(200, successR(config))
}

type UserTrafficReport struct {
	UserID          uint     `json:"user_id"`
	UploadTraffic   int64    `json:"upload_traffic"`
	DownloadTraffic int64    `json:"download_traffic"`
	IPList          []string `json:"ip_list"`
}

// NodeReport 节点周期上报：心跳 + 上次上报以来的流量增量
type NodeReport struct {
	OnlineUserCount     int                 `json:"online_user_count"`
	TCPConnectionsCount int                 `json:"tcp_connections_count"`
	TrafficList         []UserTrafficReport `json:"traffic_list"`
}

// 上报时间戳一律取服务端接收时刻，不信任节点侧时钟
func postNodeReport(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	node, err := manager.DBM.ProxyNode.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, errorR(404, "节点不存在"))
			return
		}
		c.JSON(500, errorR(500, "读取节点失败"))
		return
	}

	var report NodeReport
	if err := c.ShouldBindJSON(&report); err != nil {
		c.JSON(400, errorR(400, "Invalid request data"))
		return
	}

	now := time.Now().Truncate(time.Second)
	if err := manager.StatisticDBM.NodeOnline.Create(&db.NodeOnlineLog{
		ProxyNodeID:         node.ID,
		OnlineUserCount:     report.OnlineUserCount,
		TCPConnectionsCount: report.TCPConnectionsCount,
		CreatedAt:           now,
	}); err != nil {
		c.JSON(500, errorR(500, "写入心跳记录失败"))
		return
	}

	// 单条记录异常只拒绝该条，不影响同批其他用户
	accepted := 0
	var nodeTraffic int64
	for _, item := range report.TrafficList {
		if item.UploadTraffic < 0 || item.DownloadTraffic < 0 {
			log.Warn().Uint("node", node.ID).Uint("user", item.UserID).
				Msg("流量增量为负，已丢弃")
			continue
		}
		if err := manager.StatisticDBM.UserTraffic.Create(&db.UserTrafficLog{
			UserID:          item.UserID,
			ProxyNodeID:     node.ID,
			UploadTraffic:   item.UploadTraffic,
			DownloadTraffic: item.DownloadTraffic,
			CreatedAt:       now,
		}); err != nil {
			log.Warn().Err(err).Uint("user", item.UserID).Msg("写入流量记录失败")
			continue
		}
		// 回写外部账户累计值，配额判断读的是账户而非日志
		if err := manager.DBM.User.AddTraffic(item.UserID, item.UploadTraffic, item.DownloadTraffic); err != nil {
			log.Warn().Err(err).Uint("user", item.UserID).Msg("同步用户流量失败")
		}
		nodeTraffic += item.UploadTraffic + item.DownloadTraffic
		accepted++

		for _, ip := range item.IPList {
			manager.StatisticDBM.UserOnlineIP.Create(&db.UserOnlineIPLog{
				UserID:      item.UserID,
				ProxyNodeID: node.ID,
				IP:          ip,
				Country:     manager.CountryOfIP(ip),
				CreatedAt:   now,
			})
		}
	}
	if nodeTraffic > 0 {
		// 节点侧已用流量按计费倍率放大
		scaled := int64(float64(nodeTraffic) * node.EnlargeScale)
		if err := manager.DBM.ProxyNode.AddUsedTraffic(node.ID, scaled); err != nil {
			log.Warn().Err(err).Uint("node", node.ID).Msg("累加节点流量失败")
		}
		// 用户累计值变了，旧的下发配置不能再命中
		manager.BumpConfigVersion()
	}

	c.JSON(200, successR(gin.H{
		"accepted": accepted,
	}))
}
