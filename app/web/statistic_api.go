package web

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xmrio/django-sspanel/manager"
	"github.com/xmrio/django-sspanel/utils"
)

func getTrafficHistory(c *gin.Context) {
	timeRange := c.Param("timeRange")
	startTime := time.Now()
	endTime := time.Now()
	timeStep := time.Hour
	timeTable := []string{}
	downBytes := []int64{}
	upBytes := []int64{}
	switch timeRange {
	case "hour":
		startTime = startTime.Add(-time.Hour * 23)
		timeStep = time.Hour
	case "day":
		startTime = startTime.Add(-time.Hour * 24 * 6)
		timeStep = time.Hour * 24
	case "week":
		startTime = startTime.Add(-time.Hour * 24 * 7 * 3)
		timeStep = time.Hour * 24 * 7
	default:
		c.JSON(400, errorR(400, "不支持的时间范围"))
		return
	}
	weekCount := 1
	for t := startTime; !t.After(endTime); t = t.Add(timeStep) {
		startOfTime := t.Truncate(timeStep)
		endOfTime := startOfTime.Add(timeStep)
		upload, download, err := manager.StatisticDBM.UserTraffic.GetTrafficStats(startOfTime, endOfTime)
		if err != nil {
			c.JSON(500, errorR(500, "获取流量统计失败"))
			return
		}
		downBytes = append(downBytes, download)
		upBytes = append(upBytes, upload)

		switch timeRange {
		case "hour":
			timeTable = append(timeTable, t.Format("15:00"))
		case "day":
			timeTable = append(timeTable, t.Format("01-02"))
		case "week":
			timeTable = append(timeTable, fmt.Sprintf("第%d周", weekCount))
			weekCount++
		}
	}
	c.JSON(200, successR(gin.H{
		"labels":   timeTable,
		"download": downBytes,
		"upload":   upBytes,
	}))
}

func getTrafficStatus(c *gin.Context) {
	today := time.Now().Truncate(time.Hour * 24)
	upload, download, err := manager.StatisticDBM.UserTraffic.GetTrafficStats(today, time.Now())
	if err != nil {
		c.JSON(500, errorR(500, "获取流量统计失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"download": download,
		"upload":   upload,
		"total":    download + upload,
	}))
}

func getNodeTrafficRank(c *gin.Context) {
	startTime := time.Now().Add(-time.Hour * 24 * 7).Truncate(time.Hour * 24)
	endTime := time.Now()
	stats, err := manager.StatisticDBM.UserTraffic.GetNodeTrafficRank(startTime, endTime)
	if err != nil {
		c.JSON(500, errorR(500, "获取流量统计失败"))
		return
	}
	c.JSON(200, successR(stats))
}

func getUserTrafficRank(c *gin.Context) {
	startTime := time.Now().Add(-time.Hour * 24 * 7).Truncate(time.Hour * 24)
	endTime := time.Now()
	stats, err := manager.StatisticDBM.UserTraffic.GetUserTrafficRank(startTime, endTime)
	if err != nil {
		c.JSON(500, errorR(500, "获取流量统计失败"))
		return
	}
	c.JSON(200, successR(stats))
}

// 节点面板视图：每次请求重新推导在线状态
func getNodeStatus(c *gin.Context) {
	nodes, err := manager.DBM.ProxyNode.ListActive()
	if err != nil {
		c.JSON(500, errorR(500, "获取节点状态失败"))
		return
	}
	now := time.Now()
	views := make([]gin.H, 0, len(nodes))
	for i := range nodes {
		node := &nodes[i]
		info, _ := manager.NodeOnlineInfo(node.ID, now)
		views = append(views, gin.H{
			"id":                node.ID,
			"name":              node.Name,
			"online":            info.Online,
			"onlineUserCount":   info.OnlineUserCount,
			"tcpConnections":    info.TCPConnectionsCount,
			"humanUsedTraffic":  utils.TrafficFormat(node.UsedTraffic),
			"humanTotalTraffic": utils.TrafficFormat(node.TotalTraffic),
		})
	}
	c.JSON(200, successR(views))
}

func getFleetOnlineUserCount(c *gin.Context) {
	count, err := manager.FleetOnlineUserCount(time.Now())
	if err != nil {
		c.JSON(500, errorR(500, "获取在线用户数失败"))
		return
	}
	c.JSON(200, successR(gin.H{
		"onlineUserCount": count,
	}))
}

func clearConfigCache(c *gin.Context) {
	if err := manager.ClearConfigCache(); err != nil {
		c.JSON(500, errorR(500, "清空配置缓存失败"))
		return
	}
	manager.BumpConfigVersion()
	c.JSON(200, successR(gin.H{
		"message": "配置缓存已清空",
	}))
}
