package web

import (
	"github.com/gin-gonic/gin"

	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/manager"
	"github.com/xmrio/django-sspanel/utils"
)

// 用户账户由外部系统维护，这里只提供只读视图与日志查询
func getAllUser(c *gin.Context) {
	users, _, err := manager.DBM.User.List(0, db.MAX)
	if err != nil {
		c.JSON(500, errorR(500, "获取用户失败"))
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, user := range users {
		views = append(views, gin.H{
			"id":                user.ID,
			"level":             user.Level,
			"ssPort":            user.SSPort,
			"totalTraffic":      user.TotalTraffic,
			"usedTraffic":       user.UsedTraffic(),
			"humanTotalTraffic": utils.TrafficFormat(user.TotalTraffic),
			"humanUsedTraffic":  utils.TrafficFormat(user.UsedTraffic()),
			"overQuota":         user.TotalTraffic <= user.UsedTraffic(),
		})
	}
	c.JSON(200, successR(views))
}

func getUserTrafficLogs(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	logs, total, err := manager.StatisticDBM.UserTraffic.ListByUser(id, 1, 100)
	if err != nil {
		c.JSON(500, errorR(500, "获取流量记录失败"))
		return
	}
	views := make([]gin.H, 0, len(logs))
	for _, log := range logs {
		views = append(views, gin.H{
			"nodeId":       log.ProxyNodeID,
			"upload":       log.UploadTraffic,
			"download":     log.DownloadTraffic,
			"humanTraffic": utils.TrafficFormat(log.UploadTraffic + log.DownloadTraffic),
			"createdAt":    log.CreatedAt,
		})
	}
	c.JSON(200, successR(gin.H{
		"total": total,
		"logs":  views,
	}))
}

func getUserIPLogs(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	logs, total, err := manager.StatisticDBM.UserOnlineIP.ListByUser(id, 1, 100)
	if err != nil {
		c.JSON(500, errorR(500, "获取IP记录失败"))
		return
	}
	views := make([]gin.H, 0, len(logs))
	for _, log := range logs {
		views = append(views, gin.H{
			"nodeId":    log.ProxyNodeID,
			"ip":        log.IP,
			"country":   log.Country,
			"createdAt": log.CreatedAt,
		})
	}
	c.JSON(200, successR(gin.H{
		"total": total,
		"logs":  views,
	}))
}
