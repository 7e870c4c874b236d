package manager

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNoSamples 节点从未上报过心跳，与"有记录但过期"的离线不同
var ErrNoSamples = errors.New("节点没有任何心跳记录")

type OnlineInfo struct {
	Online              bool `json:"online"`
	OnlineUserCount     int  `json:"online_user_count"`
	TCPConnectionsCount int  `json:"tcp_connections_count"`
}

// NodeOnlineInfo 滑动窗口在线判断：看最近一条心跳距 now 是否在窗口内。
// 没有"下线事件"，心跳停了下次查询自然变离线。
func NodeOnlineInfo(nodeID uint, now time.Time) (OnlineInfo, error) {
	info := OnlineInfo{}
	latest, err := StatisticDBM.NodeOnline.GetLatestByNode(nodeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return info, ErrNoSamples
		}
		return info, err
	}
	if latest.Online(now, NodeTimeout) {
		info.Online = true
		info.OnlineUserCount = latest.OnlineUserCount
		info.TCPConnectionsCount = latest.TCPConnectionsCount
	}
	return info, nil
}

// FleetOnlineUserCount 全部启用节点的在线用户数之和，
// 无心跳或心跳过期的节点计零
func FleetOnlineUserCount(now time.Time) (int, error) {
	nodes, err := DBM.ProxyNode.ListActive()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, node := range nodes {
		info, err := NodeOnlineInfo(node.ID, now)
		if err != nil && !errors.Is(err, ErrNoSamples) {
			return 0, err
		}
		count += info.OnlineUserCount
	}
	return count, nil
}
