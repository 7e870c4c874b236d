package db

import (
	"sort"
	"time"

	"gorm.io/gorm"
)

type UserTrafficLogRepo struct {
	db *gorm.DB
}

func NewUserTrafficLogRepo(db *gorm.DB) *UserTrafficLogRepo {
	return &UserTrafficLogRepo{db: db}
}

// Create 追加一条增量记录，记录写入后不再修改
func (r *UserTrafficLogRepo) Create(log *UserTrafficLog) error {
	return r.db.Create(log).Error
}

func (r *UserTrafficLogRepo) ListByUser(userID uint, page, pageSize int) ([]UserTrafficLog, int64, error) {
	var logs []UserTrafficLog
	var total int64

	r.db.Model(&UserTrafficLog{}).Where("user_id = ?", userID).Count(&total)

	offset := (page - 1) * pageSize
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&logs)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return logs, total, nil
}

// GetUserNodeTrafficSum 用户在单个节点上的累计流量，即全部增量求和
func (r *UserTrafficLogRepo) GetUserNodeTrafficSum(userID, proxyNodeID uint) (int64, int64, error) {
	type Result struct {
		TotalUpload   int64
		TotalDownload int64
	}
	var result Result
	err := r.db.Model(&UserTrafficLog{}).
		Select("SUM(upload_traffic) as total_upload, SUM(download_traffic) as total_download").
		Where("user_id = ? AND proxy_node_id = ?", userID, proxyNodeID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.TotalUpload, result.TotalDownload, nil
}

func (r *UserTrafficLogRepo) GetUserTrafficSum(userID uint) (int64, int64, error) {
	type Result struct {
		TotalUpload   int64
		TotalDownload int64
	}
	var result Result
	err := r.db.Model(&UserTrafficLog{}).
		Select("SUM(upload_traffic) as total_upload, SUM(download_traffic) as total_download").
		Where("user_id = ?", userID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.TotalUpload, result.TotalDownload, nil
}

// 指定时间范围内的全站流量统计
func (r *UserTrafficLogRepo) GetTrafficStats(startTime, endTime time.Time) (int64, int64, error) {
	type Result struct {
		TotalUpload   int64
		TotalDownload int64
	}
	var result Result
	err := r.db.Model(&UserTrafficLog{}).
		Select("SUM(upload_traffic) as total_upload, SUM(download_traffic) as total_download").
		Where("created_at BETWEEN ? AND ?", startTime, endTime).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.TotalUpload, result.TotalDownload, nil
}

// 获取所有用户在指定时间范围内的流量排行
func (r *UserTrafficLogRepo) GetUserTrafficRank(startTime, endTime time.Time) ([]map[string]interface{}, error) {
	type Result struct {
		UserID        uint
		TotalUpload   int64
		TotalDownload int64
	}
	var results []Result

	err := r.db.Model(&UserTrafficLog{}).
		Select("user_id, SUM(upload_traffic) as total_upload, SUM(download_traffic) as total_download").
		Where("created_at BETWEEN ? AND ?", startTime, endTime).
		Group("user_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		stats = append(stats, map[string]interface{}{
			"userId":   r.UserID,
			"upload":   r.TotalUpload,
			"download": r.TotalDownload,
			"traffic":  r.TotalUpload + r.TotalDownload,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i]["traffic"].(int64) > stats[j]["traffic"].(int64)
	})
	return stats, nil
}

func (r *UserTrafficLogRepo) GetNodeTrafficRank(startTime, endTime time.Time) ([]map[string]interface{}, error) {
	type Result struct {
		ProxyNodeID   uint
		TotalUpload   int64
		TotalDownload int64
	}
	var results []Result

	err := r.db.Model(&UserTrafficLog{}).
		Select("proxy_node_id, SUM(upload_traffic) as total_upload, SUM(download_traffic) as total_download").
		Where("created_at BETWEEN ? AND ?", startTime, endTime).
		Group("proxy_node_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	stats := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		stats = append(stats, map[string]interface{}{
			"nodeId":   r.ProxyNodeID,
			"upload":   r.TotalUpload,
			"download": r.TotalDownload,
			"traffic":  r.TotalUpload + r.TotalDownload,
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i]["traffic"].(int64) > stats[j]["traffic"].(int64)
	})
	return stats, nil
}

func (r *UserTrafficLogRepo) Clean(beforeTime time.Time) error {
	return r.db.Where("created_at < ?", beforeTime).Delete(&UserTrafficLog{}).Error
}
