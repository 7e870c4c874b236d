package manager

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xmrio/django-sspanel/db"
	"github.com/xmrio/django-sspanel/utils"
)

var (
	DBM          *db.RepoManager
	StatisticDBM *db.StatisticRepoManager

	NodeTimeout time.Duration
	APIToken    string
	Host        string
	Version     string
	StartUpTime time.Time

	trafficRecordDays = 30
)

// TrafficCleanCron 日志表无界增长，按保留天数周期清理
func TrafficCleanCron() {
	go func() {
		for {
			beforeTime := time.Now().Add(-time.Duration(trafficRecordDays) * 24 * time.Hour)
			StatisticDBM.UserTraffic.Clean(beforeTime)
			StatisticDBM.NodeOnline.Clean(beforeTime)
			StatisticDBM.UserOnlineIP.Clean(beforeTime)
			log.Info().Str("before", beforeTime.Format("2006-01-02")).Msg("统计记录已清理")
			time.Sleep(time.Hour * 24)
		}
	}()
}

func Start(config *utils.RootConfig, version string) {
	var err error
	var isNewDB bool
	DBM, isNewDB, err = db.InitRepo(config.DB)
	if err != nil {
		panic(err)
	}
	if isNewDB {
		loadDefaultData(DBM)
	}

	StatisticDBM, _, err = db.InitStatisticRepo(config.StatisticDB)
	if err != nil {
		panic(err)
	}

	NodeTimeout = config.NodeTimeout()
	APIToken = config.APIToken
	Host = config.Host
	Version = version

	if config.CacheDir != "" {
		if err := initConfigCache(config.CacheDir); err != nil {
			log.Warn().Err(err).Msg("节点配置缓存初始化失败，已禁用")
		}
	}
	if config.GeoIPPath != "" {
		if err := initGeoIP(config.GeoIPPath); err != nil {
			log.Warn().Err(err).Msg("geoip 数据库加载失败，IP记录不带国家标记")
		}
	}

	TrafficCleanCron()
	StartUpTime = time.Now().Truncate(time.Second)
	log.Info().Str("version", version).Msg("控制面已启动")
}
