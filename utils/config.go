package utils

import (
	"encoding/json"
	"os"
	"time"
)

const defaultNodeTimeoutSec = 300

type RootConfig struct {
	DB             string `json:"db"`
	StatisticDB    string `json:"statistic_db"`
	WebAddress     string `json:"web_address"`
	WebSecret      string `json:"web_secret"`
	AdminUser      string `json:"admin_user"`
	AdminPassword  string `json:"admin_password"`
	APIToken       string `json:"api_token"`
	Host           string `json:"host"`
	NodeTimeoutSec int    `json:"node_timeout_sec"`
	CacheDir       string `json:"cache_dir"`
	GeoIPPath      string `json:"geoip_path"`
	StaticPath     string `json:"static_path"`
}

func LoadRootConfig(file string) (*RootConfig, error) {
	config := &RootConfig{}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}
	// 环境变量覆盖，便于不把密钥写进配置文件
	if v := os.Getenv("SSPANEL_WEB_SECRET"); v != "" {
		config.WebSecret = v
	}
	if v := os.Getenv("SSPANEL_API_TOKEN"); v != "" {
		config.APIToken = v
	}
	if v := os.Getenv("SSPANEL_ADMIN_PASSWORD"); v != "" {
		config.AdminPassword = v
	}
	if config.NodeTimeoutSec == 0 {
		config.NodeTimeoutSec = defaultNodeTimeoutSec
	}
	return config, nil
}

// NodeTimeout 节点心跳存活窗口
func (c *RootConfig) NodeTimeout() time.Duration {
	return time.Duration(c.NodeTimeoutSec) * time.Second
}
