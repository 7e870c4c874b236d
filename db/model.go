package db

import "time"

const (
	NodeTypeSS     = "ss"
	NodeTypeVless  = "vless"
	NodeTypeTrojan = "trojan"

	ListenRaw = "raw"
	ListenWS  = "ws"
	ListenWSS = "wss"

	TransportRaw  = "raw"
	TransportWS   = "ws"
	TransportWSS  = "wss"
	TransportMWSS = "mwss"

	ISPCMCC = "移动"
	ISPCUCC = "联通"
	ISPCTCC = "电信"
	ISPBGP  = "BGP"

	DefaultSSMethod = "aes-256-gcm"
)

// 从属关系：ProxyNode 独占 SSConfig，节点删除时级联删除；
// RelayRule 是 ProxyNode 与 RelayNode 间的显式边，任一端删除时级联删除规则。
// 日志表只追加不修改，通过时间窗口或最新一条读取，不做全量加载。
type ProxyNode struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"size:32;not null"`
	Server   string `gorm:"size:256;not null"` // 支持逗号分隔传多个地址
	Enable   bool   `gorm:"index"`
	NodeType string `gorm:"size:32;default:ss"`
	Info     string `gorm:"size:1024"`
	Level    uint   `gorm:"default:0"` // 用户等级门槛
	Country  string `gorm:"size:5;default:CN"`

	UsedTraffic  int64   `gorm:"default:0"`
	TotalTraffic int64   `gorm:"default:1073741824"`
	EnlargeScale float64 `gorm:"default:1.0"` // 流量计费倍率

	EhcoListenHost    string `gorm:"size:64"`
	EhcoListenPort    string `gorm:"size:64"`
	EhcoListenType    string `gorm:"size:64;default:raw"`
	EhcoTransportType string `gorm:"size:64;default:raw"`

	Sequence uint `gorm:"default:0"` // 手动排序，展示与下发均按此序

	SSConfig   *SSConfig   `gorm:"foreignKey:ProxyNodeID;constraint:OnDelete:CASCADE"`
	RelayRules []RelayRule `gorm:"foreignKey:ProxyNodeID;constraint:OnDelete:CASCADE"`
}

// SSConfig 仅 ss 类型节点持有
type SSConfig struct {
	ProxyNodeID   uint   `gorm:"primaryKey"`
	Method        string `gorm:"size:32;default:aes-256-gcm"`
	MultiUserPort *int   // 单端口多用户端口，为空时用户各用自己的端口
}

type RelayNode struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"size:32;not null"`
	Server string `gorm:"size:256;not null"`
	Enable bool   `gorm:"index"`
	ISP    string `gorm:"size:64;default:BGP"`

	RelayRules []RelayRule `gorm:"foreignKey:RelayNodeID;constraint:OnDelete:CASCADE"`
}

// RelayRule 中转规则，显式多对多边，携带自己的端口与传输属性
type RelayRule struct {
	ID          uint `gorm:"primaryKey"`
	ProxyNodeID uint `gorm:"not null;index"`
	RelayNodeID uint `gorm:"not null;index"`

	RelayPort     string `gorm:"size:64;not null"`
	ListenType    string `gorm:"size:64;default:raw"`
	TransportType string `gorm:"size:64;default:raw"`

	ProxyNode ProxyNode `gorm:"foreignKey:ProxyNodeID"`
	RelayNode RelayNode `gorm:"foreignKey:RelayNodeID"`
}

// NodeOnlineLog 节点心跳记录，时间戳由服务端在接收时打上
type NodeOnlineLog struct {
	ID                  uint      `gorm:"primaryKey"`
	ProxyNodeID         uint      `gorm:"not null;index:idx_node_created"`
	OnlineUserCount     int       `gorm:"default:0"`
	TCPConnectionsCount int       `gorm:"default:0"`
	CreatedAt           time.Time `gorm:"index:idx_node_created"`
}

// Online 判断该心跳在窗口内是否仍算在线
func (l *NodeOnlineLog) Online(now time.Time, timeout time.Duration) bool {
	return now.Sub(l.CreatedAt) < timeout
}

// UserTrafficLog 用户流量增量记录，只追加
type UserTrafficLog struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index:idx_user_node_created"`
	ProxyNodeID     uint      `gorm:"not null;index:idx_user_node_created"`
	UploadTraffic   int64     `gorm:"default:0"`
	DownloadTraffic int64     `gorm:"default:0"`
	CreatedAt       time.Time `gorm:"index:idx_user_node_created"`
}

// UserOnlineIPLog 用户在线IP记录，只追加
type UserOnlineIPLog struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index:idx_ip_user_node"`
	ProxyNodeID uint      `gorm:"not null;index:idx_ip_user_node"`
	IP          string    `gorm:"size:128;not null"`
	Country     string    `gorm:"size:8"`
	CreatedAt   time.Time `gorm:"index"`
}

// User 账户记录由外部计费系统维护，本面板只读；
// 流量配额判断以该记录的累计值为准，而非流量日志求和。
type User struct {
	ID              uint   `gorm:"primaryKey"`
	Level           uint   `gorm:"default:0"`
	TotalTraffic    int64  `gorm:"default:1073741824"`
	UploadTraffic   int64  `gorm:"default:0"`
	DownloadTraffic int64  `gorm:"default:0"`
	SSPort          int    `gorm:"uniqueIndex"`
	SSPassword      string `gorm:"size:64"`
	LinkToken       string `gorm:"size:64"` // 订阅链接 token
}

// UsedTraffic 已用流量
func (u *User) UsedTraffic() int64 {
	return u.UploadTraffic + u.DownloadTraffic
}
