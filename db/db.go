package db

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	MAX = 10000000
)

type RepoManager struct {
	DB        *gorm.DB
	ProxyNode *ProxyNodeRepo
	RelayNode *RelayNodeRepo
	RelayRule *RelayRuleRepo
	User      *UserRepo
}

type StatisticRepoManager struct {
	DB           *gorm.DB
	NodeOnline   *NodeOnlineLogRepo
	UserTraffic  *UserTrafficLogRepo
	UserOnlineIP *UserOnlineIPLogRepo
}

func OpenDB(dbPath string) (*gorm.DB, bool, error) {
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, false, err
		}
	}

	// 检查文件是否存在，不存在则创建
	var isNewDB bool
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		file, err := os.Create(dbPath)
		if err != nil {
			return nil, false, err
		}
		file.Close()
		isNewDB = true
	}
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	return db, isNewDB, err
}

func InitRepo(dbPath string) (*RepoManager, bool, error) {
	db, isNewDB, err := OpenDB(dbPath)
	if err != nil {
		return nil, isNewDB, err
	}

	// 迁移数据库表结构
	err = db.AutoMigrate(
		&ProxyNode{},
		&SSConfig{},
		&RelayNode{},
		&RelayRule{},
		&User{},
	)
	if err != nil {
		return nil, isNewDB, err
	}
	manager := &RepoManager{
		DB:        db,
		ProxyNode: NewProxyNodeRepo(db),
		RelayNode: NewRelayNodeRepo(db),
		RelayRule: NewRelayRuleRepo(db),
		User:      NewUserRepo(db),
	}
	return manager, isNewDB, nil
}

func InitStatisticRepo(dbPath string) (*StatisticRepoManager, bool, error) {
	db, isNewDB, err := OpenDB(dbPath)
	if err != nil {
		return nil, isNewDB, err
	}

	// 迁移数据库表结构
	err = db.AutoMigrate(
		&NodeOnlineLog{},
		&UserTrafficLog{},
		&UserOnlineIPLog{},
	)
	if err != nil {
		return nil, isNewDB, err
	}
	manager := &StatisticRepoManager{
		DB:           db,
		NodeOnline:   NewNodeOnlineLogRepo(db),
		UserTraffic:  NewUserTrafficLogRepo(db),
		UserOnlineIP: NewUserOnlineIPLogRepo(db),
	}
	return manager, isNewDB, nil
}
