package manager

import (
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
)

// 下发配置是输入快照的纯函数，可以安全缓存；
// 失效键带目录版本号，任何节点/用户变更都会让旧条目失配
var (
	cacheDB       *badger.DB
	cacheLRU      *lru.Cache[string, any]
	cacheEnable   bool
	configVersion atomic.Uint64
)

const configCacheSize = 1024

func initConfigCache(dir string) error {
	var err error
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	cacheDB, err = badger.Open(opts)
	if err != nil {
		return err
	}
	cacheLRU, _ = lru.NewWithEvict(configCacheSize, badgerDelete)
	cacheEnable = true
	log.Info().Str("dir", dir).Msg("节点配置缓存已启用")
	return nil
}

func badgerDelete(key string, nothing any) {
	cacheDB.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func cacheKey(nodeID uint) string {
	return fmt.Sprintf("proxy_configs/%d/v%d", nodeID, configVersion.Load())
}

// BumpConfigVersion 目录变更后调用，旧版本条目不再命中
func BumpConfigVersion() {
	configVersion.Add(1)
}

func ConfigCacheGet(nodeID uint) ([]byte, bool) {
	if !cacheEnable {
		return nil, false
	}
	key := cacheKey(nodeID)
	if _, ok := cacheLRU.Get(key); !ok {
		return nil, false
	}
	var valCopy []byte
	err := cacheDB.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		valCopy, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false
	}
	return valCopy, true
}

func ConfigCacheSet(nodeID uint, payload []byte) {
	if !cacheEnable {
		return
	}
	key := cacheKey(nodeID)
	cacheLRU.Add(key, nil)
	if err := cacheDB.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), payload)
	}); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("写入配置缓存失败")
	}
}

func ClearConfigCache() error {
	if !cacheEnable {
		return nil
	}
	cacheLRU.Purge()
	return cacheDB.DropAll()
}
