package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// 本地持久化的命名集合。购物车/心愿单按用户邮箱分键，
// 订单按订单号分键，会话集合存当前登录身份与后台标记。
const (
	CollCart     = "cart"
	CollWishlist = "wishlist"
	CollOrders   = "orders"
	CollSession  = "session"
)

// 会话集合内的固定键
const (
	KeyUser       = "user"
	KeyAdminToken = "adminToken"
)

// Store 基于 bbolt 的本地键值持久化仓储
// 每个命名集合对应一个 bucket，值统一 JSON 序列化。显式构造后
// 注入到各个 Store/Service，不做全局单例。
type Store struct {
	db *bolt.DB
}

// Open 打开（必要时创建）本地数据文件并准备好全部集合
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{CollCart, CollWishlist, CollOrders, CollSession} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close 关闭数据文件
func (s *Store) Close() error {
	return s.db.Close()
}

// Put 写入集合中的一个键，值 JSON 序列化
func (s *Store) Put(collection, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(collection)).Put([]byte(key), raw)
	})
}

// Get 读取集合中的一个键。键不存在返回 (false, nil)。
// 存量数据损坏（JSON 解析失败）按"回退为空集合"处理：记日志、
// 返回未命中，不向上抛错。
func (s *Store) Get(collection, key string, v any) (bool, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(collection)).Get([]byte(key)); data != nil {
			raw = append(raw, data...)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		zap.L().Warn("localstore: corrupt payload, falling back to empty",
			zap.String("collection", collection),
			zap.String("key", key),
			zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Delete 删除集合中的一个键，键不存在时为 no-op
func (s *Store) Delete(collection, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(collection)).Delete([]byte(key))
	})
}

// ForEach 遍历集合内的全部键值（原始 JSON）
func (s *Store) ForEach(collection string, fn func(key string, raw []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(collection)).ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}
