package auth

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	radix "github.com/mediocregopher/radix/v3"
)

// TokenCache JWT 解析结果的 Redis 缓存，避免每个请求都做签名校验
type TokenCache struct {
	redis radix.Client
	ttl   time.Duration
}

// NewTokenCache 构建缓存器，redis 为 nil 时缓存退化为直通
func NewTokenCache(redis radix.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TokenCache{redis: redis, ttl: ttl}
}

func (c *TokenCache) cacheKey(token string) string {
	sum := sha1.Sum([]byte(token))
	return fmt.Sprintf("auth:jwt:%s", hex.EncodeToString(sum[:]))
}

// Get 尝试命中缓存的 claims
func (c *TokenCache) Get(token string) (*Claims, bool) {
	if c.redis == nil {
		return nil, false
	}
	key := c.cacheKey(token)
	var raw string
	if err := c.redis.Do(radix.Cmd(&raw, "GET", key)); err != nil || raw == "" {
		return nil, false
	}
	var claims Claims
	if err := json.Unmarshal([]byte(raw), &claims); err != nil {
		// 数据损坏，清理后走正常解析
		_ = c.redis.Do(radix.Cmd(nil, "DEL", key))
		return nil, false
	}
	return &claims, true
}

// Set 缓存解析结果
func (c *TokenCache) Set(token string, claims *Claims) {
	if c.redis == nil || claims == nil {
		return
	}
	body, _ := json.Marshal(claims)
	_ = c.redis.Do(radix.FlatCmd(nil, "SETEX", c.cacheKey(token), int64(c.ttl/time.Second), body))
}
