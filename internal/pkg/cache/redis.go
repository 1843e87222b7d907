package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"guava/internal/config"
)

// ErrNotFound key 不存在
var ErrNotFound = errors.New("cache: key not found")

// Store 键值存储边界
// 会话与 model 配置仓库只依赖这个接口，便于测试替换
type Store interface {
	// Set 写入值并设置过期时间（expiration <= 0 表示不过期）
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Get 读取并反序列化到 dest，key 不存在返回 ErrNotFound
	Get(ctx context.Context, key string, dest any) error
	// Expire 重置 key 的过期倒计时
	Expire(ctx context.Context, key string, expiration time.Duration) error
	// TTL 返回剩余存活时间；key 不存在返回 ErrNotFound，无过期时间返回 0
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Delete 删除一个或多个 key
	Delete(ctx context.Context, keys ...string) error
	// Exists 检查 key 是否存在
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 按前缀枚举 key（快照语义，和过期之间存在竞态）
	Keys(ctx context.Context, prefix string) ([]string, error)
	// Ping 健康检查
	Ping(ctx context.Context) error
}

// RedisCache Redis 缓存封装
type RedisCache struct {
	client *redis.Client
}

var _ Store = (*RedisCache)(nil)

// NewRedisCache 创建 Redis 缓存客户端
func NewRedisCache(cfg *config.RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Set 设置缓存
func (c *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Expire 重置过期时间
func (c *RedisCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.client.Expire(ctx, key, expiration).Err()
}

// TTL 返回剩余存活时间
func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// go-redis: -2 表示 key 不存在，-1 表示无过期时间
	switch ttl {
	case -2:
		return 0, ErrNotFound
	case -1:
		return 0, nil
	}
	return ttl, nil
}

// Delete 删除缓存
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Exists 检查 key 是否存在
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// Keys 按前缀枚举 key
func (c *RedisCache) Keys(ctx context.Context, prefix string) ([]string, error) {
	pattern := prefix + "*"
	keys, err := c.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, err
	}
	// 只保留真正以前缀开头的 key（前缀本身可能含 glob 元字符）
	out := keys[:0]
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Ping 健康检查
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close 关闭连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Client 获取原始客户端
func (c *RedisCache) Client() *redis.Client {
	return c.client
}
