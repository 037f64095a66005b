package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis 基于 Redis 的缓存，值以 JSON 保存
// Redis 不可用时按未命中处理，只记录日志
type Redis[T any] struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedis 创建 Redis 缓存
func NewRedis[T any](rdb redis.Cmdable, prefix string, ttl time.Duration) *Redis[T] {
	return &Redis[T]{
		rdb:    rdb,
		prefix: strings.Trim(prefix, ":"),
		ttl:    ttl,
	}
}

func (c *Redis[T]) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + ":" + k
}

// Get 读取缓存
func (c *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T
	data, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "读取 Redis 缓存失败", "key", c.key(key), "error", err)
		}
		return zero, false
	}
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		slog.WarnContext(ctx, "解析 Redis 缓存失败", "key", c.key(key), "error", err)
		return zero, false
	}
	return value, true
}

// Set 写入缓存
func (c *Redis[T]) Set(ctx context.Context, key string, value T) {
	data, err := json.Marshal(value)
	if err != nil {
		slog.WarnContext(ctx, "编码缓存失败", "key", c.key(key), "error", err)
		return
	}
	if err := c.rdb.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "写入 Redis 缓存失败", "key", c.key(key), "error", err)
	}
}

// Delete 删除缓存
func (c *Redis[T]) Delete(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, c.key(key)).Err(); err != nil {
		slog.WarnContext(ctx, "删除 Redis 缓存失败", "key", c.key(key), "error", err)
	}
}

// Close 关闭底层连接，rdb 不可关闭时什么也不做
func (c *Redis[T]) Close() error {
	if closer, ok := c.rdb.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NewRedisClient 创建并检测 Redis 连接
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}
