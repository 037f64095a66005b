// Package cache 提供交易列表缓存：进程内 LRU 或 Redis。
package cache

import (
	"context"
	"time"
)

// Cache 通用缓存接口
type Cache[T any] interface {
	// Get 读取缓存，未命中或已过期返回 false
	Get(ctx context.Context, key string) (T, bool)
	// Set 写入缓存
	Set(ctx context.Context, key string, value T)
	// Delete 删除缓存
	Delete(ctx context.Context, key string)
}

// Cleaner 支持主动清理过期项的缓存
type Cleaner interface {
	CleanExpired() int
}

// StartJanitor 定期清理过期项，ctx 取消后退出
func StartJanitor(ctx context.Context, c Cleaner, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.CleanExpired()
			}
		}
	}()
}
