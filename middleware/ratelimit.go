package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LimiterStore 按 key（客户端 IP）维护令牌桶，空闲的 key 定期清理
type LimiterStore struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewLimiterStore 创建限流存储，每秒补充 rps 个令牌，桶容量 burst
func NewLimiterStore(rps float64, burst int) *LimiterStore {
	return &LimiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

// Allow 消耗 key 的一个令牌
func (s *LimiterStore) Allow(key string) bool {
	now := s.now()

	s.mu.Lock()
	ent, ok := s.entries[key]
	if !ok {
		ent = &limiterEntry{lim: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = ent
	}
	ent.lastSeen = now
	s.mu.Unlock()

	return ent.lim.AllowN(now, 1)
}

// Cleanup 删除空闲超过 idleTTL 的 key，返回删除数量
func (s *LimiterStore) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len 当前跟踪的 key 数量
func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor 定期清理空闲 key，ctx 取消后退出
func (s *LimiterStore) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.Cleanup()
			}
		}
	}()
}

// LoginRateLimit 登录/注册限流中间件，令牌耗尽时返回 429
func LoginRateLimit(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		const msg = "Too many attempts, please try again later"
		if IsAPIRequest(c) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": msg,
				"data":    nil,
			})
			return
		}
		c.String(http.StatusTooManyRequests, msg)
		c.Abort()
	}
}
