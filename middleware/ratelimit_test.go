package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// 几乎不补充令牌，桶容量 2
	store := NewLimiterStore(0.001, 2)
	router := gin.New()
	router.POST("/signin", LoginRateLimit(store), func(c *gin.Context) {
		c.String(200, "ok")
	})
	router.POST("/api/v1/login", LoginRateLimit(store), func(c *gin.Context) {
		c.String(200, "ok")
	})

	doReq := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// 同一 IP 连续 3 次，第 3 次应返回 429
	w1 := doReq("/signin", "192.168.1.1")
	w2 := doReq("/signin", "192.168.1.1")
	w3 := doReq("/signin", "192.168.1.1")
	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "Too many attempts")

	// JSON 接口返回统一响应结构
	w4 := doReq("/api/v1/login", "192.168.1.1")
	assert.Equal(t, http.StatusTooManyRequests, w4.Code)
	assert.Contains(t, w4.Body.String(), `"code":429`)

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq("/signin", "192.168.1.2").Code)
	assert.Equal(t, 200, doReq("/signin", "192.168.1.2").Code)
}

func TestLimiterStore_Refill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewLimiterStore(1, 1)
	store.now = func() time.Time { return now }

	assert.True(t, store.Allow("a"))
	assert.False(t, store.Allow("a"))

	// 1 秒后补充一个令牌
	now = now.Add(time.Second)
	assert.True(t, store.Allow("a"))
}

func TestLimiterStore_Cleanup(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewLimiterStore(1, 1)
	store.now = func() time.Time { return now }

	store.Allow("a")
	now = now.Add(10 * time.Minute)
	store.Allow("b")
	assert.Equal(t, 2, store.Len())

	now = now.Add(6 * time.Minute)
	assert.Equal(t, 1, store.Cleanup())
	assert.Equal(t, 1, store.Len())
}
