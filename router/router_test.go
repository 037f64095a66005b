package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fintrack/api"
	"fintrack/client"
	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "http://localhost:8080"

type memoryStore map[string]*service.UserSession

func (m memoryStore) Get(_ context.Context, id string) (*service.UserSession, error) {
	if s, ok := m[id]; ok {
		return s, nil
	}
	return nil, service.ErrSessionNotFound
}

func setupTestRouter(t *testing.T, store memoryStore) (*gin.Engine, *middleware.SessionCookie) {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{Mode: gin.TestMode, BaseURL: testOrigin}}
	upstream := client.New("http://127.0.0.1:1", time.Second)
	cookie := middleware.NewSessionCookie("fintrack_session", "test-secret", false)
	deps := &api.Deps{
		Auth:   service.NewAuthService(upstream, nil, nil),
		Email:  service.NewEmailService(&config.EmailConfig{}),
		Cookie: cookie,
	}
	limiter := middleware.NewLimiterStore(0.001, 1)
	return SetupRouter(cfg, deps, store, limiter), cookie
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHome(t *testing.T) {
	sess := &service.UserSession{Session: models.Session{ID: "sid-1", Email: "asha@example.com"}, Token: "tok"}
	r, cookie := setupTestRouter(t, memoryStore{"sid-1": sess})

	// 未登录跳转登录页
	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/signin", w.Header().Get("Location"))

	// 已登录跳转仪表盘，访问登录页也跳转
	value, err := cookie.Sign("sid-1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	for _, path := range []string{"/", "/signin", "/no-such-page"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(&http.Cookie{Name: "fintrack_session", Value: value})
		w = serve(r, req)
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"), path)
	}
}

func TestSignInPage(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/signin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Welcome back!")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardScript_DailyLabels(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	// 每日图表直接使用服务端格式化好的 "Jan 02" 标签
	w := serve(r, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "labels: daily.map(function (d) { return d.date; })")
	assert.NotContains(t, w.Body.String(), "d.date.slice(")
}

func TestAPI_Unauthenticated(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Please sign in")

	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", testOrigin)
	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	// 其他站点不返回允许头
	req = httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoginRateLimit(t *testing.T) {
	r, _ := setupTestRouter(t, memoryStore{})

	post := func() *httptest.ResponseRecorder {
		form := url.Values{"email": {"ab"}, "password": {"1"}}
		req := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return serve(r, req)
	}

	// 第一次校验失败，第二次被限流
	assert.Equal(t, http.StatusBadRequest, post().Code)
	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}
