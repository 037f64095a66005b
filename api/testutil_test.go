package api

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"fintrack/client"
	"fintrack/config"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"
	"fintrack/web"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSessionID = "5f0c6a4e-3b7d-4f7e-9d1a-2b8c4e6f8a10"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gormDB, mock
}

// stubUpstream 测试用远端 API
type stubUpstream struct {
	mu sync.Mutex

	loginErr    error
	registerErr error

	transactions []models.Transaction
	listErr      error
	created      []models.CreateTransactionPayload
	createErr    error

	groups      map[string][]client.GroupTotal
	buckets     []client.TimeBucket
	trends      *client.CategoryTrends
	forecast    []float64
	forecastErr error
	steps       []int
}

func (s *stubUpstream) Login(_ context.Context, email, _ string) (*client.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &client.LoginResult{Token: "upstream-token", UserID: "u-1", Name: "Asha", Email: email}, nil
}

func (s *stubUpstream) Register(context.Context, string, string, string) error {
	return s.registerErr
}

func (s *stubUpstream) ListTransactions(context.Context, string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.transactions, nil
}

func (s *stubUpstream) CreateTransaction(_ context.Context, _ string, payload models.CreateTransactionPayload) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, payload)
	return &models.Transaction{ID: "t-new", Date: payload.Date, Category: payload.Category, Amount: payload.Amount, Type: models.TransactionType(payload.Type)}, nil
}

func (s *stubUpstream) GroupBy(_ context.Context, _ string, field string) ([]client.GroupTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.groups[field], nil
}

func (s *stubUpstream) TimeSeries(context.Context, string, string, string) ([]client.TimeBucket, error) {
	return s.buckets, nil
}

func (s *stubUpstream) CategoryTrends(context.Context, string) (*client.CategoryTrends, error) {
	if s.trends == nil {
		return &client.CategoryTrends{}, nil
	}
	return s.trends, nil
}

func (s *stubUpstream) Forecast(_ context.Context, _ string, steps int) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, steps)
	if s.forecastErr != nil {
		return nil, s.forecastErr
	}
	return s.forecast, nil
}

// testEnv 处理器测试环境
type testEnv struct {
	upstream *stubUpstream
	mock     sqlmock.Sqlmock
	deps     *Deps
}

// newTestEnv 创建测试环境；withPrefs 为 true 时偏好设置读写数据库
func newTestEnv(t *testing.T, up *stubUpstream, withPrefs bool) *testEnv {
	t.Helper()
	db, mock := setupMockDB(t)

	sessions := service.NewSessionService(db, service.NewTokenCipher("test-key"), time.Hour)
	ledger := service.NewLedgerService(up, nil)
	deps := &Deps{
		Auth:      service.NewAuthService(up, sessions, ledger),
		Ledger:    ledger,
		Dashboard: service.NewDashboardService(up, ledger),
		Reports:   service.NewReportService(up, ledger),
		Email:     service.NewEmailService(&config.EmailConfig{}),
		Cookie:    middleware.NewSessionCookie("fintrack_session", "test-secret", false),
	}
	if withPrefs {
		deps.Preferences = service.NewPreferenceService(db)
	}
	return &testEnv{upstream: up, mock: mock, deps: deps}
}

func testSession() *service.UserSession {
	return &service.UserSession{
		Session: models.Session{ID: testSessionID, UserID: "u-1", Email: "asha@example.com", Name: "Asha", ExpiresAt: time.Now().Add(time.Hour)},
		Token:   "upstream-token",
	}
}

// withSession 直接写入登录会话
func withSession(sess *service.UserSession) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess != nil {
			middleware.SetSession(c, sess)
		}
		c.Next()
	}
}

// newEngine 带页面模板的测试路由
func newEngine(sess *service.UserSession) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(web.Templates()))
	r.Use(withSession(sess))
	return r
}

func doRequest(r http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, target, "application/x-www-form-urlencoded", form.Encode())
}

// responseCookie 查找响应中设置的 Cookie
func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func sampleTransactions() []models.Transaction {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	return []models.Transaction{
		{ID: "1", Date: day(1), Category: "Food", SubCategory: "Groceries", Mode: "UPI", Amount: 100, Type: models.TypeExpense},
		{ID: "2", Date: day(2), Category: "Food", SubCategory: "Snacks", Mode: "Cash", Amount: 40, Type: models.TypeExpense},
		{ID: "3", Date: day(3), Category: "Shopping", SubCategory: "Home", Mode: "UPI", Amount: 300, Type: models.TypeExpense},
		{ID: "4", Date: day(4), Category: "Other", SubCategory: "Salary", Mode: "Net Banking", Amount: 5000, Type: models.TypeIncome},
	}
}
