package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"fintrack/client"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReportRouter(env *testEnv) *gin.Engine {
	dashboard := NewDashboardHandler(env.deps)
	reports := NewReportHandler(env.deps)
	r := newEngine(testSession())
	r.GET("/dashboard", dashboard.Page)
	r.GET("/reports", reports.Page)
	r.GET("/api/v1/dashboard", dashboard.Get)
	r.GET("/api/v1/reports/yearly", reports.Yearly)
	r.GET("/api/v1/reports/forecast", reports.Forecast)
	r.GET("/api/v1/reports/analysis", reports.Analysis)
	return r
}

func reportUpstream() *stubUpstream {
	return &stubUpstream{
		transactions: sampleTransactions(),
		groups: map[string][]client.GroupTotal{
			"category": {{Key: "Food", Amount: 140}, {Key: "Shopping", Amount: 300}},
			"mode":     {{Key: "UPI", Amount: 400}, {Key: "Cash", Amount: 40}},
		},
		buckets: []client.TimeBucket{
			{Label: "2024", Amount: 440, Count: 3},
			{Label: "2023", Amount: 120, Count: 1},
		},
		trends:   &client.CategoryTrends{Categories: []string{"Food", "Shopping"}},
		forecast: []float64{120, 130},
	}
}

func TestDashboardHandler_Get(t *testing.T) {
	env := newTestEnv(t, reportUpstream(), false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/api/v1/dashboard", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TotalExpense float64 `json:"total_expense"`
			ByCategory   []struct {
				Name       string `json:"name"`
				Percentage int    `json:"percentage"`
			} `json:"by_category"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 440.0, body.Data.TotalExpense)
	require.Len(t, body.Data.ByCategory, 2)
	assert.Equal(t, "Food", body.Data.ByCategory[0].Name)
	assert.Equal(t, 68, body.Data.ByCategory[1].Percentage)
}

func TestDashboardHandler_Page(t *testing.T) {
	env := newTestEnv(t, reportUpstream(), false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/dashboard", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "₹440.00")
	assert.Contains(t, w.Body.String(), "Asha")
}

func TestDashboardHandler_Page_UpstreamError(t *testing.T) {
	up := reportUpstream()
	up.listErr = &client.APIError{Endpoint: "transactions.list", StatusCode: http.StatusBadGateway, Message: "bad gateway"}
	env := newTestEnv(t, up, false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/dashboard", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Logout")
}

func TestReportHandler_Yearly(t *testing.T) {
	env := newTestEnv(t, reportUpstream(), false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/api/v1/reports/yearly", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Year string `json:"year"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "2023", body.Data[0].Year)
	assert.Equal(t, "2024", body.Data[1].Year)
}

func TestReportHandler_Forecast_ClampsSteps(t *testing.T) {
	env := newTestEnv(t, reportUpstream(), false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/api/v1/reports/forecast?steps=99", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/reports/forecast?steps=-3", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []int{30, 1}, env.upstream.steps)
}

func TestReportHandler_Forecast_Unavailable(t *testing.T) {
	up := reportUpstream()
	up.forecastErr = errors.New("model not trained")
	env := newTestEnv(t, up, false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/api/v1/reports/forecast", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadGateway, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestReportHandler_Analysis(t *testing.T) {
	env := newTestEnv(t, reportUpstream(), false)
	r := newReportRouter(env)

	w := doRequest(r, http.MethodGet, "/api/v1/reports/analysis?range=12months&category=Food", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Months     int    `json:"months"`
			Category   string `json:"category"`
			Historical []struct {
				Key string `json:"key"`
			} `json:"historical"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 12, body.Data.Months)
	assert.Equal(t, "Food", body.Data.Category)
	assert.Len(t, body.Data.Historical, 12)

	// 未指定范围时使用默认 6 个月
	w = doRequest(r, http.MethodGet, "/api/v1/reports/analysis?category=all", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 6, body.Data.Months)
	assert.Empty(t, body.Data.Category)
}

func TestReportHandler_Page(t *testing.T) {
	up := reportUpstream()
	up.forecastErr = errors.New("model not trained")
	env := newTestEnv(t, up, false)
	r := newReportRouter(env)

	// 预测失败时其余图表照常展示
	w := doRequest(r, http.MethodGet, "/reports?range=12months&steps=99", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	html := w.Body.String()
	assert.Contains(t, html, "Forecast is unavailable right now")
	assert.Contains(t, html, `href="/export/report.csv?range=12months"`)
	assert.Contains(t, html, "Email delivery is not configured")
	assert.Equal(t, []int{30}, env.upstream.steps)
}
