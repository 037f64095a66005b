package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// ReportHandler 报表与预测
type ReportHandler struct {
	*Deps
}

// NewReportHandler 创建报表处理器
func NewReportHandler(d *Deps) *ReportHandler {
	return &ReportHandler{Deps: d}
}

// analysisQuery 读取分析范围与分类，范围未指定时使用偏好设置
func analysisQuery(c *gin.Context, pref models.Preference) (int, string) {
	months := service.ParseRange(c.Query("range"), pref.AnalysisRange)
	category := strings.TrimSpace(c.Query("category"))
	if strings.EqualFold(category, "all") {
		category = ""
	}
	return months, category
}

// reportURL 构造带分析范围与分类的链接
func reportURL(path string, months int, category string) string {
	q := url.Values{"range": {fmt.Sprintf("%dmonths", months)}}
	if category != "" {
		q.Set("category", category)
	}
	return path + "?" + q.Encode()
}

// Page 报表页面
func (h *ReportHandler) Page(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	pref := h.preference(c, sess)
	months, category := analysisQuery(c, pref)
	steps := service.ParseSteps(c.Query("steps"))

	report, err := h.Reports.Page(c.Request.Context(), sess, months, category, steps)
	if err != nil {
		h.pageFailed(c, err, "Reports", "reports")
		return
	}

	data := page(c, "Reports", "reports")
	data["Report"] = report
	data["Months"] = months
	data["Category"] = category
	data["Categories"] = models.CategoryNames()
	data["MinSteps"] = service.MinForecastSteps
	data["MaxSteps"] = service.MaxForecastSteps
	data["EmailEnabled"] = h.Email.Enabled()
	data["ReportEmail"] = pref.ReportEmail
	data["ReportCSV"] = reportURL("/export/report.csv", months, category)
	data["ReportXLSX"] = reportURL("/export/report.xlsx", months, category)
	data["EmailAction"] = reportURL("/reports/email", months, category)
	c.HTML(http.StatusOK, "reports.html", data)
}

// Yearly 年度支出
// @Summary 年度支出趋势
// @Description 按年份升序的支出金额与笔数
// @Tags 报表
// @Produce json
// @Security SessionCookie
// @Success 200 {object} Response{data=[]service.YearPoint} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/reports/yearly [get]
func (h *ReportHandler) Yearly(c *gin.Context) {
	points, err := h.Reports.Yearly(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		h.upstreamFailed(c, err, "Could not load yearly trends")
		return
	}
	Success(c, points)
}

// CategoryTrends 按月分类支出
// @Summary 分类趋势
// @Description 每月各分类支出，行内以分类名为键
// @Tags 报表
// @Produce json
// @Security SessionCookie
// @Success 200 {object} Response{data=client.CategoryTrends} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/reports/category-trends [get]
func (h *ReportHandler) CategoryTrends(c *gin.Context) {
	trends, err := h.Reports.CategoryTrends(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		h.upstreamFailed(c, err, "Could not load category trends")
		return
	}
	Success(c, trends)
}

// Forecast 支出预测
// @Summary 支出预测
// @Description 远端模型预测未来 steps 天的支出，steps 超出 1-30 时收敛
// @Tags 报表
// @Produce json
// @Security SessionCookie
// @Param steps query int false "预测天数" default(12)
// @Success 200 {object} Response{data=[]service.ForecastPoint} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/reports/forecast [get]
func (h *ReportHandler) Forecast(c *gin.Context) {
	steps := service.ParseSteps(c.Query("steps"))
	points, err := h.Reports.Forecast(c.Request.Context(), middleware.CurrentSession(c), steps)
	if err != nil {
		h.upstreamFailed(c, err, "Forecast is unavailable right now")
		return
	}
	Success(c, points)
}

// Analysis 月度支出分析
// @Summary 月度支出分析
// @Description 最近 6 或 12 个月的支出、移动平均预测、超支提示与分类堆叠数据
// @Tags 报表
// @Produce json
// @Security SessionCookie
// @Param range query string false "6months 或 12months，默认取偏好设置"
// @Param category query string false "分类，all 或空表示全部"
// @Success 200 {object} Response{data=service.Analysis} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/reports/analysis [get]
func (h *ReportHandler) Analysis(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	months, category := analysisQuery(c, h.preference(c, sess))
	analysis, err := h.Reports.Analyze(c.Request.Context(), sess, months, category)
	if err != nil {
		h.upstreamFailed(c, err, "Could not load the analysis")
		return
	}
	Success(c, analysis)
}
