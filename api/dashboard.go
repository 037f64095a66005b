package api

import (
	"net/http"

	"fintrack/middleware"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 仪表盘
type DashboardHandler struct {
	*Deps
}

// NewDashboardHandler 创建仪表盘处理器
func NewDashboardHandler(d *Deps) *DashboardHandler {
	return &DashboardHandler{Deps: d}
}

// Page 仪表盘页面
func (h *DashboardHandler) Page(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	dash, err := h.Dashboard.Load(c.Request.Context(), sess)
	if err != nil {
		h.pageFailed(c, err, "Dashboard", "dashboard")
		return
	}
	data := page(c, "Dashboard", "dashboard")
	data["Dashboard"] = dash
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// Get 仪表盘数据
// @Summary 仪表盘数据
// @Description 分类与支付方式汇总（前 5 项及占比）以及基于交易明细的收支统计
// @Tags 仪表盘
// @Produce json
// @Security SessionCookie
// @Success 200 {object} Response{data=service.Dashboard} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Failure 502 {object} Response "远端 API 错误"
// @Router /api/v1/dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	dash, err := h.Dashboard.Load(c.Request.Context(), middleware.CurrentSession(c))
	if err != nil {
		h.upstreamFailed(c, err, "Could not load dashboard")
		return
	}
	Success(c, dash)
}
