package api

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// SettingsHandler 偏好设置
type SettingsHandler struct {
	*Deps
}

// NewSettingsHandler 创建偏好设置处理器
func NewSettingsHandler(d *Deps) *SettingsHandler {
	return &SettingsHandler{Deps: d}
}

// SettingsRequest 偏好设置表单
type SettingsRequest struct {
	PageSize      int    `form:"page_size" json:"page_size" example:"20"`
	AnalysisRange int    `form:"analysis_range" json:"analysis_range" example:"12"`
	ReportEmail   string `form:"report_email" json:"report_email" example:"me@example.com"`
}

func (r SettingsRequest) apply(pref models.Preference) models.Preference {
	pref.PageSize = r.PageSize
	pref.AnalysisRange = r.AnalysisRange
	pref.ReportEmail = r.ReportEmail
	return pref
}

// Page 偏好设置页面
func (h *SettingsHandler) Page(c *gin.Context) {
	h.render(c, http.StatusOK, h.preference(c, middleware.CurrentSession(c)), nil, "")
}

func (h *SettingsHandler) render(c *gin.Context, status int, pref models.Preference, verrs models.ValidationErrors, msg string) {
	data := page(c, "Settings", "settings")
	data["Pref"] = pref
	data["Errors"] = verrs
	data["Error"] = msg
	data["PageSizes"] = []int{5, 10, 20, 50, 100}
	data["EmailEnabled"] = h.Email.Enabled()
	c.HTML(status, "settings.html", data)
}

// Save 提交偏好设置
func (h *SettingsHandler) Save(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	pref := h.preference(c, sess)

	var req SettingsRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, pref, nil, "Invalid form submission")
		return
	}
	pref = req.apply(pref)

	saved, err := h.Preferences.Save(c.Request.Context(), pref)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			h.render(c, http.StatusBadRequest, pref, verrs, "")
			return
		}
		h.render(c, http.StatusInternalServerError, pref, nil, SafeErrorMessage(err, "Could not save settings"))
		return
	}

	slog.InfoContext(c.Request.Context(), "偏好设置已保存", "user", saved.UserKey, "page_size", saved.PageSize, "range", saved.AnalysisRange)
	setFlash(c, "Settings saved")
	c.Redirect(http.StatusSeeOther, "/settings")
}

// Get 获取偏好设置
// @Summary 获取偏好设置
// @Description 交易列表每页条数、分析范围与报表收件邮箱，未保存过时返回默认值
// @Tags 设置
// @Produce json
// @Security SessionCookie
// @Success 200 {object} Response{data=models.Preference} "获取成功"
// @Failure 401 {object} Response "未登录"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	Success(c, h.preference(c, middleware.CurrentSession(c)))
}

// Update 保存偏好设置
// @Summary 保存偏好设置
// @Description 每页条数为 5-100 之间 5 的倍数，分析范围为 6 或 12 个月，邮箱可为空
// @Tags 设置
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param request body SettingsRequest true "偏好设置"
// @Success 200 {object} Response{data=models.Preference} "保存成功"
// @Failure 400 {object} Response{data=models.ValidationErrors} "参数错误"
// @Failure 401 {object} Response "未登录"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "Invalid request body"))
		return
	}

	pref := req.apply(h.preference(c, middleware.CurrentSession(c)))
	saved, err := h.Preferences.Save(c.Request.Context(), pref)
	if err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			ValidationFailed(c, verrs)
			return
		}
		InternalError(c, SafeErrorMessage(err, "Could not save settings"))
		return
	}
	SuccessWithMessage(c, "Settings saved", saved)
}
