package api

import (
	"log/slog"
	"net/http"
	"net/url"

	"fintrack/client"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/service"

	"github.com/gin-gonic/gin"
)

// flashCookie 跳转后展示一次的提示信息
const flashCookie = "fintrack_flash"

// Deps 处理器共用的服务
type Deps struct {
	Auth        *service.AuthService
	Ledger      *service.LedgerService
	Dashboard   *service.DashboardService
	Reports     *service.ReportService
	Preferences *service.PreferenceService
	Email       *service.EmailService
	Cookie      *middleware.SessionCookie
}

// page 页面模板公共数据
func page(c *gin.Context, title, active string) gin.H {
	return gin.H{
		"Title":   title,
		"Active":  active,
		"Session": middleware.CurrentSession(c),
		"Flash":   popFlash(c),
		"Errors":  models.ValidationErrors{},
	}
}

// setFlash 写入提示信息，下一次页面请求展示
func setFlash(c *gin.Context, msg string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, msg, 60, "/", "", false, true)
}

// popFlash 读取并清除提示信息
func popFlash(c *gin.Context) string {
	msg, err := c.Cookie(flashCookie)
	if err != nil || msg == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return msg
}

// preference 当前用户的偏好设置，读取失败时使用默认值
func (d *Deps) preference(c *gin.Context, sess *service.UserSession) models.Preference {
	if d.Preferences == nil {
		return models.DefaultPreference(sess.UserKey())
	}
	pref, err := d.Preferences.Get(c.Request.Context(), sess.UserKey())
	if err != nil {
		slog.WarnContext(c.Request.Context(), "读取偏好设置失败，使用默认值", "user", sess.UserKey(), "error", err)
	}
	return pref
}

// endSession 远端 token 失效时结束本地会话
func (d *Deps) endSession(c *gin.Context, sess *service.UserSession) {
	if sess != nil && d.Auth != nil {
		if err := d.Auth.SignOut(c.Request.Context(), sess.ID); err != nil {
			slog.WarnContext(c.Request.Context(), "删除会话失败", "session", sess.ID, "error", err)
		}
	}
	if d.Cookie != nil {
		d.Cookie.Clear(c)
	}
}

// upstreamFailed 处理远端调用失败：401 时结束会话，其余返回 502 JSON
func (d *Deps) upstreamFailed(c *gin.Context, err error, fallback string) {
	if client.IsUnauthorized(err) {
		d.endSession(c, middleware.CurrentSession(c))
		Unauthorized(c, "Your session has expired, please sign in again")
		return
	}
	BadGateway(c, upstreamMessage(err, fallback))
}

// pageFailed 页面请求的远端失败：401 时跳转登录页，其余渲染错误页
func (d *Deps) pageFailed(c *gin.Context, err error, title, active string) {
	if client.IsUnauthorized(err) {
		d.endSession(c, middleware.CurrentSession(c))
		setFlash(c, "Your session has expired, please sign in again")
		c.Redirect(http.StatusFound, "/signin")
		return
	}
	slog.ErrorContext(c.Request.Context(), "页面数据加载失败", "path", c.Request.URL.Path, "error", err)
	data := page(c, title, active)
	data["Error"] = upstreamMessage(err, "Could not load data, please try again")
	c.HTML(http.StatusBadGateway, "error.html", data)
}

// filterValues 筛选条件转为查询参数，忽略空值
func filterValues(f service.LedgerFilter) url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Mode != "" {
		q.Set("mode", f.Mode)
	}
	return q
}
