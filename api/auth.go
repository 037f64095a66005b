package api

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/client"
	"fintrack/middleware"
	"fintrack/models"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录、注册、退出页面
type AuthHandler struct {
	*Deps
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(d *Deps) *AuthHandler {
	return &AuthHandler{Deps: d}
}

// SignInPage 登录页
func (h *AuthHandler) SignInPage(c *gin.Context) {
	data := page(c, "Sign in", "signin")
	data["Form"] = models.SignInForm{}
	c.HTML(http.StatusOK, "signin.html", data)
}

// SignIn 提交登录表单
func (h *AuthHandler) SignIn(c *gin.Context) {
	var form models.SignInForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSignIn(c, http.StatusBadRequest, form, nil, "Invalid form submission")
		return
	}

	sess, err := h.Auth.SignIn(c.Request.Context(), form)
	if err != nil {
		var verrs models.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			h.renderSignIn(c, http.StatusBadRequest, form, verrs, "")
		case client.IsUnauthorized(err):
			h.renderSignIn(c, http.StatusUnauthorized, form, nil, "Invalid email or password")
		default:
			slog.WarnContext(c.Request.Context(), "登录失败", "email", form.Email, "error", err)
			h.renderSignIn(c, http.StatusBadGateway, form, nil, upstreamMessage(err, "Login failed, please try again"))
		}
		return
	}

	if err := h.Cookie.Set(c, sess.ID, sess.ExpiresAt); err != nil {
		slog.ErrorContext(c.Request.Context(), "写入会话 Cookie 失败", "error", err)
		h.renderSignIn(c, http.StatusInternalServerError, form, nil, "Login failed, please try again")
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *AuthHandler) renderSignIn(c *gin.Context, status int, form models.SignInForm, verrs models.ValidationErrors, msg string) {
	form.Password = ""
	data := page(c, "Sign in", "signin")
	data["Form"] = form
	data["Errors"] = verrs
	data["Error"] = msg
	c.HTML(status, "signin.html", data)
}

// SignUpPage 注册页
func (h *AuthHandler) SignUpPage(c *gin.Context) {
	data := page(c, "Create account", "signup")
	data["Form"] = models.SignUpForm{}
	c.HTML(http.StatusOK, "signup.html", data)
}

// SignUp 提交注册表单，成功后跳转登录页
func (h *AuthHandler) SignUp(c *gin.Context) {
	var form models.SignUpForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSignUp(c, http.StatusBadRequest, form, nil, "Invalid form submission")
		return
	}

	if err := h.Auth.SignUp(c.Request.Context(), form); err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			h.renderSignUp(c, http.StatusBadRequest, form, verrs, "")
			return
		}
		status := client.StatusCode(err)
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		h.renderSignUp(c, status, form, nil, upstreamMessage(err, "Registration failed, please try again"))
		return
	}

	setFlash(c, "Account created, please sign in")
	c.Redirect(http.StatusSeeOther, "/signin")
}

func (h *AuthHandler) renderSignUp(c *gin.Context, status int, form models.SignUpForm, verrs models.ValidationErrors, msg string) {
	form.Password = ""
	form.ConfirmPassword = ""
	data := page(c, "Create account", "signup")
	data["Form"] = form
	data["Errors"] = verrs
	data["Error"] = msg
	c.HTML(status, "signup.html", data)
}

// Logout 退出登录
func (h *AuthHandler) Logout(c *gin.Context) {
	if sess := middleware.CurrentSession(c); sess != nil {
		if err := h.Auth.SignOut(c.Request.Context(), sess.ID); err != nil {
			slog.WarnContext(c.Request.Context(), "退出登录时删除会话失败", "session", sess.ID, "error", err)
		}
	}
	h.Cookie.Clear(c)
	c.Redirect(http.StatusSeeOther, "/signin")
}
