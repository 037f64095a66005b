package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// contextKeySession gin 上下文中保存当前会话的键
const contextKeySession = "session"

// SessionClaims 会话 Cookie 中的 JWT claims，只携带会话 ID
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionStore 按 ID 读取会话
type SessionStore interface {
	Get(ctx context.Context, id string) (*service.UserSession, error)
}

// SessionCookie 签发与解析会话 Cookie
type SessionCookie struct {
	name   string
	secret []byte
	secure bool
}

// NewSessionCookie 创建会话 Cookie，secure 为 true 时仅通过 HTTPS 发送
func NewSessionCookie(name, secret string, secure bool) *SessionCookie {
	return &SessionCookie{name: name, secret: []byte(secret), secure: secure}
}

// Name Cookie 名称
func (s *SessionCookie) Name() string {
	return s.name
}

// Sign 生成签名后的 Cookie 值
func (s *SessionCookie) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fintrack",
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse 校验签名与过期时间，返回会话 ID
func (s *SessionCookie) Parse(value string) (string, error) {
	if value == "" {
		return "", errors.New("empty session cookie")
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.SessionID == "" {
		return "", errors.New("invalid session cookie")
	}
	return claims.SessionID, nil
}

// Set 写入会话 Cookie
func (s *SessionCookie) Set(c *gin.Context, sessionID string, expiresAt time.Time) error {
	value, err := s.Sign(sessionID, expiresAt)
	if err != nil {
		return err
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	// SameSite=Lax: 跨站 POST 不携带 Cookie
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, value, maxAge, "/", "", s.secure, true)
	return nil
}

// Clear 删除会话 Cookie
func (s *SessionCookie) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.name, "", -1, "/", "", s.secure, true)
}

// SessionID 读取并校验请求中的会话 ID
func (s *SessionCookie) SessionID(c *gin.Context) (string, error) {
	value, err := c.Cookie(s.name)
	if err != nil {
		return "", err
	}
	return s.Parse(value)
}

// IsAPIRequest JSON 接口返回 401，页面请求跳转登录页
func IsAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// loadSession 读取 Cookie 对应的会话，失败时返回 nil
func loadSession(c *gin.Context, cookie *SessionCookie, store SessionStore) *service.UserSession {
	id, err := cookie.SessionID(c)
	if err != nil {
		return nil
	}
	sess, err := store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrSessionNotFound) {
			slog.WarnContext(c.Request.Context(), "读取会话失败", "error", err)
		}
		return nil
	}
	return sess
}

// LoadSession 有会话时写入上下文，没有也继续处理
func LoadSession(cookie *SessionCookie, store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := loadSession(c, cookie, store); sess != nil {
			SetSession(c, sess)
		}
		c.Next()
	}
}

// SessionAuth 要求登录：页面请求跳转 /signin，/api 请求返回 401
func SessionAuth(cookie *SessionCookie, store SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			sess = loadSession(c, cookie, store)
		}
		if sess == nil {
			if _, err := c.Cookie(cookie.Name()); err == nil {
				cookie.Clear(c)
			}
			if IsAPIRequest(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code":    http.StatusUnauthorized,
					"message": "Please sign in",
					"data":    nil,
				})
				return
			}
			c.Redirect(http.StatusFound, "/signin")
			c.Abort()
			return
		}
		SetSession(c, sess)
		c.Next()
	}
}

// GuestOnly 已登录用户访问登录/注册页时跳转到仪表盘，需在 LoadSession 之后使用
func GuestOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) != nil {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSession 将会话写入上下文
func SetSession(c *gin.Context, sess *service.UserSession) {
	c.Set(contextKeySession, sess)
}

// CurrentSession 获取当前会话，未登录返回 nil
func CurrentSession(c *gin.Context) *service.UserSession {
	v, ok := c.Get(contextKeySession)
	if !ok {
		return nil
	}
	sess, _ := v.(*service.UserSession)
	return sess
}
