package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/client"
	"fintrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("会话不存在或已过期")

// UserSession 当前登录用户，Token 为解密后的上游 token
type UserSession struct {
	models.Session
	Token string
}

// SessionService 登录会话管理
type SessionService struct {
	db     *gorm.DB
	cipher *TokenCipher
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionService 创建会话服务
func NewSessionService(db *gorm.DB, cipher *TokenCipher, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{db: db, cipher: cipher, ttl: ttl, now: time.Now}
}

// TTL 会话有效期
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

// Create 登录成功后创建会话，过期时间不晚于上游 token 的过期时间
func (s *SessionService) Create(ctx context.Context, login *client.LoginResult) (*UserSession, error) {
	if login == nil || login.Token == "" {
		return nil, client.ErrEmptyToken
	}

	encrypted, err := s.cipher.Seal(login.Token)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	if info, err := client.InspectToken(login.Token); err == nil && !info.ExpiresAt.IsZero() && info.ExpiresAt.Before(expiresAt) {
		expiresAt = info.ExpiresAt
	}

	sess := models.Session{
		ID:             uuid.NewString(),
		UserID:         login.UserID,
		Email:          login.Email,
		Name:           login.Name,
		EncryptedToken: encrypted,
		ExpiresAt:      expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, fmt.Errorf("保存会话失败: %w", err)
	}
	return &UserSession{Session: sess, Token: login.Token}, nil
}

// Get 读取未过期的会话并解密 token
func (s *SessionService) Get(ctx context.Context, id string) (*UserSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}

	var sess models.Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("查询会话失败: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := s.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "删除过期会话失败", "session", id, "error", err)
		}
		return nil, ErrSessionNotFound
	}

	token, err := s.cipher.Open(sess.EncryptedToken)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &UserSession{Session: sess, Token: token}, nil
}

// Delete 退出登录时删除会话
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("删除会话失败: %w", err)
	}
	return nil
}

// PurgeExpired 清理所有过期会话
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("清理过期会话失败: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StartPurger 定期清理过期会话，ctx 取消后退出
func (s *SessionService) StartPurger(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := s.PurgeExpired(ctx); err != nil {
					slog.Warn("清理过期会话失败", "error", err)
				} else if n > 0 {
					slog.Info("已清理过期会话", "count", n)
				}
			}
		}
	}()
}
