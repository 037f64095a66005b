package service

import (
	"context"
	"log/slog"
	"strings"

	"fintrack/models"
)

// AuthService 登录、注册、退出
type AuthService struct {
	upstream Upstream
	sessions *SessionService
	ledger   *LedgerService
}

// NewAuthService 创建认证服务
func NewAuthService(upstream Upstream, sessions *SessionService, ledger *LedgerService) *AuthService {
	return &AuthService{upstream: upstream, sessions: sessions, ledger: ledger}
}

// SignIn 校验表单并向远端登录，成功后创建本地会话
func (s *AuthService) SignIn(ctx context.Context, form models.SignInForm) (*UserSession, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return nil, err
	}

	result, err := s.upstream.Login(ctx, form.Email, form.Password)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Create(ctx, result)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "用户登录成功", "email", sess.Email, "session", sess.ID)
	return sess, nil
}

// SignUp 校验表单并向远端注册
func (s *AuthService) SignUp(ctx context.Context, form models.SignUpForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate(); err != nil {
		return err
	}
	if err := s.upstream.Register(ctx, form.Name, form.Email, form.Password); err != nil {
		return err
	}
	slog.InfoContext(ctx, "用户注册成功", "email", form.Email)
	return nil
}

// SignOut 删除会话与缓存
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if s.ledger != nil {
		s.ledger.Invalidate(ctx, sessionID)
	}
	return s.sessions.Delete(ctx, sessionID)
}
