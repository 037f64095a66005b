package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo 从上游 JWT 中读取的信息
type TokenInfo struct {
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time // 零值表示 token 未声明过期时间
}

// InspectToken 解析上游 token 的 claims（不校验签名，签名由上游负责）
// 上游 token 不是 JWT 时返回错误，调用方按不透明 token 处理
func InspectToken(token string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("解析上游 token 失败: %w", err)
	}

	info := &TokenInfo{
		UserID: firstString(claims, "userId", "user_id", "id", "_id", "sub"),
		Email:  firstString(claims, "email"),
		Name:   firstString(claims, "name", "username"),
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

func firstString(claims jwt.MapClaims, keys ...string) string {
	for _, k := range keys {
		switch v := claims[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
