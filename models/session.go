package models

import "time"

// Session 登录会话，上游 token 加密后保存
type Session struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	UserID         string    `json:"user_id" gorm:"size:64;index"`
	Email          string    `json:"email" gorm:"size:100;not null"`
	Name           string    `json:"name" gorm:"size:100"`
	EncryptedToken []byte    `json:"-" gorm:"type:blob;not null"`
	ExpiresAt      time.Time `json:"expires_at" gorm:"index;not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Session) TableName() string {
	return "sessions"
}

// Expired 会话是否已过期
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// DisplayName 页面显示的用户名，未知时使用邮箱
func (s Session) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Email
}

// Initial 头像显示的首字母
func (s Session) Initial() string {
	name := s.DisplayName()
	if name == "" {
		return "U"
	}
	return string([]rune(name)[:1])
}

// UserKey 偏好设置等本地数据使用的用户标识，上游未提供 ID 时退回邮箱
func (s Session) UserKey() string {
	if s.UserID != "" {
		return s.UserID
	}
	return s.Email
}
