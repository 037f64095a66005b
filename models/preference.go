package models

import (
	"strings"
	"time"
)

// 偏好设置默认值与取值范围
const (
	DefaultPageSize      = 10
	MinPageSize          = 5
	MaxPageSize          = 100
	PageSizeStep         = 5
	DefaultAnalysisRange = 6
)

// Preference 用户偏好设置（按上游用户标识保存）
type Preference struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserKey       string    `json:"user_key" gorm:"size:100;uniqueIndex;not null"` // 上游用户 ID，缺失时为邮箱
	PageSize      int       `json:"page_size" gorm:"default:10"`
	AnalysisRange int       `json:"analysis_range" gorm:"default:6"` // 月数：6 或 12
	ReportEmail   string    `json:"report_email" gorm:"size:100"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Preference) TableName() string {
	return "preferences"
}

// DefaultPreference 默认偏好
func DefaultPreference(userKey string) Preference {
	return Preference{
		UserKey:       userKey,
		PageSize:      DefaultPageSize,
		AnalysisRange: DefaultAnalysisRange,
	}
}

// Validate 校验偏好设置
func (p Preference) Validate() error {
	errs := ValidationErrors{}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize || p.PageSize%PageSizeStep != 0 {
		errs["page_size"] = "Rows per page must be a multiple of 5 between 5 and 100"
	}
	if p.AnalysisRange != 6 && p.AnalysisRange != 12 {
		errs["analysis_range"] = "Analysis range must be 6 or 12 months"
	}
	if email := strings.TrimSpace(p.ReportEmail); email != "" && !IsValidEmail(email) {
		errs["report_email"] = "Invalid email"
	}
	return errs.orNil()
}
