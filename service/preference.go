package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceService 用户偏好设置
type PreferenceService struct {
	db *gorm.DB
}

// NewPreferenceService 创建偏好设置服务
func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Get 读取偏好设置，未保存过时返回默认值
func (s *PreferenceService) Get(ctx context.Context, userKey string) (models.Preference, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).Where("user_key = ?", userKey).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreference(userKey), nil
	}
	if err != nil {
		return models.DefaultPreference(userKey), fmt.Errorf("查询偏好设置失败: %w", err)
	}
	return pref, nil
}

// Save 校验并保存偏好设置（按 user_key 覆盖）
func (s *PreferenceService) Save(ctx context.Context, pref models.Preference) (models.Preference, error) {
	pref.ReportEmail = strings.TrimSpace(pref.ReportEmail)
	if err := pref.Validate(); err != nil {
		return pref, err
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"page_size", "analysis_range", "report_email", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		return pref, fmt.Errorf("保存偏好设置失败: %w", err)
	}
	return pref, nil
}
