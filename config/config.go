package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Upstream  UpstreamConfig  `mapstructure:"upstream"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Email     EmailConfig     `mapstructure:"email"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	BaseURL      string `mapstructure:"base_url"`
	CookieSecret string `mapstructure:"cookie_secret"`
}

// UpstreamConfig 远端记账 API 配置
type UpstreamConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Timeout        time.Duration `mapstructure:"-"`
}

// DatabaseConfig 数据库配置（会话与偏好设置）
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Charset  string `mapstructure:"charset"`
}

// SessionConfig 登录会话配置
type SessionConfig struct {
	CookieName    string        `mapstructure:"cookie_name"`
	ExpireHours   int           `mapstructure:"expire_hours"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	ExpireTime    time.Duration `mapstructure:"-"`
}

// CacheConfig 交易列表缓存配置
type CacheConfig struct {
	Driver        string        `mapstructure:"driver"` // memory | redis
	TTLSeconds    int           `mapstructure:"ttl_seconds"`
	MaxEntries    int           `mapstructure:"max_entries"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"-"`
}

// RateLimitConfig 登录/注册限流配置
type RateLimitConfig struct {
	LoginRPS   float64 `mapstructure:"login_rps"`
	LoginBurst int     `mapstructure:"login_burst"`
}

// EmailConfig 邮件配置
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `mapstructure:"level"`
}

var (
	// GlobalConfig 全局配置实例
	GlobalConfig *Config
)

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}
	slog.Debug("已加载内置默认配置")

	// 2. 外部配置文件（可选）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			slog.Warn("无法读取指定配置文件", "path", configPath, "error", err)
		} else {
			slog.Info("已合并外部配置文件", "path", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/fintrack")
		externalViper.AddConfigPath("$HOME/.fintrack")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				slog.Warn("合并外部配置失败", "error", err)
			} else {
				slog.Info("已合并外部配置文件", "path", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，如 FINTRACK_UPSTREAM_BASE_URL
	v.SetEnvPrefix("FINTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	GlobalConfig = &cfg
	return &cfg, nil
}

// applyDefaults 填充派生字段
func (c *Config) applyDefaults() {
	if c.Session.ExpireHours <= 0 {
		c.Session.ExpireHours = 24
	}
	c.Session.ExpireTime = time.Duration(c.Session.ExpireHours) * time.Hour
	if c.Session.CookieName == "" {
		c.Session.CookieName = "fintrack_session"
	}

	if c.Upstream.TimeoutSeconds <= 0 {
		c.Upstream.TimeoutSeconds = 15
	}
	c.Upstream.Timeout = time.Duration(c.Upstream.TimeoutSeconds) * time.Second

	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = 60
	}
	c.Cache.TTL = time.Duration(c.Cache.TTLSeconds) * time.Second
	if c.Cache.MaxEntries <= 0 {
		c.Cache.MaxEntries = 500
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "memory"
	}

	if c.RateLimit.LoginRPS <= 0 {
		c.RateLimit.LoginRPS = 0.2
	}
	if c.RateLimit.LoginBurst <= 0 {
		c.RateLimit.LoginBurst = 5
	}
}

// Validate 校验必填配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.BaseURL) == "" {
		return errors.New("upstream.base_url 不能为空")
	}
	if c.Cache.Driver != "memory" && c.Cache.Driver != "redis" {
		return fmt.Errorf("cache.driver 只能为 memory 或 redis，当前为 %q", c.Cache.Driver)
	}
	if c.Cache.Driver == "redis" && c.Cache.RedisAddr == "" {
		return errors.New("cache.driver=redis 时 cache.redis_addr 必填")
	}
	if c.Server.Mode == "release" {
		if c.Server.CookieSecret == "" || c.Server.CookieSecret == defaultCookieSecret {
			return errors.New("release 模式下必须设置 server.cookie_secret")
		}
		if c.Session.EncryptionKey == "" || c.Session.EncryptionKey == defaultEncryptionKey {
			return errors.New("release 模式下必须设置 session.encryption_key")
		}
	}
	return nil
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// GetConfig 获取全局配置
func GetConfig() *Config {
	if GlobalConfig == nil {
		panic("配置未初始化，请先调用 LoadConfig")
	}
	return GlobalConfig
}

// SafeErrorMessage release 模式下不向客户端暴露内部错误详情
func SafeErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	if GlobalConfig != nil && GlobalConfig.Server.Mode == "release" {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func PrintConfig() {
	if GlobalConfig == nil {
		return
	}
	slog.Info("当前配置",
		"port", GlobalConfig.Server.Port,
		"mode", GlobalConfig.Server.Mode,
		"upstream", GlobalConfig.Upstream.BaseURL,
		"database", fmt.Sprintf("%s@%s:%s/%s",
			GlobalConfig.Database.Username,
			GlobalConfig.Database.Host,
			GlobalConfig.Database.Port,
			GlobalConfig.Database.DBName),
		"cache", GlobalConfig.Cache.Driver,
		"email", GlobalConfig.Email.Enabled,
	)
}
