package database

import (
	"fmt"
	"log/slog"
	"time"

	"fintrack/config"
	"fintrack/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DSN 构建 MySQL 连接字符串
func DSN(cfg config.DatabaseConfig) string {
	charset := cfg.Charset
	if charset == "" {
		charset = "utf8mb4"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		charset,
	)
}

// Init 初始化数据库连接并迁移会话、偏好表
func Init(cfg *config.Config) error {
	logLevel := logger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(DSN(cfg.Database)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(DB); err != nil {
		return err
	}

	slog.Info("数据库初始化成功", "host", cfg.Database.Host, "db", cfg.Database.DBName)
	return nil
}

// Migrate 自动迁移数据表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Session{},
		&models.Preference{},
	); err != nil {
		return fmt.Errorf("迁移数据表失败: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
