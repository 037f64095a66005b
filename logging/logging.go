// Package logging 使用 tint 配置彩色结构化日志（log/slog）。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup 按配置的级别（debug/info/warn/error）设置默认 logger，输出到 stderr
func Setup(level string) {
	SetupWriter(os.Stderr, ParseLevel(level), false)
}

// SetupWriter 设置默认 logger，noColor 用于非终端输出
func SetupWriter(w io.Writer, level slog.Level, noColor bool) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			AddSource:  level == slog.LevelDebug,
			NoColor:    noColor,
		}),
	))
}

// ParseLevel 解析日志级别，未知值按 info 处理
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
