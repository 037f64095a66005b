package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"fintrack/metrics"

	"github.com/gin-gonic/gin"
)

// RequestLogger 使用 slog 记录请求日志
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			slog.ErrorContext(c.Request.Context(), "请求处理失败", attrs...)
		case status >= 400:
			slog.WarnContext(c.Request.Context(), "请求异常", attrs...)
		default:
			slog.InfoContext(c.Request.Context(), "请求完成", attrs...)
		}
	}
}

// Metrics 按路由模板统计请求数
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
