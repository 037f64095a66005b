// Package metrics 定义 Prometheus 指标，/metrics 路由通过 Handler 暴露。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 独立注册表，避免测试之间重复注册默认注册表
var Registry = prometheus.NewRegistry()

var (
	// UpstreamRequests 调用远端 API 的次数
	UpstreamRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_upstream_requests_total",
		Help: "Number of calls made to the finance API, by endpoint and status.",
	}, []string{"endpoint", "status"})

	// UpstreamDuration 调用远端 API 的耗时
	UpstreamDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "fintrack_upstream_request_duration_seconds",
		Help:    "Latency of calls made to the finance API.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// HTTPRequests 本服务处理的请求数
	HTTPRequests = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_http_requests_total",
		Help: "Number of HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	// CacheLookups 交易列表缓存命中情况
	CacheLookups = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "fintrack_ledger_cache_lookups_total",
		Help: "Ledger cache lookups, by result (hit or miss).",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveUpstream 记录一次远端调用
func ObserveUpstream(endpoint, status string, started time.Time) {
	UpstreamRequests.WithLabelValues(endpoint, status).Inc()
	UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

// Handler 返回 /metrics 处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
