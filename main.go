package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fintrack/api"
	"fintrack/cache"
	"fintrack/client"
	"fintrack/config"
	"fintrack/database"
	"fintrack/logging"
	"fintrack/middleware"
	"fintrack/models"
	"fintrack/router"
	"fintrack/service"

	"github.com/joho/godotenv"
)

// @title 记账系统 API
// @version 1.0
// @description 个人记账前端服务：会话登录、交易列表与新增、仪表盘、报表预测与导出，数据来自远端记账 API
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in header
// @name fintrack_session

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 8080 或 :8080")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		fmt.Printf("fintrack v%s\n", version)
		return
	}

	if err := run(); err != nil {
		slog.Error("服务异常退出", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 本地开发时从 .env 读取环境变量
	if err := godotenv.Load(); err == nil {
		slog.Debug("已加载 .env")
	}

	// 加载配置（内置配置 + 可选的外部配置覆盖）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("加载配置失败: %w", err)
	}
	logging.Setup(cfg.Log.Level)

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		slog.Info("命令行指定端口", "port", port)
	}

	// 打印配置信息
	config.PrintConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据库
	if err := database.Init(cfg); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	defer database.Close()

	ledgerCache, closeCache, err := newLedgerCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	upstream := client.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	sessions := service.NewSessionService(database.GetDB(), service.NewTokenCipher(cfg.Session.EncryptionKey), cfg.Session.ExpireTime)
	sessions.StartPurger(ctx, time.Hour)

	ledger := service.NewLedgerService(upstream, ledgerCache)
	deps := &api.Deps{
		Auth:        service.NewAuthService(upstream, sessions, ledger),
		Ledger:      ledger,
		Dashboard:   service.NewDashboardService(upstream, ledger),
		Reports:     service.NewReportService(upstream, ledger),
		Preferences: service.NewPreferenceService(database.GetDB()),
		Email:       service.NewEmailService(&cfg.Email),
		Cookie:      middleware.NewSessionCookie(cfg.Session.CookieName, cfg.Server.CookieSecret, strings.HasPrefix(cfg.Server.BaseURL, "https://")),
	}

	limiter := middleware.NewLimiterStore(cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst)
	limiter.StartJanitor(ctx, 5*time.Minute)

	// 设置路由
	r := router.SetupRouter(cfg, deps, sessions, limiter)

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("记账系统已启动",
			"addr", cfg.Server.Port,
			"pages", cfg.Server.BaseURL+"/dashboard",
			"swagger", cfg.Server.BaseURL+"/swagger/index.html",
			"api", cfg.Server.BaseURL+"/api/v1/",
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("服务器启动失败: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("关闭服务失败: %w", err)
	}
	slog.Info("服务已关闭")
	return nil
}

// newLedgerCache 按配置创建交易列表缓存，返回的关闭函数在退出时调用
func newLedgerCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache[[]models.Transaction], func() error, error) {
	if cfg.Driver == "redis" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("连接 Redis 失败: %w", err)
		}
		slog.Info("交易缓存使用 Redis", "addr", cfg.RedisAddr, "ttl", cfg.TTL)
		rc := cache.NewRedis[[]models.Transaction](rdb, "fintrack:ledger", cfg.TTL)
		return rc, rc.Close, nil
	}

	lru := cache.NewLRU[[]models.Transaction](cfg.MaxEntries, cfg.TTL)
	cache.StartJanitor(ctx, lru, time.Minute)
	slog.Info("交易缓存使用内存 LRU", "max_entries", cfg.MaxEntries, "ttl", cfg.TTL)
	return lru, func() error { return nil }, nil
}
