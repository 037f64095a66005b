package router

import (
	"html/template"
	"net/http"

	"fintrack/api"
	"fintrack/config"
	_ "fintrack/docs"
	"fintrack/metrics"
	"fintrack/middleware"
	"fintrack/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps *api.Deps, sessions middleware.SessionStore, limiter *middleware.LimiterStore) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	// 嵌入的页面模板与静态资源
	r.SetHTMLTemplate(template.Must(web.Templates()))
	r.StaticFS("/static", http.FS(web.Static()))

	// 运维接口
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cookie := deps.Cookie
	loadSession := middleware.LoadSession(cookie, sessions)
	requireSession := middleware.SessionAuth(cookie, sessions)

	app := r.Group("", loadSession)

	// 登录、注册（已登录时跳转仪表盘）
	authHandler := api.NewAuthHandler(deps)
	guest := app.Group("", middleware.GuestOnly())
	{
		guest.GET("/signin", authHandler.SignInPage)
		guest.POST("/signin", middleware.LoginRateLimit(limiter), authHandler.SignIn)
		guest.GET("/signup", authHandler.SignUpPage)
		guest.POST("/signup", middleware.LoginRateLimit(limiter), authHandler.SignUp)
	}
	app.POST("/logout", authHandler.Logout)

	dashboardHandler := api.NewDashboardHandler(deps)
	transactionHandler := api.NewTransactionHandler(deps)
	reportHandler := api.NewReportHandler(deps)
	settingsHandler := api.NewSettingsHandler(deps)
	exportHandler := api.NewExportHandler(deps)

	// 需要登录的页面
	pages := app.Group("", requireSession)
	{
		pages.GET("/dashboard", dashboardHandler.Page)
		pages.GET("/transactions", transactionHandler.Page)
		pages.POST("/transactions", transactionHandler.Create)
		pages.GET("/reports", reportHandler.Page)
		pages.POST("/reports/email", exportHandler.EmailReport)
		pages.GET("/settings", settingsHandler.Page)
		pages.POST("/settings", settingsHandler.Save)

		export := pages.Group("/export")
		{
			export.GET("/transactions.csv", exportHandler.TransactionsCSV)
			export.GET("/transactions.xlsx", exportHandler.TransactionsXLSX)
			export.GET("/report.csv", exportHandler.ReportCSV)
			export.GET("/report.xlsx", exportHandler.ReportXLSX)
			export.GET("/category-trends.csv", exportHandler.CategoryTrendsCSV)
		}
	}

	// JSON 接口
	v1 := app.Group("/api/v1", CORSMiddleware(cfg.Server.BaseURL), requireSession)
	{
		v1.GET("/dashboard", dashboardHandler.Get)
		v1.GET("/transactions", transactionHandler.List)
		v1.POST("/transactions", transactionHandler.CreateJSON)
		v1.GET("/taxonomy", api.Taxonomy)

		reports := v1.Group("/reports")
		{
			reports.GET("/yearly", reportHandler.Yearly)
			reports.GET("/category-trends", reportHandler.CategoryTrends)
			reports.GET("/forecast", reportHandler.Forecast)
			reports.GET("/analysis", reportHandler.Analysis)
		}

		v1.GET("/settings", settingsHandler.Get)
		v1.PUT("/settings", settingsHandler.Update)

		// 预检请求在 CORSMiddleware 中直接返回
		v1.OPTIONS("/*path", func(c *gin.Context) {})
	}

	// 首页与未知路径：已登录去仪表盘，否则去登录页
	r.GET("/", loadSession, Home)
	r.NoRoute(loadSession, Home)

	return r
}

// Home 根据登录状态跳转，未知的 /api 路径返回 404
func Home(c *gin.Context) {
	if middleware.IsAPIRequest(c) {
		api.NotFound(c, "Not found")
		return
	}
	if middleware.CurrentSession(c) != nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.Redirect(http.StatusFound, "/signin")
}

// CORSMiddleware 仅允许配置的站点地址跨域访问 JSON 接口
func CORSMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && origin == allowedOrigin {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
