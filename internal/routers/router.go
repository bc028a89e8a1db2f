// Package routers 组装 HTTP 路由
package routers

import (
	"time"

	"github.com/haierkeys/csv-notes-service/internal/app"
	"github.com/haierkeys/csv-notes-service/internal/middleware"
	"github.com/haierkeys/csv-notes-service/internal/routers/api_router"
	"github.com/haierkeys/csv-notes-service/pkg/limiter"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// NewRouter 创建公共 API 路由
func NewRouter(appContainer *app.App, uni *ut.UniversalTranslator) *gin.Engine {

	// 获取配置
	cfg := appContainer.Config()

	r := gin.New()

	api := r.Group("/api/v1")
	{
		api.Use(middleware.AppInfoWithConfig(app.Name, appContainer.Version().Version))
		api.Use(middleware.TraceMiddleware())
		if cfg.Limiter.Enabled {
			methodLimiters := limiter.NewMethodLimiter().AddBuckets(
				limiter.BucketRule{
					Key:          "/api/v1",
					FillInterval: time.Second,
					Capacity:     cfg.Limiter.Capacity,
					Quantum:      cfg.Limiter.Quantum,
				},
			)
			api.Use(middleware.RateLimiter(methodLimiters))
		}
		api.Use(middleware.ContextTimeout(cfg.GetContextTimeout()))
		api.Use(middleware.Cors())
		api.Use(middleware.LangWithTranslator(uni))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))
		if cfg.Metrics.Enabled {
			api.Use(middleware.NewMetrics(appContainer.MetricsRegistry).Handler())
		}

		// 创建 Handlers（注入 App Container）
		csvHandler := api_router.NewCsvHandler(appContainer)
		noteHandler := api_router.NewNoteHandler(appContainer)
		healthHandler := api_router.NewHealthHandler(appContainer)

		api.GET("/health", healthHandler.Check)

		api.POST("/csv/import", csvHandler.Import)
		api.GET("/csv/imports", csvHandler.List)
		api.GET("/csv/imports/:import_id/rows", csvHandler.Rows)
		api.GET("/csv/imports/:import_id/raw", csvHandler.Raw)

		api.POST("/notes", noteHandler.Create)
		api.GET("/notes", noteHandler.List)
		api.GET("/notes/by-row/:identity", noteHandler.ListByRow)
		api.PATCH("/notes/:note_id", noteHandler.Update)
	}

	r.Use(middleware.Cors())
	r.NoRoute(middleware.NoFound())

	return r
}
