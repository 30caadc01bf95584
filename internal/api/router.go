package api

import (
	"time"

	authHandler "wine-pairing/internal/api/handlers/auth"
	cellarHandler "wine-pairing/internal/api/handlers/cellar"
	"wine-pairing/internal/api/handlers/health"
	pairingHandler "wine-pairing/internal/api/handlers/pairing"
	wineHandler "wine-pairing/internal/api/handlers/wine"
	"wine-pairing/internal/api/middleware"
	authService "wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/catalog"
	cellarService "wine-pairing/internal/core/cellar"
	pairingService "wine-pairing/internal/core/pairing"
	"wine-pairing/internal/infrastructure/config"
	"wine-pairing/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Services 路由需要的領域服務
type Services struct {
	Auth    *authService.Service
	Catalog *catalog.Service
	Cellar  *cellarService.Service
	Pairing *pairingService.Service

	// 以下可省略
	Queue  health.StatusReporter
	Checks map[string]health.Pinger
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg.App.Version, svc.Queue)
	for name, p := range svc.Checks {
		healthHandler.AddCheck(name, p)
	}
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	requireAuth := middleware.Auth(svc.Auth)
	dedup := middleware.Deduplication(middleware.NewDeduplicator(cfg.DedupWindow))

	api := router.Group("/api/v1")
	{
		authH := authHandler.NewHandler(svc.Auth)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authH.HandleRegister)
			authGroup.POST("/login", authH.HandleLogin)
			authGroup.GET("/me", requireAuth, authH.HandleMe)
		}

		wineH := wineHandler.NewHandler(svc.Catalog)
		api.GET("/wines", wineH.HandleList)
		api.GET("/wines/filters", wineH.HandleFilters)
		api.GET("/wines/:id", wineH.HandleGet)
		api.GET("/dishes", wineH.HandleDishes)

		cellarH := cellarHandler.NewHandler(svc.Cellar)
		cellarGroup := api.Group("/cellar", requireAuth)
		{
			cellarGroup.POST("", dedup, cellarH.HandleCreate)
			cellarGroup.GET("", cellarH.HandleList)
			cellarGroup.GET("/:id", cellarH.HandleGet)
			cellarGroup.PUT("/:id", cellarH.HandleUpdate)
			cellarGroup.DELETE("/:id", cellarH.HandleDelete)
			cellarGroup.POST("/:id/favorite", cellarH.HandleToggleFavorite)
		}

		pairingH := pairingHandler.NewHandler(svc.Pairing)
		pairingGroup := api.Group("/pairing", requireAuth)
		{
			pairingGroup.POST("", dedup, pairingH.HandlePair)
			pairingGroup.GET("/history", pairingH.HandleHistory)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("request_timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
		zap.Duration("dedup_window", cfg.DedupWindow),
	)

	return router
}
