package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wine-pairing/internal/api"
	"wine-pairing/internal/api/handlers/health"
	"wine-pairing/internal/core/ai/cache"
	"wine-pairing/internal/core/ai/queue"
	aiservice "wine-pairing/internal/core/ai/service"
	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/catalog"
	"wine-pairing/internal/core/cellar"
	"wine-pairing/internal/core/pairing"
	"wine-pairing/internal/infrastructure/config"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("ai_provider", cfg.AI.Provider),
		zap.String("ai_api_key", config.MaskAPIKey(cfg.AI.APIKey)),
		zap.String("ai_model", cfg.AI.Model),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	s, err := store.Open(store.Options{Path: cfg.Store.Path, InMemory: cfg.Store.InMemory})
	if err != nil {
		common.LogFatal("Failed to open store", zap.Error(err))
	}
	defer s.Close()

	// 初始化快取
	responseCache, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	p, err := aiservice.NewProvider(cfg.AI)
	if err != nil {
		common.LogFatal("Failed to initialize ai provider", zap.Error(err))
	}
	ai := aiservice.NewService(p, responseCache)
	defer ai.Close()

	// 生成請求經由隊列，限制同時對外呼叫的數量
	q := queue.NewManager(cfg.Queue)
	q.Start(ai.Generate)
	defer q.Close()

	authSvc := auth.NewService(s, auth.Options{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	cellarSvc := cellar.NewService(s, cfg.CellarLimit)

	checks := map[string]health.Pinger{"store": s}
	if pinger, ok := responseCache.(health.Pinger); ok {
		checks["cache"] = pinger
	}

	router := api.SetupRouter(cfg, api.Services{
		Auth:    authSvc,
		Catalog: catalog.NewService(s),
		Cellar:  cellarSvc,
		Pairing: pairing.NewService(s, q, cellarSvc),
		Queue:   q,
		Checks:  checks,
	})

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}
