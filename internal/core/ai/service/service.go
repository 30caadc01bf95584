package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wine-pairing/internal/core/ai/anthropic"
	"wine-pairing/internal/core/ai/cache"
	"wine-pairing/internal/core/ai/openai"
	"wine-pairing/internal/core/ai/openrouter"
	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/infrastructure/config"
	"wine-pairing/internal/pkg/common"

	"go.uber.org/zap"
)

// NewProvider 依設定建立文字生成提供者
func NewProvider(cfg config.AIConfig) (provider.Provider, error) {
	pc := provider.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		RetryWait:   cfg.RetryWait,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}

	switch cfg.Provider {
	case "", "openrouter":
		return openrouter.NewClient(pc), nil
	case "openai":
		return openai.NewClient(pc), nil
	case "anthropic":
		return anthropic.NewClient(pc), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}

// Service AI 服務：快取、呼叫提供者、統一錯誤
type Service struct {
	provider provider.Provider
	cache    cache.Cache
}

// NewService 創建 AI 服務；c 為 nil 時不快取
func NewService(p provider.Provider, c cache.Cache) *Service {
	return &Service{provider: p, cache: c}
}

// Provider 取得底層提供者
func (s *Service) Provider() provider.Provider {
	return s.provider
}

// Generate 生成回應；提供者失敗一律包成 GenerationError
func (s *Service) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	key := s.cacheKey(req)

	if s.cache != nil {
		if val, err := s.cache.Get(ctx, key); err == nil && val != "" {
			return &provider.Response{Content: val, Model: s.provider.GetModel(), CacheHit: true}, nil
		} else if err != nil && !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("Cache lookup failed", zap.Error(err))
		}
	}

	start := time.Now()
	resp, err := s.provider.Generate(ctx, req)
	common.LogAICall(s.provider.Name(), time.Since(start), err)
	if err != nil {
		return nil, &common.GenerationError{Err: err}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp.Content); err != nil {
			common.LogWarn("Cache store failed", zap.Error(err))
		}
	}

	return resp, nil
}

// Close 關閉提供者與快取
func (s *Service) Close() error {
	var errs []error
	if err := s.provider.Close(); err != nil {
		errs = append(errs, err)
	}
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// cacheKey 統一空白後組鍵，確保相同提示命中同一筆
func (s *Service) cacheKey(req *provider.Request) string {
	parts := []string{s.provider.Name(), s.provider.GetModel(), fmt.Sprint(req.JSONMode)}
	for _, m := range req.Messages {
		parts = append(parts, m.Role+":"+strings.Join(strings.Fields(m.Content), " "))
	}
	return cache.Key(parts...)
}
