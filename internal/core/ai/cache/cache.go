package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"wine-pairing/internal/infrastructure/config"
)

// Cache 生成結果快取；未命中時回傳 common.ErrCacheMiss
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Key 以 SHA-256 組出快取鍵，各段以換行分隔避免拼接碰撞
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\n")))
	return "ai:response:" + hex.EncodeToString(hash[:])
}

// New 依設定建立快取；停用時回傳 nil
func New(cfg config.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch cfg.Backend {
	case "", "memory":
		return NewManager(cfg), nil
	case "redis":
		rc, err := NewRedisCache(cfg)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Backend)
	}
}
