package pairing

import (
	"context"
	"errors"
	"sort"
	"strings"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/cellar"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"
	"wine-pairing/internal/pkg/validation"

	"go.uber.org/zap"
)

const (
	pairingPrefix = "pairing:"
	ownerIndex    = "owner"

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	// 名稱太短時不做子字串比對，避免誤判
	minMatchNameLen = 4
)

// Generator 文字生成
type Generator interface {
	Generate(ctx context.Context, req *provider.Request) (*provider.Response, error)
}

// CellarLister 讀取呼叫者的酒窖
type CellarLister interface {
	List(ctx context.Context, p auth.Principal) ([]*cellar.Entry, error)
}

// Service 配酒推薦與歷史紀錄
type Service struct {
	pairings  *store.Entity[Pairing]
	generator Generator
	cellar    CellarLister
	validate  *validation.Validator
}

// NewService 創建配酒服務
func NewService(s *store.Store, generator Generator, cellarSvc CellarLister) *Service {
	pairings := store.NewEntity[Pairing](s, pairingPrefix).
		WithIndex(ownerIndex, func(p *Pairing) []string {
			return []string{p.UserID + ":" + p.ID}
		})
	return &Service{
		pairings:  pairings,
		generator: generator,
		cellar:    cellarSvc,
		validate:  validation.New(),
	}
}

// Pair 產生推薦並保存；生成失敗回傳 GenerationError
func (s *Service) Pair(ctx context.Context, p auth.Principal, req Request) (*Result, error) {
	if p.UserID == "" {
		return nil, &common.UnauthorizedError{Reason: "missing principal"}
	}

	req.Dish = strings.TrimSpace(req.Dish)
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	lang, _ := common.ParseLanguage(req.Language)

	var entries []*cellar.Entry
	if req.UseCellar {
		var err error
		if entries, err = s.cellar.List(ctx, p); err != nil {
			return nil, err
		}
	}

	resp, err := s.generator.Generate(ctx, &provider.Request{
		Messages: buildMessages(req.Dish, req.TasteProfile, lang, entries, req.UseCellar),
		JSONMode: true,
	})
	if err != nil {
		var (
			ge *common.GenerationError
			ce *common.CustomError
		)
		// 隊列滿等服務端狀態保留原本的錯誤碼
		if !errors.As(err, &ge) && !errors.As(err, &ce) {
			err = &common.GenerationError{Err: err}
		}
		common.LogError("Pairing generation failed", zap.String("user_id", p.UserID), zap.Error(err))
		return nil, err
	}

	parsed := SplitResponse(resp.Content)
	if parsed.Recommendation == "" {
		return nil, &common.GenerationError{Err: provider.ErrEmptyResponse}
	}

	matches := matchCellar(entries, parsed)

	pairing := &Pairing{
		ID:             common.GenerateOrderedID(),
		UserID:         p.UserID,
		Dish:           req.Dish,
		Recommendation: parsed.Recommendation,
		WhyExplanation: parsed.WhyExplanation,
		Language:       lang,
		CreatedAt:      common.Now(),
	}
	for _, e := range matches {
		pairing.CellarMatchIDs = append(pairing.CellarMatchIDs, e.ID)
	}

	if err := s.pairings.Create(ctx, pairing.ID, pairing); err != nil {
		return nil, err
	}

	common.LogInfo("Pairing created",
		zap.String("user_id", p.UserID),
		zap.String("pairing_id", pairing.ID),
		zap.Bool("use_cellar", req.UseCellar),
		zap.Int("cellar_matches", len(matches)),
		zap.Bool("cache_hit", resp.CacheHit),
	)

	return &Result{Pairing: pairing, CellarMatches: matches, Cached: resp.CacheHit}, nil
}

// matchCellar 依 id 或名稱（不分大小寫的子字串）找出被推薦的條目，保持酒窖順序
func matchCellar(entries []*cellar.Entry, parsed Parsed) []*cellar.Entry {
	if len(entries) == 0 {
		return nil
	}

	ids := make(map[string]struct{}, len(parsed.CellarMatchIDs))
	for _, id := range parsed.CellarMatchIDs {
		ids[strings.TrimSpace(id)] = struct{}{}
	}
	text := wine.Fold(parsed.Recommendation)

	var matches []*cellar.Entry
	for _, e := range entries {
		if _, ok := ids[e.ID]; ok {
			matches = append(matches, e)
			continue
		}
		name := wine.Fold(e.Name)
		if len([]rune(name)) >= minMatchNameLen && strings.Contains(text, name) {
			matches = append(matches, e)
		}
	}
	return matches
}

// History 列出呼叫者的推薦紀錄，新到舊
func (s *Service) History(ctx context.Context, p auth.Principal, limit int) ([]*Pairing, error) {
	if p.UserID == "" {
		return nil, &common.UnauthorizedError{Reason: "missing principal"}
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	items, err := store.Collect(s.pairings.ListByIndex(ctx, ownerIndex, p.UserID+":"))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []*Pairing{}
	}
	return items, nil
}
