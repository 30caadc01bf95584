package cellar

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"
	"wine-pairing/internal/pkg/validation"

	"go.uber.org/zap"
)

const (
	entryPrefix = "cellar:"
	ownerIndex  = "owner"
)

// LimitFunc 取得方案的條目上限，0 代表不限
type LimitFunc func(plan string) int

// Service 個人酒窖；所有操作都以 (id, user_id) 查找
type Service struct {
	entries  *store.Entity[Entry]
	limit    LimitFunc
	validate *validation.Validator

	// 額度檢查與寫入之間不能被同一使用者的其他新增插隊
	createMu sync.Mutex
}

// NewService 創建酒窖服務
func NewService(s *store.Store, limit LimitFunc) *Service {
	entries := store.NewEntity[Entry](s, entryPrefix).
		WithIndex(ownerIndex, func(e *Entry) []string {
			return []string{ownerKey(e.UserID, e.ID)}
		})
	return &Service{entries: entries, limit: limit, validate: validation.New()}
}

func ownerKey(userID, id string) string {
	return userID + ":" + id
}

func requirePrincipal(p auth.Principal) error {
	if p.UserID == "" {
		return &common.UnauthorizedError{Reason: "missing principal"}
	}
	return nil
}

// Create 新增條目；超過方案上限時回傳 QuotaExceededError
func (s *Service) Create(ctx context.Context, p auth.Principal, in EntryInput) (*Entry, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	entry := &Entry{Quantity: 1}
	if err := s.apply(entry, in); err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	if limit := s.limit(p.Plan); limit > 0 {
		count, err := s.entries.CountByIndex(ctx, ownerIndex, p.UserID+":")
		if err != nil {
			return nil, fmt.Errorf("count cellar entries: %w", err)
		}
		if count >= limit {
			return nil, &common.QuotaExceededError{Plan: p.Plan, Limit: limit}
		}
	}

	now := common.Now()
	entry.ID = common.GenerateOrderedID()
	entry.UserID = p.UserID
	entry.CreatedAt = now
	entry.UpdatedAt = now

	if err := s.entries.Create(ctx, entry.ID, entry); err != nil {
		return nil, fmt.Errorf("create cellar entry: %w", err)
	}

	common.LogDebug("Cellar entry created", zap.String("user_id", p.UserID), zap.String("entry_id", entry.ID))
	return entry, nil
}

// List 列出呼叫者的全部條目，依建立時間排序
func (s *Service) List(ctx context.Context, p auth.Principal) ([]*Entry, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	entries, err := store.Collect(s.entries.ListByIndex(ctx, ownerIndex, p.UserID+":"))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*Entry{}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

// Get 取得呼叫者的單一條目；他人的條目視同不存在
func (s *Service) Get(ctx context.Context, p auth.Principal, id string) (*Entry, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	entry, err := s.entries.GetByIndex(ctx, ownerIndex, ownerKey(p.UserID, id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, &common.NotFoundError{Resource: "cellar entry", ID: id}
	}
	if err != nil {
		return nil, err
	}
	// 索引與主鍵不同步時也不能外洩
	if entry.UserID != p.UserID {
		return nil, &common.NotFoundError{Resource: "cellar entry", ID: id}
	}
	return entry, nil
}

// Update 以輸入覆寫條目；user_id 與建立時間不變，quantity 未給時保留原值
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, in EntryInput) (*Entry, error) {
	entry, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(entry, in); err != nil {
		return nil, err
	}
	entry.UpdatedAt = common.Now()

	if err := s.persist(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete 刪除呼叫者的條目
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	entry, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	err = s.entries.Delete(ctx, entry.ID)
	if errors.Is(err, store.ErrNotFound) {
		return &common.NotFoundError{Resource: "cellar entry", ID: id}
	}
	return err
}

// ToggleFavorite 切換收藏狀態
func (s *Service) ToggleFavorite(ctx context.Context, p auth.Principal, id string) (*Entry, error) {
	entry, err := s.Get(ctx, p, id)
	if err != nil {
		return nil, err
	}
	entry.IsFavorite = !entry.IsFavorite
	entry.UpdatedAt = common.Now()

	if err := s.persist(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) persist(ctx context.Context, entry *Entry) error {
	err := s.entries.Update(ctx, entry.ID, entry)
	if errors.Is(err, store.ErrNotFound) {
		return &common.NotFoundError{Resource: "cellar entry", ID: entry.ID}
	}
	if err != nil {
		return fmt.Errorf("update cellar entry: %w", err)
	}
	return nil
}

// apply 驗證輸入並寫入條目；所有欄位錯誤一次回傳
func (s *Service) apply(entry *Entry, in EntryInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)

	fields := make(map[string]string)
	if err := s.validate.Struct(in); err != nil {
		var ve *common.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for k, v := range ve.Fields {
			fields[k] = v
		}
	}

	var color wine.Color
	if _, bad := fields["type"]; !bad {
		c, ok := parseType(in.Type)
		if !ok {
			fields["type"] = "must be one of: red white rosé sparkling"
		}
		color = c
	}
	if in.Year != 0 {
		if latest := time.Now().Year() + 1; in.Year > latest {
			fields["year"] = fmt.Sprintf("must be less than or equal to %d", latest)
		}
	}
	price := entry.PriceCategory
	if in.PriceCategory != nil {
		price = nil
	}
	if in.PriceCategory != nil && strings.TrimSpace(*in.PriceCategory) != "" {
		pc, ok := wine.ParsePriceCategory(*in.PriceCategory)
		if !ok {
			fields["price_category"] = "must be one of: 1 2 3"
		}
		price = &pc
	}
	if len(fields) > 0 {
		return &common.ValidationError{Fields: fields}
	}

	entry.Name = in.Name
	entry.Type = color
	entry.Region = strings.TrimSpace(in.Region)
	entry.Year = in.Year
	entry.Grape = strings.TrimSpace(in.Grape)
	entry.Notes = strings.TrimSpace(in.Notes)
	entry.PriceCategory = price
	if in.IsFavorite != nil {
		entry.IsFavorite = *in.IsFavorite
	}
	if in.Quantity != nil {
		entry.Quantity = *in.Quantity
	}
	return nil
}

// parseType 只接受酒窖的四種類型，rose 視為 rosé
func parseType(s string) (wine.Color, bool) {
	c, ok := wine.ParseColor(s)
	if !ok {
		return "", false
	}
	for _, t := range wine.CellarTypes {
		if t == c {
			return c, true
		}
	}
	return "", false
}
