package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	winePrefix = "wine:"
	dishPrefix = "dish:"
)

// Service 酒款與菜色目錄
type Service struct {
	wines      *store.Entity[wine.Wine]
	dishes     *store.Entity[Dish]
	normalizer *wine.Normalizer
}

// NewService 創建目錄服務
func NewService(s *store.Store) *Service {
	dishes := store.NewEntity[Dish](s, dishPrefix).
		WithIndexTransform("name", func(d *Dish) []string {
			return []string{wine.Fold(d.Name)}
		}, wine.Fold)

	return &Service{
		wines:      store.NewEntity[wine.Wine](s, winePrefix),
		dishes:     dishes,
		normalizer: wine.NewNormalizer(),
	}
}

// Create 新增酒款：補齊預設值、清除誤填為法定產區的產區名稱、產生 ID 與建立時間
func (s *Service) Create(ctx context.Context, w *wine.Wine, sourceContext string) (*wine.Wine, error) {
	if strings.TrimSpace(w.Name) == "" {
		return nil, common.NewValidationError("name", "required")
	}
	if w.WineColor != "" {
		c, ok := wine.ParseColor(string(w.WineColor))
		if !ok {
			return nil, common.NewValidationError("wine_color", "must be one of red, white, rosé, sweet, sparkling")
		}
		w.WineColor = c
	}
	if w.PriceCategory != nil {
		p, ok := wine.ParsePriceCategory(string(*w.PriceCategory))
		if !ok {
			return nil, common.NewValidationError("price_category", "must be 1, 2 or 3")
		}
		w.PriceCategory = &p
	}

	wine.ApplyDefaults(w, sourceContext)
	s.normalizer.ClearRegionAppellation(w)
	w.ID = common.GenerateUUID()
	w.CreatedAt = common.Now()

	if err := s.wines.Create(ctx, w.ID, w); err != nil {
		return nil, fmt.Errorf("create wine: %w", err)
	}
	return w, nil
}

// Get 取得單一酒款
func (s *Service) Get(ctx context.Context, id string) (*wine.Wine, error) {
	w, err := s.wines.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &common.NotFoundError{Resource: "wine", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Update 覆寫酒款內容，ID 與建立時間不可變
func (s *Service) Update(ctx context.Context, w *wine.Wine) error {
	current, err := s.Get(ctx, w.ID)
	if err != nil {
		return err
	}
	w.CreatedAt = current.CreatedAt
	if err := s.wines.Update(ctx, w.ID, w); err != nil {
		return fmt.Errorf("update wine: %w", err)
	}
	return nil
}

// All 依鍵順序走訪全部酒款
func (s *Service) All(ctx context.Context) ([]*wine.Wine, error) {
	return store.Collect(s.wines.List(ctx))
}

// Query 依條件查詢並分頁
func (s *Service) Query(ctx context.Context, f Filter) (*Result, error) {
	page := f.Page.Normalize()

	var price wine.PriceCategory
	if f.PriceCategory != "" {
		p, ok := wine.ParsePriceCategory(f.PriceCategory)
		if !ok {
			return nil, common.NewValidationError("price_category", "must be 1, 2 or 3")
		}
		price = p
	}
	var color wine.Color
	if f.WineColor != "" {
		c, ok := wine.ParseColor(f.WineColor)
		if !ok {
			return nil, common.NewValidationError("wine_color", "unknown colour")
		}
		color = c
	}
	search := wine.Fold(f.Search)

	result := &Result{Items: []*wine.Wine{}, Skip: page.Skip, Limit: page.Limit}
	for w, err := range s.wines.List(ctx) {
		if err != nil {
			return nil, err
		}
		if f.Country != "" && !strings.EqualFold(w.Country, f.Country) {
			continue
		}
		if f.Region != "" && !strings.EqualFold(w.Region, f.Region) {
			continue
		}
		if color != "" && w.WineColor != color {
			continue
		}
		if price != "" && (w.PriceCategory == nil || *w.PriceCategory != price) {
			continue
		}
		if search != "" && !matchesSearch(w, search) {
			continue
		}

		if result.Total >= page.Skip && len(result.Items) < page.Limit {
			result.Items = append(result.Items, w)
		}
		result.Total++
	}
	return result, nil
}

func matchesSearch(w *wine.Wine, folded string) bool {
	for _, field := range []string{w.Name, w.Winery, w.Region, w.GrapeVariety} {
		if strings.Contains(wine.Fold(field), folded) {
			return true
		}
	}
	return false
}

// Filters 取得可篩選值；產區不與國家重疊，法定產區排除分級用語、產區名稱與佔位值
func (s *Service) Filters(ctx context.Context) (*Filters, error) {
	countries := make(map[string]struct{})
	regions := make(map[string]struct{})
	appellations := make(map[string]struct{})
	colors := make(map[string]struct{})
	prices := make(map[string]struct{})

	for w, err := range s.wines.List(ctx) {
		if err != nil {
			return nil, err
		}
		if usable(w.Country) {
			countries[w.Country] = struct{}{}
		}
		if usable(w.Region) {
			regions[w.Region] = struct{}{}
		}
		if usable(w.Appellation) && !wine.IsClassificationTerm(w.Appellation) && !s.normalizer.IsRegion(w.Appellation) {
			appellations[w.Appellation] = struct{}{}
		}
		if w.WineColor != "" {
			colors[string(w.WineColor)] = struct{}{}
		}
		if w.PriceCategory != nil {
			prices[string(*w.PriceCategory)] = struct{}{}
		}
	}

	for r := range regions {
		if _, ok := countries[r]; ok {
			delete(regions, r)
			continue
		}
		if _, ok := wine.LookupCountry(r); ok {
			delete(regions, r)
		}
	}

	return &Filters{
		Countries:       sortedKeys(countries),
		Regions:         sortedKeys(regions),
		Appellations:    sortedKeys(appellations),
		WineColors:      sortedKeys(colors),
		PriceCategories: sortedKeys(prices),
	}, nil
}

func usable(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != wine.Unknown
}

// sortedKeys 依德文排序規則排序（Ö 排在 O 附近）
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	collate.New(language.German, collate.IgnoreCase).SortStrings(out)
	return out
}

// Normalize 對某國家的所有酒款執行法定產區正規化並寫回有變動的紀錄
func (s *Service) Normalize(ctx context.Context, country string) (wine.Report, error) {
	var wines []*wine.Wine
	for w, err := range s.wines.List(ctx) {
		if err != nil {
			return wine.Report{}, err
		}
		if w.Country == country {
			wines = append(wines, w)
		}
	}

	changed, report := s.normalizer.NormalizeAll(country, wines)
	for _, i := range changed {
		if err := s.wines.Update(ctx, wines[i].ID, wines[i]); err != nil {
			return report, fmt.Errorf("persist normalized wine %s: %w", wines[i].ID, err)
		}
	}

	common.LogInfo("Appellations normalized",
		zap.String("country", country),
		zap.Int("seen", report.Seen),
		zap.Int("changed", report.Changed),
		zap.String("tables_version", wine.TablesVersion),
	)
	return report, nil
}

// CreateDish 新增菜色；同名（不分大小寫與重音）時回傳衝突
func (s *Service) CreateDish(ctx context.Context, d *Dish) (*Dish, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, common.NewValidationError("name", "required")
	}
	d.Category = strings.TrimSpace(d.Category)
	d.ID = common.GenerateUUID()
	d.CreatedAt = common.Now()

	err := s.dishes.Create(ctx, d.ID, d)
	if errors.Is(err, store.ErrAlreadyExists) {
		return nil, common.NewError(common.ErrCodeConflict, fmt.Sprintf("dish %q already exists", d.Name), common.ErrConflict.Status, err)
	}
	if err != nil {
		return nil, fmt.Errorf("create dish: %w", err)
	}
	return d, nil
}

// ListDishes 列出菜色，category 為空時回傳全部
func (s *Service) ListDishes(ctx context.Context, category string) ([]*Dish, error) {
	dishes := []*Dish{}
	for d, err := range s.dishes.List(ctx) {
		if err != nil {
			return nil, err
		}
		if category != "" && !strings.EqualFold(d.Category, category) {
			continue
		}
		dishes = append(dishes, d)
	}
	collator := collate.New(language.German, collate.IgnoreCase)
	sort.SliceStable(dishes, func(i, j int) bool {
		return collator.CompareString(dishes[i].Name, dishes[j].Name) < 0
	})
	return dishes, nil
}
