// Package importer 離線匯入與批次清理：酒款與菜色試算表匯出檔、產區正規化、多語描述生成。
// 單筆資料有問題時記錄警告並繼續，最後回傳摘要。
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"wine-pairing/internal/core/catalog"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/pkg/common"

	"go.uber.org/zap"
)

// 酒款匯出檔欄位：Name;Weingut;Region / Appellation / Land;Rebsorte;Farbe;Preis;Kontext
const (
	colName = iota
	colWinery
	colHierarchy
	colGrape
	colColor
	colPrice
	colContext
	wineColumns
)

// Warning 單筆資料的警告
type Warning struct {
	Line    int    `json:"line"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
}

// Report 匯入摘要
type Report struct {
	Total    int       `json:"total"`
	Imported int       `json:"imported"`
	Skipped  int       `json:"skipped"`
	Warnings []Warning `json:"warnings,omitempty"`
}

func (r *Report) warn(line int, name, format string, args ...any) {
	w := Warning{Line: line, Name: name, Message: fmt.Sprintf(format, args...)}
	r.Warnings = append(r.Warnings, w)
	common.LogWarn("Import warning",
		zap.Int("line", w.Line),
		zap.String("name", w.Name),
		zap.String("message", w.Message),
	)
}

// Importer 將匯出檔寫入目錄
type Importer struct {
	catalog *catalog.Service
}

// New 創建匯入器
func New(c *catalog.Service) *Importer {
	return &Importer{catalog: c}
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	return cr
}

// records 逐行讀取，跳過標題列與空白列；解析錯誤記為警告
func records(r io.Reader, report *Report, header string) iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		cr := newReader(r)
		first := true
		for {
			rec, err := cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var pe *csv.ParseError
				if errors.As(err, &pe) {
					report.Total++
					report.Skipped++
					report.warn(pe.Line, "", "unreadable row: %v", pe.Err)
					continue
				}
				report.warn(0, "", "read failed: %v", err)
				return
			}
			line, _ := cr.FieldPos(0)
			if first {
				first = false
				if len(rec) > 0 && strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")), header) {
					continue
				}
			}
			if blank(rec) {
				continue
			}
			if !yield(line, rec) {
				return
			}
		}
	}
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func field(rec []string, i int) string {
	if i < len(rec) {
		return strings.TrimSpace(rec[i])
	}
	return ""
}

// ImportWines 匯入酒款匯出檔；同名同酒莊的酒款視為重複並略過
func (im *Importer) ImportWines(ctx context.Context, r io.Reader) (*Report, error) {
	report := &Report{}

	existing, err := im.catalog.All(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, w := range existing {
		seen[wineKey(w.Name, w.Winery)] = struct{}{}
	}

	for line, rec := range records(r, report, "name") {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Total++

		name := field(rec, colName)
		if name == "" {
			report.Skipped++
			report.warn(line, "", "missing name")
			continue
		}
		if len(rec) > wineColumns {
			report.warn(line, name, "%d extra columns ignored", len(rec)-wineColumns)
		}

		w := &wine.Wine{
			Name:         name,
			Winery:       field(rec, colWinery),
			GrapeVariety: field(rec, colGrape),
		}
		if w.Winery == "" {
			if fields := strings.Fields(name); len(fields) > 0 {
				w.Winery = fields[0]
			}
		}

		key := wineKey(w.Name, w.Winery)
		if _, dup := seen[key]; dup {
			report.Skipped++
			report.warn(line, name, "duplicate of an existing wine")
			continue
		}

		wine.ParseHierarchy(field(rec, colHierarchy)).Apply(w)

		if raw := field(rec, colColor); raw != "" {
			if c, ok := wine.ParseColor(raw); ok {
				w.WineColor = c
			} else {
				report.warn(line, name, "unknown colour %q, classifying from text", raw)
			}
		}
		if raw := field(rec, colPrice); raw != "" {
			if p, ok := wine.ParsePriceCategory(raw); ok {
				w.PriceCategory = &p
			} else {
				report.warn(line, name, "unknown price %q, classifying from text", raw)
			}
		}

		if _, err := im.catalog.Create(ctx, w, field(rec, colContext)); err != nil {
			report.Skipped++
			report.warn(line, name, "not stored: %v", err)
			continue
		}
		seen[key] = struct{}{}
		report.Imported++
	}

	common.LogInfo("Wine import finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
		zap.Int("warnings", len(report.Warnings)),
	)
	return report, nil
}

func wineKey(name, winery string) string {
	return wine.Fold(name) + "|" + wine.Fold(winery)
}

// ImportDishes 匯入菜色匯出檔（Name;Kategorie）
func (im *Importer) ImportDishes(ctx context.Context, r io.Reader) (*Report, error) {
	report := &Report{}

	for line, rec := range records(r, report, "name") {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Total++

		name := field(rec, 0)
		if name == "" {
			report.Skipped++
			report.warn(line, "", "missing name")
			continue
		}

		_, err := im.catalog.CreateDish(ctx, &catalog.Dish{Name: name, Category: field(rec, 1)})
		if err != nil {
			report.Skipped++
			if common.KindOf(err) == common.KindConflict {
				report.warn(line, name, "duplicate dish")
			} else {
				report.warn(line, name, "not stored: %v", err)
			}
			continue
		}
		report.Imported++
	}

	common.LogInfo("Dish import finished",
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// Normalize 對某國家的酒款執行產區正規化
func (im *Importer) Normalize(ctx context.Context, country string) (wine.Report, error) {
	canonical, ok := wine.LookupCountry(country)
	if !ok {
		return wine.Report{}, common.NewValidationError("country", fmt.Sprintf("unknown country %q", country))
	}
	return im.catalog.Normalize(ctx, canonical)
}
