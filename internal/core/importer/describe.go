package importer

import (
	"context"
	"fmt"
	"strings"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/core/ai/queue"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/pkg/common"

	"go.uber.org/zap"
)

const describeSystemPrompt = "You are a sommelier writing short catalogue entries. Reply with the description text only, without headings or markup."

// Enqueuer 將生成請求排入工作隊列
type Enqueuer interface {
	EnqueueWait(ctx context.Context, req *provider.Request) (<-chan queue.Result, error)
}

type pendingDescription struct {
	wine   *wine.Wine
	lang   common.Language
	result <-chan queue.Result
}

// Describe 為缺少描述的酒款生成指定語言的描述；單筆失敗只記警告
func (im *Importer) Describe(ctx context.Context, q Enqueuer, langs []common.Language) (*Report, error) {
	report := &Report{}

	wines, err := im.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	var pending []pendingDescription
	for _, w := range wines {
		for _, lang := range langs {
			if strings.TrimSpace(w.Description(lang)) != "" {
				continue
			}
			report.Total++
			ch, err := q.EnqueueWait(ctx, &provider.Request{Messages: describeMessages(w, lang)})
			if err != nil {
				report.Skipped++
				report.warn(0, w.Name, "not queued (%s): %v", lang, err)
				if ctx.Err() != nil {
					return report, ctx.Err()
				}
				continue
			}
			pending = append(pending, pendingDescription{wine: w, lang: lang, result: ch})
		}
	}

	touched := make(map[string]*wine.Wine)
	var order []string
	for _, p := range pending {
		var res queue.Result
		select {
		case res = <-p.result:
		case <-ctx.Done():
			return report, ctx.Err()
		}
		if res.Error != nil {
			report.Skipped++
			report.warn(0, p.wine.Name, "generation failed (%s): %v", p.lang, res.Error)
			continue
		}
		text := strings.TrimSpace(res.Response.Content)
		if text == "" {
			report.Skipped++
			report.warn(0, p.wine.Name, "empty description (%s)", p.lang)
			continue
		}
		p.wine.SetDescription(p.lang, text)
		if _, ok := touched[p.wine.ID]; !ok {
			order = append(order, p.wine.ID)
		}
		touched[p.wine.ID] = p.wine
		report.Imported++
	}

	// 每款酒只寫回一次，避免不同語言互相覆蓋
	for _, id := range order {
		if err := im.catalog.Update(ctx, touched[id]); err != nil {
			report.warn(0, touched[id].Name, "not stored: %v", err)
		}
	}

	common.LogInfo("Descriptions generated",
		zap.Int("requested", report.Total),
		zap.Int("generated", report.Imported),
		zap.Int("failed", report.Skipped),
		zap.Int("wines_updated", len(order)),
	)
	return report, nil
}

func describeMessages(w *wine.Wine, lang common.Language) []provider.Message {
	var facts []string
	add := func(label, v string) {
		if v != "" && v != wine.Unknown {
			facts = append(facts, fmt.Sprintf("%s: %s", label, v))
		}
	}
	add("Name", w.Name)
	add("Winery", w.Winery)
	add("Country", w.Country)
	add("Region", w.Region)
	add("Appellation", w.Appellation)
	add("Grape", w.GrapeVariety)
	add("Colour", string(w.WineColor))

	user := fmt.Sprintf("Write a description of two or three sentences in %s for this wine.\n%s",
		lang.Name(), strings.Join(facts, "\n"))
	return []provider.Message{
		{Role: provider.RoleSystem, Content: describeSystemPrompt},
		{Role: provider.RoleUser, Content: user},
	}
}

// ParseLanguages 解析以逗號分隔的語言清單，空字串代表全部
func ParseLanguages(s string) ([]common.Language, error) {
	if strings.TrimSpace(s) == "" {
		return common.SupportedLanguages, nil
	}
	var out []common.Language
	seen := make(map[common.Language]struct{})
	for _, part := range strings.Split(s, ",") {
		lang, ok := common.ParseLanguage(part)
		if !ok || strings.TrimSpace(part) == "" {
			return nil, common.NewValidationError("lang", fmt.Sprintf("unsupported language %q", strings.TrimSpace(part)))
		}
		if _, dup := seen[lang]; dup {
			continue
		}
		seen[lang] = struct{}{}
		out = append(out, lang)
	}
	return out, nil
}
