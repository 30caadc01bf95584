package pairing

import (
	"fmt"
	"strings"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/core/cellar"
	"wine-pairing/internal/pkg/common"
)

const systemPrompt = `You are an experienced sommelier. You recommend wines that pair well with a dish and explain the pairing briefly and concretely.
Reply with a single JSON object using exactly these keys:
{"recommendation": "<the recommended wine(s) with a short serving note>", "why_explanation": "<why the pairing works>", "cellar_matches": ["<id of each cellar wine you recommend>"]}
If you cannot produce JSON, write the recommendation as plain text and wrap the explanation in [[WHY]] and [[/WHY]].`

// buildMessages 組出提示；酒窖條目以 id 標示，供模型在 cellar_matches 回傳
func buildMessages(dish string, profile *TasteProfile, lang common.Language, entries []*cellar.Entry, useCellar bool) []provider.Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Dish: %s\n", dish)

	if lines := profileLines(profile); len(lines) > 0 {
		b.WriteString("Taste profile (0 = none, 10 = very pronounced):\n")
		for _, l := range lines {
			b.WriteString("- " + l + "\n")
		}
	}

	if useCellar {
		if len(entries) == 0 {
			b.WriteString("\nThe guest's cellar is empty. Recommend wines in general and return an empty cellar_matches list.\n")
		} else {
			b.WriteString("\nRecommend only wines from the guest's cellar:\n")
			for _, e := range entries {
				b.WriteString("- " + describeEntry(e) + "\n")
			}
		}
	} else {
		b.WriteString("\nRecommend wines in general and return an empty cellar_matches list.\n")
	}

	fmt.Fprintf(&b, "\nWrite the recommendation and explanation in %s.", lang.Name())

	return []provider.Message{
		{Role: provider.RoleSystem, Content: systemPrompt},
		{Role: provider.RoleUser, Content: b.String()},
	}
}

func profileLines(p *TasteProfile) []string {
	if p == nil {
		return nil
	}
	var lines []string
	add := func(name string, v *float64) {
		if v != nil {
			lines = append(lines, fmt.Sprintf("%s: %g", name, *v))
		}
	}
	add("richness", p.Richness)
	add("freshness", p.Freshness)
	add("sweetness", p.Sweetness)
	add("spice", p.Spice)
	return lines
}

func describeEntry(e *cellar.Entry) string {
	parts := []string{string(e.Type)}
	if e.Region != "" {
		parts = append(parts, e.Region)
	}
	if e.Year > 0 {
		parts = append(parts, fmt.Sprint(e.Year))
	}
	if e.Grape != "" {
		parts = append(parts, e.Grape)
	}
	return fmt.Sprintf("[id=%s] %s (%s)", e.ID, e.Name, strings.Join(parts, ", "))
}
