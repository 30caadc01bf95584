package wine

import "strings"

// ColorRule 酒色規則：文字包含任一關鍵字即命中
type ColorRule struct {
	Color    Color
	keywords []string
}

// PriceRule 價格規則
type PriceRule struct {
	Category PriceCategory
	keywords []string
}

// Matches 檢查已 tokenize 的文字是否命中
func (r ColorRule) Matches(tokenized string) bool {
	return matchesAny(tokenized, r.keywords)
}

// Matches 檢查已 tokenize 的文字是否命中
func (r PriceRule) Matches(tokenized string) bool {
	return matchesAny(tokenized, r.keywords)
}

func matchesAny(tokenized string, keywords []string) bool {
	for _, kw := range keywords {
		if containsPhrase(tokenized, kw) {
			return true
		}
	}
	return false
}

var (
	colorRules = buildColorRules()
	priceRules = buildPriceRules()
)

func buildColorRules() []ColorRule {
	rules := make([]ColorRule, 0, len(colorKeywords))
	for _, set := range colorKeywords {
		rules = append(rules, ColorRule{Color: set.color, keywords: tokenizeAll(set.keywords)})
	}
	return rules
}

func buildPriceRules() []PriceRule {
	rules := make([]PriceRule, 0, len(priceKeywords))
	for _, set := range priceKeywords {
		rules = append(rules, PriceRule{Category: set.category, keywords: tokenizeAll(set.keywords)})
	}
	return rules
}

func tokenizeAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, tokenize(kw))
	}
	return out
}

// ColorRules 酒色規則（依優先順序），回傳副本
func ColorRules() []ColorRule {
	return append([]ColorRule(nil), colorRules...)
}

// PriceRules 價格規則（依優先順序），回傳副本
func PriceRules() []PriceRule {
	return append([]PriceRule(nil), priceRules...)
}

// ClassifyColor 以第一個命中的規則決定酒色，都沒命中時為紅酒
func ClassifyColor(signals ...string) Color {
	text := tokenize(strings.Join(signals, " "))
	for _, r := range colorRules {
		if r.Matches(text) {
			return r.Color
		}
	}
	return ColorRed
}

// ClassifyPrice 以第一個命中的規則決定價格等級，都沒命中時為中價位
func ClassifyPrice(signals ...string) PriceCategory {
	text := tokenize(strings.Join(signals, " "))
	for _, r := range priceRules {
		if r.Matches(text) {
			return r.Category
		}
	}
	return PriceMidRange
}
