package pairing

import (
	"regexp"
	"strings"

	"wine-pairing/internal/pkg/common"
)

// markerPattern 比對 [[WHY]] 與 [[/WHY]]，不分大小寫並容許括號內空白
var markerPattern = regexp.MustCompile(`(?i)\[\[\s*(/?)\s*why\s*\]\]`)

// Parsed 模型回覆拆解後的內容
type Parsed struct {
	Recommendation string
	WhyExplanation *string
	CellarMatchIDs []string
}

type jsonReply struct {
	Recommendation *string  `json:"recommendation"`
	WhyExplanation *string  `json:"why_explanation"`
	CellarMatches  []string `json:"cellar_matches"`
}

// SplitResponse 拆出推薦與理由；優先解析 JSON，失敗時改用 [[WHY]] 標記。
// 含 recommendation 鍵的 JSON 即為最終結果，內容為空時推薦也為空。
// 多個理由區塊依序合併，回傳的文字不含任何標記，沒有理由時 WhyExplanation 為 nil。
func SplitResponse(raw string) Parsed {
	if obj, ok := common.ExtractJSONObject(raw); ok {
		var reply jsonReply
		err := common.ParseJSON(obj, &reply)
		if err != nil {
			// 部分模型會輸出未加引號的鍵
			err = common.ParseJSON(common.QuoteJSONKeys(obj), &reply)
		}
		if err == nil && reply.Recommendation != nil {
			p := Parsed{Recommendation: clean(*reply.Recommendation)}
			if p.Recommendation == "" {
				return Parsed{}
			}
			p.CellarMatchIDs = reply.CellarMatches
			if reply.WhyExplanation != nil {
				p.WhyExplanation = nonEmpty(clean(*reply.WhyExplanation))
			}
			return p
		}
	}

	var recParts, whyParts []string
	inside, pos := false, 0
	for _, m := range markerPattern.FindAllStringSubmatchIndex(raw, -1) {
		closing := m[3] > m[2]
		segment := raw[pos:m[0]]
		pos = m[1]
		switch {
		case !inside && !closing:
			recParts = appendTrimmed(recParts, segment)
			inside = true
		case inside && closing:
			whyParts = appendTrimmed(whyParts, segment)
			inside = false
		case inside:
			// 未關閉又出現開頭標記，視為同一區塊
			whyParts = appendTrimmed(whyParts, segment)
		default:
			recParts = appendTrimmed(recParts, segment)
		}
	}
	if inside {
		whyParts = appendTrimmed(whyParts, raw[pos:])
	} else {
		recParts = appendTrimmed(recParts, raw[pos:])
	}

	return Parsed{
		Recommendation: strings.Join(recParts, "\n\n"),
		WhyExplanation: nonEmpty(strings.Join(whyParts, "\n\n")),
	}
}

func appendTrimmed(parts []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		parts = append(parts, s)
	}
	return parts
}

func clean(s string) string {
	return strings.TrimSpace(markerPattern.ReplaceAllString(s, ""))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
