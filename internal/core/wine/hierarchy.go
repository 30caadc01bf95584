package wine

import "strings"

// HierarchySeparator 試算表中產地欄位的分隔符
const HierarchySeparator = " / "

// Hierarchy 解析後的產地層級，無法判定的欄位為 nil
type Hierarchy struct {
	Country        *string `json:"country"`
	Region         *string `json:"region"`
	Appellation    *string `json:"appellation"`
	Classification *string `json:"classification"`
}

var (
	countryIndex        = buildCountryIndex()
	classificationIndex = buildClassificationIndex()
)

func buildCountryIndex() map[string]string {
	idx := make(map[string]string, len(countryAliases))
	for alias, canonical := range countryAliases {
		idx[fold(alias)] = canonical
	}
	return idx
}

func buildClassificationIndex() map[string]string {
	idx := make(map[string]string, len(classificationTerms))
	for _, term := range classificationTerms {
		idx[fold(term)] = term
	}
	return idx
}

// LookupCountry 依國名或別名取得正規國名
func LookupCountry(s string) (string, bool) {
	c, ok := countryIndex[fold(s)]
	return c, ok
}

// IsClassificationTerm 是否為分級用語（Grand Cru、DOCG、Reserva…）
func IsClassificationTerm(s string) bool {
	_, ok := classificationIndex[fold(s)]
	return ok
}

// ParseHierarchy 解析 "產區 / 法定產區 / 國家" 形式的欄位。
// 國名與分級用語先被挑出，其餘片段依序作為產區與法定產區；
// 只剩一個片段時同時作為產區與法定產區。空字串回傳全為 nil 的結果。
func ParseHierarchy(text string) Hierarchy {
	var h Hierarchy
	if strings.TrimSpace(text) == "" {
		return h
	}

	var (
		remaining       []string
		classifications []string
	)
	for _, raw := range strings.Split(text, HierarchySeparator) {
		segment := strings.TrimSpace(raw)
		if segment == "" {
			continue
		}
		if country, ok := LookupCountry(segment); ok {
			if h.Country == nil {
				h.Country = ptr(country)
			}
			continue
		}
		if term, ok := classificationIndex[fold(segment)]; ok {
			classifications = append(classifications, term)
			continue
		}
		remaining = append(remaining, segment)
	}

	if len(classifications) > 0 {
		h.Classification = ptr(strings.Join(classifications, ", "))
	}

	switch len(remaining) {
	case 0:
	case 1:
		h.Region = ptr(remaining[0])
		h.Appellation = ptr(remaining[0])
	default:
		h.Region = ptr(remaining[0])
		h.Appellation = ptr(remaining[1])
	}

	return h
}

// Apply 將解析結果寫入酒款，nil 欄位不覆寫
func (h Hierarchy) Apply(w *Wine) {
	if h.Country != nil {
		w.Country = *h.Country
	}
	if h.Region != nil {
		w.Region = *h.Region
	}
	if h.Appellation != nil {
		w.Appellation = *h.Appellation
	}
	if h.Classification != nil {
		w.Classification = *h.Classification
	}
}

func ptr(s string) *string {
	return &s
}
