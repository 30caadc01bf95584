package wine

import "sort"

// Rule 正規化步驟
type Rule string

const (
	RuleCorrection          Rule = "correction"
	RuleCorrectionDeleted   Rule = "correction_deleted"
	RuleRegionForced        Rule = "region_forced"
	RuleRegionAsAppellation Rule = "region_as_appellation"
	RuleUnknownSentinel     Rule = "unknown_sentinel"
)

// Change 單筆紀錄的一次修改
type Change struct {
	Rule  Rule   `json:"rule"`
	Field string `json:"field"`
	From  string `json:"from"`
	To    string `json:"to"`
}

// Report 批次正規化結果
type Report struct {
	Country string       `json:"country"`
	Seen    int          `json:"seen"`
	Changed int          `json:"changed"`
	ByRule  map[Rule]int `json:"by_rule"`
}

// Normalizer 法定產區正規化器；表格在建立後不再變動
type Normalizer struct {
	tables        map[string]countryTables
	regionsFolded map[string]struct{}
}

// NewNormalizer 以內建表格建立正規化器
func NewNormalizer() *Normalizer {
	n := &Normalizer{
		tables:        normalizationTables,
		regionsFolded: make(map[string]struct{}),
	}
	for _, t := range normalizationTables {
		for _, r := range t.regions {
			n.regionsFolded[fold(r)] = struct{}{}
		}
	}
	return n
}

// Countries 有正規化表格的國家
func (n *Normalizer) Countries() []string {
	out := make([]string, 0, len(n.tables))
	for c := range n.tables {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsRegion 是否為已知產區名稱（不分大小寫、重音）
func (n *Normalizer) IsRegion(s string) bool {
	_, ok := n.regionsFolded[fold(s)]
	return ok
}

// Regions 指定國家的產區
func (n *Normalizer) Regions(country string) []string {
	t, ok := n.tables[country]
	if !ok {
		return nil
	}
	return append([]string(nil), t.regions...)
}

// RegionFor 由正規法定產區取得所屬產區
func (n *Normalizer) RegionFor(country, appellation string) (string, bool) {
	t, ok := n.tables[country]
	if !ok {
		return "", false
	}
	r, ok := t.appellationRegions[appellation]
	return r, ok
}

// Normalize 依序套用：拼寫修正、法定產區 -> 產區、產區名稱不得作為法定產區、
// Unknown 佔位清除。重複執行結果不變；表格中沒有的值保持原樣。
func (n *Normalizer) Normalize(country string, w *Wine) []Change {
	var changes []Change
	t, hasTables := n.tables[country]

	if hasTables {
		if target, ok := t.corrections[w.Appellation]; ok {
			rule := RuleCorrection
			if target == "" {
				rule = RuleCorrectionDeleted
			}
			changes = append(changes, Change{Rule: rule, Field: "appellation", From: w.Appellation, To: target})
			w.Appellation = target
		}

		if region, ok := t.appellationRegions[w.Appellation]; ok && w.Region != region {
			changes = append(changes, Change{Rule: RuleRegionForced, Field: "region", From: w.Region, To: region})
			w.Region = region
		}
	}

	if c, ok := n.ClearRegionAppellation(w); ok {
		changes = append(changes, c)
	}

	if w.Appellation == Unknown {
		changes = append(changes, Change{Rule: RuleUnknownSentinel, Field: "appellation", From: Unknown})
		w.Appellation = ""
	}

	return changes
}

// ClearRegionAppellation 法定產區欄位是已知產區名稱時清空
func (n *Normalizer) ClearRegionAppellation(w *Wine) (Change, bool) {
	if w.Appellation == "" || !n.IsRegion(w.Appellation) {
		return Change{}, false
	}
	c := Change{Rule: RuleRegionAsAppellation, Field: "appellation", From: w.Appellation}
	w.Appellation = ""
	return c, true
}

// NormalizeAll 對同一國家的所有紀錄執行正規化，回傳被修改的紀錄索引與統計
func (n *Normalizer) NormalizeAll(country string, wines []*Wine) ([]int, Report) {
	report := Report{Country: country, ByRule: make(map[Rule]int)}
	var changed []int
	for i, w := range wines {
		if w.Country != country {
			continue
		}
		report.Seen++
		changes := n.Normalize(country, w)
		if len(changes) == 0 {
			continue
		}
		report.Changed++
		changed = append(changed, i)
		for _, c := range changes {
			report.ByRule[c.Rule]++
		}
	}
	return changed, report
}
