package wine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fold 將字串轉為小寫並移除重音符號，用於不分大小寫、不分重音的查表
func fold(s string) string {
	s = norm.NFD.String(strings.ToLower(strings.TrimSpace(s)))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Fold 不分大小寫、不分重音的比較形式
func Fold(s string) string {
	return fold(s)
}

// tokenize 將文字轉為以空白包夾的單字序列，關鍵字比對只會命中完整單字
func tokenize(s string) string {
	s = fold(s)
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(' ')
	}
	return " " + strings.Join(strings.Fields(b.String()), " ") + " "
}

// containsPhrase 檢查已 tokenize 的文字是否包含片語
func containsPhrase(tokenized, phrase string) bool {
	return strings.Contains(tokenized, phrase)
}
