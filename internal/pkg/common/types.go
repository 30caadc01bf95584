package common

import "strings"

// Language 支援的內容語言
type Language string

const (
	LanguageDE Language = "de"
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
)

// DefaultLanguage 未指定語言時使用德文
const DefaultLanguage = LanguageDE

// SupportedLanguages 支援的語言清單
var SupportedLanguages = []Language{LanguageDE, LanguageEN, LanguageFR}

// ParseLanguage 解析語言代碼，空字串回傳預設語言
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, true
	}
	for _, l := range SupportedLanguages {
		if string(l) == s {
			return l, true
		}
	}
	return "", false
}

// Name 語言的英文名稱（用於 prompt）
func (l Language) Name() string {
	switch l {
	case LanguageEN:
		return "English"
	case LanguageFR:
		return "French"
	default:
		return "German"
	}
}

// Page 分頁參數
type Page struct {
	Skip  int `form:"skip" json:"skip"`
	Limit int `form:"limit" json:"limit"`
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize 套用預設值與上限
func (p Page) Normalize() Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}
