package wine

import (
	"strings"
	"time"

	"wine-pairing/internal/pkg/common"
)

// Unknown 無法解析時使用的佔位值
const Unknown = "Unknown"

// Color 酒色
type Color string

const (
	ColorRed       Color = "red"
	ColorWhite     Color = "white"
	ColorRose      Color = "rosé"
	ColorSweet     Color = "sweet"
	ColorSparkling Color = "sparkling"
)

// Colors 目錄中允許的酒色
var Colors = []Color{ColorRed, ColorWhite, ColorRose, ColorSweet, ColorSparkling}

// CellarTypes 酒窖條目允許的類型（不含 sweet）
var CellarTypes = []Color{ColorRed, ColorWhite, ColorRose, ColorSparkling}

var colorAliases = map[string]Color{
	"red":        ColorRed,
	"rot":        ColorRed,
	"rotwein":    ColorRed,
	"rouge":      ColorRed,
	"white":      ColorWhite,
	"weiss":      ColorWhite,
	"weiß":       ColorWhite,
	"weisswein":  ColorWhite,
	"weißwein":   ColorWhite,
	"blanc":      ColorWhite,
	"rose":       ColorRose,
	"rosé":       ColorRose,
	"sweet":      ColorSweet,
	"suss":       ColorSweet,
	"süß":        ColorSweet,
	"dessert":    ColorSweet,
	"sparkling":  ColorSparkling,
	"schaumwein": ColorSparkling,
	"sekt":       ColorSparkling,
}

// ParseColor 解析酒色（接受德、法文與無重音寫法）
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colorAliases[s]; ok {
		return c, true
	}
	if c, ok := colorAliases[fold(s)]; ok {
		return c, true
	}
	return "", false
}

// PriceCategory 價格等級，"1" 中價位、"2" 高價位、"3" 頂級
type PriceCategory string

const (
	PriceMidRange PriceCategory = "1"
	PricePremium  PriceCategory = "2"
	PriceLuxury   PriceCategory = "3"
)

// PriceCategories 正規的價格等級
var PriceCategories = []PriceCategory{PriceMidRange, PricePremium, PriceLuxury}

var legacyPrice = map[string]PriceCategory{
	"1":         PriceMidRange,
	"2":         PricePremium,
	"3":         PriceLuxury,
	"mid-range": PriceMidRange,
	"midrange":  PriceMidRange,
	"mid range": PriceMidRange,
	"budget":    PriceMidRange,
	"premium":   PricePremium,
	"luxury":    PriceLuxury,
	"€":         PriceMidRange,
	"€€":        PricePremium,
	"€€€":       PriceLuxury,
	"$":         PriceMidRange,
	"$$":        PricePremium,
	"$$$":       PriceLuxury,
}

// ParsePriceCategory 解析價格等級，舊格式（luxury/premium/mid-range、€ 符號）一併轉換
func ParsePriceCategory(s string) (PriceCategory, bool) {
	p, ok := legacyPrice[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// Label 價格等級的舊名稱
func (p PriceCategory) Label() string {
	switch p {
	case PriceLuxury:
		return "luxury"
	case PricePremium:
		return "premium"
	default:
		return "mid-range"
	}
}

// Wine 目錄中的酒款
type Wine struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Winery         string         `json:"winery"`
	Country        string         `json:"country"`
	Region         string         `json:"region"`
	Appellation    string         `json:"appellation"`
	Classification string         `json:"classification,omitempty"`
	GrapeVariety   string         `json:"grape_variety"`
	WineColor      Color          `json:"wine_color"`
	PriceCategory  *PriceCategory `json:"price_category"`
	DescriptionDE  string         `json:"description_de,omitempty"`
	DescriptionEN  string         `json:"description_en,omitempty"`
	DescriptionFR  string         `json:"description_fr,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Description 取得指定語言的描述
func (w *Wine) Description(lang common.Language) string {
	switch lang {
	case common.LanguageEN:
		return w.DescriptionEN
	case common.LanguageFR:
		return w.DescriptionFR
	default:
		return w.DescriptionDE
	}
}

// SetDescription 設定指定語言的描述
func (w *Wine) SetDescription(lang common.Language, text string) {
	switch lang {
	case common.LanguageEN:
		w.DescriptionEN = text
	case common.LanguageFR:
		w.DescriptionFR = text
	default:
		w.DescriptionDE = text
	}
}

// ApplyDefaults 補齊缺少的欄位：酒莊取名稱第一個字、產地欄位填 Unknown、
// 酒色與價格等級由分類器推斷
func ApplyDefaults(w *Wine, context string) {
	w.Name = strings.TrimSpace(w.Name)
	if strings.TrimSpace(w.Winery) == "" {
		if fields := strings.Fields(w.Name); len(fields) > 0 {
			w.Winery = fields[0]
		}
	}
	for _, f := range []*string{&w.Country, &w.Region, &w.Appellation, &w.GrapeVariety} {
		*f = strings.TrimSpace(*f)
		if *f == "" {
			*f = Unknown
		}
	}
	signals := []string{w.Name, w.GrapeVariety, w.Region, w.Appellation, w.Classification, context}
	if w.WineColor == "" {
		w.WineColor = ClassifyColor(signals...)
	}
	if w.PriceCategory == nil {
		p := ClassifyPrice(signals...)
		w.PriceCategory = &p
	}
}
