package catalog

import (
	"time"

	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/pkg/common"
)

// Filter 酒款查詢條件
type Filter struct {
	Country       string `form:"country"`
	Region        string `form:"region"`
	WineColor     string `form:"wine_color"`
	PriceCategory string `form:"price_category"`
	Search        string `form:"search"`
	common.Page
}

// Result 分頁查詢結果
type Result struct {
	Items []*wine.Wine `json:"items"`
	Total int          `json:"total"`
	Skip  int          `json:"skip"`
	Limit int          `json:"limit"`
}

// Filters 下拉選單用的可篩選值，全部去重並排序
type Filters struct {
	Countries       []string `json:"countries"`
	Regions         []string `json:"regions"`
	Appellations    []string `json:"appellations"`
	WineColors      []string `json:"wine_colors"`
	PriceCategories []string `json:"price_categories"`
}

// Dish 菜色
type Dish struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	DescriptionDE string    `json:"description_de,omitempty"`
	DescriptionEN string    `json:"description_en,omitempty"`
	DescriptionFR string    `json:"description_fr,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
