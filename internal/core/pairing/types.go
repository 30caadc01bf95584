package pairing

import (
	"time"

	"wine-pairing/internal/core/cellar"
	"wine-pairing/internal/pkg/common"
)

// TasteProfile 菜餚風味，各軸 0 到 10，未提供者不放進提示
type TasteProfile struct {
	Richness  *float64 `json:"richness,omitempty" validate:"omitempty,gte=0,lte=10"`
	Freshness *float64 `json:"freshness,omitempty" validate:"omitempty,gte=0,lte=10"`
	Sweetness *float64 `json:"sweetness,omitempty" validate:"omitempty,gte=0,lte=10"`
	Spice     *float64 `json:"spice,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// Request 配酒請求
type Request struct {
	Dish         string        `json:"dish" validate:"required,max=500"`
	TasteProfile *TasteProfile `json:"taste_profile,omitempty"`
	UseCellar    bool          `json:"use_cellar"`
	Language     string        `json:"language,omitempty" validate:"omitempty,oneof=de en fr"`
}

// Pairing 已保存的推薦，建立後不再修改
type Pairing struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Dish           string          `json:"dish"`
	Recommendation string          `json:"recommendation"`
	WhyExplanation *string         `json:"why_explanation"`
	Language       common.Language `json:"language"`
	CellarMatchIDs []string        `json:"cellar_match_ids,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Result 配酒結果
type Result struct {
	*Pairing
	CellarMatches []*cellar.Entry `json:"cellar_matches,omitempty"`
	Cached        bool            `json:"cached"`
}
