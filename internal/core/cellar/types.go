package cellar

import (
	"time"

	"wine-pairing/internal/core/wine"
)

// Entry 使用者私人酒窖中的一筆酒
type Entry struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Name          string              `json:"name"`
	Type          wine.Color          `json:"type"`
	Region        string              `json:"region,omitempty"`
	Year          int                 `json:"year,omitempty"`
	Grape         string              `json:"grape,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Quantity      int                 `json:"quantity"`
	PriceCategory *wine.PriceCategory `json:"price_category,omitempty"`
	IsFavorite    bool                `json:"is_favorite"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// EntryInput 新增或更新時的輸入；Type 與 PriceCategory 為原始字串，會被正規化。
// 指標欄位為 nil 時保留原值，PriceCategory 為空字串時清除價格等級
type EntryInput struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Type          string  `json:"type" validate:"required"`
	Region        string  `json:"region" validate:"max=200"`
	Year          int     `json:"year" validate:"omitempty,gte=1800"`
	Grape         string  `json:"grape" validate:"max=200"`
	Notes         string  `json:"notes" validate:"max=2000"`
	Quantity      *int    `json:"quantity" validate:"omitempty,gte=0"`
	PriceCategory *string `json:"price_category"`
	IsFavorite    *bool   `json:"is_favorite"`
}
