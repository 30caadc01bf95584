package wine

import (
	"testing"

	"wine-pairing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceCategory_MigratesLegacy(t *testing.T) {
	cases := map[string]PriceCategory{
		"1":         PriceMidRange,
		"2":         PricePremium,
		"3":         PriceLuxury,
		"luxury":    PriceLuxury,
		"Premium":   PricePremium,
		"mid-range": PriceMidRange,
		"€€€":       PriceLuxury,
		" €€ ":      PricePremium,
	}
	for in, want := range cases {
		got, ok := ParsePriceCategory(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParsePriceCategory("cheap-ish")
	assert.False(t, ok)
	assert.Equal(t, "luxury", PriceLuxury.Label())
}

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{
		"rose":      ColorRose,
		"Rosé":      ColorRose,
		"Rotwein":   ColorRed,
		"WEISS":     ColorWhite,
		"sparkling": ColorSparkling,
		"süß":       ColorSweet,
	} {
		got, ok := ParseColor(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseColor("orange")
	assert.False(t, ok)
}

func TestApplyDefaults(t *testing.T) {
	w := &Wine{Name: "  Markus Molitor Riesling Spätlese "}
	ApplyDefaults(w, "")

	assert.Equal(t, "Markus Molitor Riesling Spätlese", w.Name)
	assert.Equal(t, "Markus", w.Winery)
	assert.Equal(t, Unknown, w.Country)
	assert.Equal(t, Unknown, w.Region)
	assert.Equal(t, Unknown, w.Appellation)
	assert.Equal(t, Unknown, w.GrapeVariety)
	assert.Equal(t, ColorWhite, w.WineColor)
	require.NotNil(t, w.PriceCategory)
	assert.Equal(t, PricePremium, *w.PriceCategory)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	lux := PriceLuxury
	w := &Wine{Name: "Cuvée X", Winery: "Domaine Y", WineColor: ColorRose, PriceCategory: &lux, Country: "Frankreich"}
	ApplyDefaults(w, "Sekt")
	assert.Equal(t, "Domaine Y", w.Winery)
	assert.Equal(t, ColorRose, w.WineColor)
	assert.Equal(t, PriceLuxury, *w.PriceCategory)
	assert.Equal(t, "Frankreich", w.Country)
}

func TestWine_Descriptions(t *testing.T) {
	w := &Wine{}
	w.SetDescription(common.LanguageFR, "Un vin")
	w.SetDescription(common.LanguageEN, "A wine")
	w.SetDescription(common.LanguageDE, "Ein Wein")
	assert.Equal(t, "Un vin", w.Description(common.LanguageFR))
	assert.Equal(t, "A wine", w.DescriptionEN)
	assert.Equal(t, "Ein Wein", w.Description(common.LanguageDE))
}
