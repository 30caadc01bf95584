package pairing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/cellar"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice = auth.Principal{UserID: "alice", Plan: auth.PlanFree}
	bob   = auth.Principal{UserID: "bob", Plan: auth.PlanFree}
)

type fakeGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, req *provider.Request) (*provider.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range req.Messages {
		if m.Role == provider.RoleUser {
			f.prompts = append(f.prompts, m.Content)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &provider.Response{Content: f.reply}, nil
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func newTestServices(t *testing.T, gen *fakeGenerator) (*Service, *cellar.Service) {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cellarSvc := cellar.NewService(s, func(string) int { return 0 })
	return NewService(s, gen, cellarSvc), cellarSvc
}

func floatPtr(v float64) *float64 { return &v }

func TestService_PairPastaCarbonara(t *testing.T) {
	gen := &fakeGenerator{reply: "Ein Frascati Superiore passt hervorragend.\n[[WHY]]Die Säure schneidet durch Ei und Guanciale.[[/WHY]]"}
	svc, _ := newTestServices(t, gen)
	ctx := context.Background()

	res, err := svc.Pair(ctx, alice, Request{Dish: "Pasta Carbonara"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.Recommendation)
	assert.NotContains(t, res.Recommendation, "[[")
	require.NotNil(t, res.WhyExplanation)
	assert.NotContains(t, *res.WhyExplanation, "[[")
	assert.Equal(t, "Die Säure schneidet durch Ei und Guanciale.", *res.WhyExplanation)
	assert.Equal(t, common.LanguageDE, res.Language)
	assert.Empty(t, res.CellarMatches)

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "Pasta Carbonara")
	assert.NotContains(t, prompt, "Taste profile")
	assert.Contains(t, prompt, "German")

	history, err := svc.History(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.ID, history[0].ID)
}

func TestService_PairWithCellar(t *testing.T) {
	gen := &fakeGenerator{}
	svc, cellarSvc := newTestServices(t, gen)
	ctx := context.Background()

	barolo, err := cellarSvc.Create(ctx, alice, cellar.EntryInput{Name: "Barolo Cannubi", Type: "red", Region: "Piemont", Year: 2016})
	require.NoError(t, err)
	riesling, err := cellarSvc.Create(ctx, alice, cellar.EntryInput{Name: "Riesling Kabinett", Type: "white"})
	require.NoError(t, err)
	_, err = cellarSvc.Create(ctx, alice, cellar.EntryInput{Name: "Cava", Type: "sparkling"})
	require.NoError(t, err)
	_, err = cellarSvc.Create(ctx, bob, cellar.EntryInput{Name: "Bobs Barolo", Type: "red"})
	require.NoError(t, err)

	gen.reply = `{"recommendation": "Öffnen Sie den Barolo Cannubi, alternativ den riesling kabinett.", "why_explanation": "Tannin trifft Fett.", "cellar_matches": ["` + barolo.ID + `"]}`

	res, err := svc.Pair(ctx, alice, Request{
		Dish:         "Rinderschmorbraten",
		UseCellar:    true,
		Language:     "en",
		TasteProfile: &TasteProfile{Richness: floatPtr(8), Spice: floatPtr(2)},
	})
	require.NoError(t, err)

	require.Len(t, res.CellarMatches, 2)
	assert.Equal(t, barolo.ID, res.CellarMatches[0].ID)
	assert.Equal(t, riesling.ID, res.CellarMatches[1].ID)
	assert.Equal(t, []string{barolo.ID, riesling.ID}, res.CellarMatchIDs)
	require.NotNil(t, res.WhyExplanation)
	assert.Equal(t, "Tannin trifft Fett.", *res.WhyExplanation)

	prompt := gen.lastPrompt()
	assert.Contains(t, prompt, "[id="+barolo.ID+"] Barolo Cannubi")
	assert.NotContains(t, prompt, "Bobs Barolo")
	assert.Contains(t, prompt, "richness: 8")
	assert.NotContains(t, prompt, "sweetness")
	assert.Contains(t, prompt, "English")
}

func TestService_PairValidation(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{reply: "x"})

	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"empty dish", Request{Dish: "   "}, "dish"},
		{"richness too high", Request{Dish: "Sushi", TasteProfile: &TasteProfile{Richness: floatPtr(11)}}, "taste_profile.richness"},
		{"negative spice", Request{Dish: "Sushi", TasteProfile: &TasteProfile{Spice: floatPtr(-1)}}, "taste_profile.spice"},
		{"unsupported language", Request{Dish: "Sushi", Language: "it"}, "language"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Pair(context.Background(), alice, tt.req)
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
}

func TestService_GenerationFailure(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{err: errors.New("upstream timeout")})
	ctx := context.Background()

	_, err := svc.Pair(ctx, alice, Request{Dish: "Sushi"})
	assert.Equal(t, common.KindGeneration, common.KindOf(err))

	history, err := svc.History(ctx, alice, 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_EmptyReplyIsGenerationError(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{reply: "[[WHY]][[/WHY]]"})
	_, err := svc.Pair(context.Background(), alice, Request{Dish: "Sushi"})
	assert.Equal(t, common.KindGeneration, common.KindOf(err))
}

func TestService_EmptyJSONRecommendationIsGenerationError(t *testing.T) {
	svc, _ := newTestServices(t, &fakeGenerator{reply: `{"recommendation": "", "why_explanation": "[[WHY]]x[[/WHY]]"}`})
	_, err := svc.Pair(context.Background(), alice, Request{Dish: "Sushi"})
	assert.Equal(t, common.KindGeneration, common.KindOf(err))
}

func TestService_History(t *testing.T) {
	gen := &fakeGenerator{reply: "Champagner"}
	svc, _ := newTestServices(t, gen)
	ctx := context.Background()

	var ids []string
	for _, dish := range []string{"Austern", "Sushi", "Kaviar"} {
		res, err := svc.Pair(ctx, alice, Request{Dish: dish})
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}
	_, err := svc.Pair(ctx, bob, Request{Dish: "Pommes"})
	require.NoError(t, err)

	history, err := svc.History(ctx, alice, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Kaviar", history[0].Dish)
	assert.Equal(t, "Sushi", history[1].Dish)
	for _, h := range history {
		assert.Equal(t, "alice", h.UserID)
	}

	_, err = svc.History(ctx, auth.Principal{}, 10)
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))
}

func TestSplitResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		rec     string
		why     *string
		matches []string
	}{
		{
			name: "json",
			raw:  "```json\n{\"recommendation\": \"Chablis\", \"why_explanation\": \"Mineralik\", \"cellar_matches\": [\"a1\"]}\n```",
			rec:  "Chablis", why: strPtr("Mineralik"), matches: []string{"a1"},
		},
		{
			name: "json without why",
			raw:  `{"recommendation": "Chablis", "why_explanation": "  "}`,
			rec:  "Chablis",
		},
		{
			name: "json with leaked markers",
			raw:  `{"recommendation": "Chablis [[WHY]]", "why_explanation": "[[WHY]]Kalk[[/WHY]]"}`,
			rec:  "Chablis", why: strPtr("Kalk"),
		},
		{
			name: "json with unquoted keys",
			raw:  `{recommendation: "Chablis", why_explanation: "Austern mögen Kalk."}`,
			rec:  "Chablis", why: strPtr("Austern mögen Kalk."),
		},
		{
			name: "delimiters",
			raw:  "Ein Grüner Veltliner.\n[[WHY]] Pfeffrige Würze. [[/WHY]]\nServiertemperatur 10 Grad.",
			rec:  "Ein Grüner Veltliner.\n\nServiertemperatur 10 Grad.", why: strPtr("Pfeffrige Würze."),
		},
		{
			name: "unclosed delimiter",
			raw:  "Sekt.[[WHY]]Perlage",
			rec:  "Sekt.", why: strPtr("Perlage"),
		},
		{
			name: "plain text",
			raw:  "  Ein kräftiger Primitivo.  ",
			rec:  "Ein kräftiger Primitivo.",
		},
		{
			name: "json with empty recommendation",
			raw:  `{"recommendation": "", "why_explanation": "[[WHY]]Säure[[/WHY]]", "cellar_matches": ["a1"]}`,
			rec:  "",
		},
		{
			name: "lowercase delimiters",
			raw:  "Riesling [[why]]lower[[/why]]",
			rec:  "Riesling", why: strPtr("lower"),
		},
		{
			name: "spaced mixed case delimiters",
			raw:  "Riesling [[ Why ]]Säure[[ /wHy ]]",
			rec:  "Riesling", why: strPtr("Säure"),
		},
		{
			name: "two why blocks",
			raw:  "Barolo.[[WHY]]Tannin.[[/WHY]] Dazu Trüffel.[[WHY]]Erdig.[[/WHY]]",
			rec:  "Barolo.\n\nDazu Trüffel.", why: strPtr("Tannin.\n\nErdig."),
		},
		{
			name: "stray closing marker",
			raw:  "Rioja[[/WHY]]",
			rec:  "Rioja",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitResponse(tt.raw)
			assert.Equal(t, tt.rec, got.Recommendation)
			assert.Equal(t, tt.why, got.WhyExplanation)
			assert.Equal(t, tt.matches, got.CellarMatchIDs)
			assert.False(t, strings.Contains(got.Recommendation, "[["))
			assert.False(t, strings.Contains(got.Recommendation, "{"))
		})
	}
}

func strPtr(s string) *string { return &s }
