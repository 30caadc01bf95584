package cellar

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"wine-pairing/internal/core/auth"
	"wine-pairing/internal/core/wine"
	"wine-pairing/internal/infrastructure/store"
	"wine-pairing/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const freeLimit = 3

var (
	alice = auth.Principal{UserID: "alice", Plan: auth.PlanFree}
	bob   = auth.Principal{UserID: "bob", Plan: auth.PlanFree}
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewService(s, func(plan string) int {
		if plan == auth.PlanPremium {
			return 0
		}
		return freeLimit
	})
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestService_Create(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, alice, EntryInput{
		Name:          " Barolo 2016 ",
		Type:          "red",
		Region:        "Piemont",
		Year:          2016,
		PriceCategory: strPtr("premium"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "alice", e.UserID)
	assert.Equal(t, "Barolo 2016", e.Name)
	assert.Equal(t, 1, e.Quantity)
	assert.Equal(t, wine.PricePremium, *e.PriceCategory)

	e, err = svc.Create(ctx, alice, EntryInput{Name: "Whispering Angel", Type: "rose", Quantity: intPtr(0)})
	require.NoError(t, err)
	assert.Equal(t, wine.ColorRose, e.Type)
	assert.Zero(t, e.Quantity)
}

func TestService_CreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		in     EntryInput
		fields []string
	}{
		{"missing name and type", EntryInput{}, []string{"name", "type"}},
		{"sweet is not a cellar type", EntryInput{Name: "Sauternes", Type: "sweet"}, []string{"type"}},
		{"unknown type", EntryInput{Name: "X", Type: "orange"}, []string{"type"}},
		{"negative quantity", EntryInput{Name: "X", Type: "red", Quantity: intPtr(-1)}, []string{"quantity"}},
		{"year too old", EntryInput{Name: "X", Type: "red", Year: 1700}, []string{"year"}},
		{"year in future", EntryInput{Name: "X", Type: "red", Year: time.Now().Year() + 5}, []string{"year"}},
		{"bad price", EntryInput{Name: "X", Type: "red", PriceCategory: strPtr("cheap")}, []string{"price_category"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, tt.in)
			var ve *common.ValidationError
			require.ErrorAs(t, err, &ve)
			for _, f := range tt.fields {
				assert.Contains(t, ve.Fields, f)
			}
		})
	}

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list, "invalid input must not persist")
}

func TestService_Isolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, alice, EntryInput{Name: "Riesling", Type: "white"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, EntryInput{Name: "Merlot", Type: "red"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, bob, mine.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = svc.Update(ctx, bob, mine.ID, EntryInput{Name: "Stolen", Type: "red"})
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	_, err = svc.ToggleFavorite(ctx, bob, mine.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	err = svc.Delete(ctx, bob, mine.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))

	// 對他人條目與不存在條目的錯誤必須一致
	_, errMissing := svc.Get(ctx, bob, "does-not-exist")
	_, errForeign := svc.Get(ctx, bob, mine.ID)
	assert.Equal(t, common.KindOf(errMissing), common.KindOf(errForeign))

	got, err := svc.Get(ctx, alice, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "Riesling", got.Name)
	assert.False(t, got.IsFavorite)

	bobs, err := svc.List(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobs, 1)
	assert.Equal(t, "Merlot", bobs[0].Name)
}

func TestService_UpdateToggleDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	favorite := true
	e, err := svc.Create(ctx, alice, EntryInput{Name: "Chablis", Type: "white", Quantity: intPtr(6), PriceCategory: strPtr("2"), IsFavorite: &favorite})
	require.NoError(t, err)
	assert.True(t, e.IsFavorite)

	updated, err := svc.Update(ctx, alice, e.ID, EntryInput{Name: "Chablis Premier Cru", Type: "white", Notes: "Kalk"})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.UserID)
	assert.Equal(t, 6, updated.Quantity, "quantity kept when omitted")
	assert.True(t, updated.IsFavorite, "favorite kept when omitted")
	require.NotNil(t, updated.PriceCategory, "price kept when omitted")
	assert.Equal(t, wine.PricePremium, *updated.PriceCategory)
	assert.True(t, e.CreatedAt.Equal(updated.CreatedAt))

	updated, err = svc.Update(ctx, alice, e.ID, EntryInput{Name: "Chablis Premier Cru", Type: "white", PriceCategory: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.PriceCategory, "empty price clears")
	assert.True(t, updated.IsFavorite)

	favorite = false
	updated, err = svc.Update(ctx, alice, e.ID, EntryInput{Name: "Chablis Premier Cru", Type: "white", IsFavorite: &favorite})
	require.NoError(t, err)
	assert.False(t, updated.IsFavorite)

	fav, err := svc.ToggleFavorite(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.True(t, fav.IsFavorite)
	fav, err = svc.ToggleFavorite(ctx, alice, e.ID)
	require.NoError(t, err)
	assert.False(t, fav.IsFavorite)

	require.NoError(t, svc.Delete(ctx, alice, e.ID))
	_, err = svc.Get(ctx, alice, e.ID)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestService_Quota(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 1; i <= freeLimit; i++ {
		_, err := svc.Create(ctx, alice, EntryInput{Name: fmt.Sprintf("Wein %d", i), Type: "red"})
		require.NoError(t, err, "entry %d of %d", i, freeLimit)
	}

	_, err := svc.Create(ctx, alice, EntryInput{Name: "one too many", Type: "red"})
	var qe *common.QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, freeLimit, qe.Limit)

	// 只計算自己的條目
	_, err = svc.Create(ctx, bob, EntryInput{Name: "Bob's", Type: "red"})
	require.NoError(t, err)

	// 刪除後可以再新增
	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, alice, list[0].ID))
	_, err = svc.Create(ctx, alice, EntryInput{Name: "replacement", Type: "red"})
	require.NoError(t, err)

	premium := auth.Principal{UserID: "carol", Plan: auth.PlanPremium}
	for i := 0; i < freeLimit+2; i++ {
		_, err := svc.Create(ctx, premium, EntryInput{Name: "P", Type: "sparkling"})
		require.NoError(t, err)
	}
}

func TestService_QuotaConcurrent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, alice, EntryInput{Name: "race", Type: "red"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
		}
	}
	assert.Equal(t, freeLimit, ok)
}

func TestService_RequiresPrincipal(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.List(context.Background(), auth.Principal{})
	assert.Equal(t, common.KindUnauthorized, common.KindOf(err))
}
