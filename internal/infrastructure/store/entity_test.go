package store_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"wine-pairing/internal/infrastructure/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    string `json:"id"`
	Owner string `json:"owner"`
	Email string `json:"email"`
}

func setupStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newItems(s *store.Store) *store.Entity[item] {
	return store.NewEntity[item](s, "item:").
		WithIndexTransform("email", func(i *item) []string {
			if i.Email == "" {
				return nil
			}
			return []string{strings.ToLower(i.Email)}
		}, strings.ToLower).
		WithIndex("owner", func(i *item) []string {
			return []string{i.Owner + ":" + i.ID}
		})
}

func TestEntity_CreateGet(t *testing.T) {
	ctx := context.Background()
	items := newItems(setupStore(t))

	require.NoError(t, items.Create(ctx, "1", &item{ID: "1", Owner: "a", Email: "A@x.de"}))

	got, err := items.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Owner)

	err = items.Create(ctx, "1", &item{ID: "1"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = items.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_UniqueIndex(t *testing.T) {
	ctx := context.Background()
	items := newItems(setupStore(t))

	require.NoError(t, items.Create(ctx, "1", &item{ID: "1", Owner: "a", Email: "Sam@x.de"}))

	got, err := items.GetByIndex(ctx, "email", "SAM@X.DE")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	err = items.Create(ctx, "2", &item{ID: "2", Owner: "b", Email: "sam@x.de"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	// 更新自己的索引值不算衝突
	require.NoError(t, items.Update(ctx, "1", &item{ID: "1", Owner: "a", Email: "sam@x.de"}))
	require.NoError(t, items.Update(ctx, "1", &item{ID: "1", Owner: "a", Email: "new@x.de"}))

	_, err = items.GetByIndex(ctx, "email", "sam@x.de")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, items.Create(ctx, "2", &item{ID: "2", Owner: "b", Email: "sam@x.de"}))
}

func TestEntity_ListByIndex(t *testing.T) {
	ctx := context.Background()
	items := newItems(setupStore(t))

	for _, it := range []item{{ID: "1", Owner: "a"}, {ID: "2", Owner: "b"}, {ID: "3", Owner: "a"}, {ID: "4", Owner: "ab"}} {
		require.NoError(t, items.Create(ctx, it.ID, &it))
	}

	owned, err := store.Collect(items.ListByIndex(ctx, "owner", "a:"))
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "1", owned[0].ID)
	assert.Equal(t, "3", owned[1].ID)

	n, err := items.CountByIndex(ctx, "owner", "a:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.Collect(items.List(ctx))
	require.NoError(t, err)
	assert.Len(t, all, 4, "index keys are not listed")
}

func TestEntity_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	items := newItems(setupStore(t))

	err := items.Update(ctx, "1", &item{ID: "1"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, items.Create(ctx, "1", &item{ID: "1", Owner: "a"}))
	require.NoError(t, items.Update(ctx, "1", &item{ID: "1", Owner: "b"}))

	n, err := items.CountByIndex(ctx, "owner", "a:")
	require.NoError(t, err)
	assert.Zero(t, n, "old index entry removed")

	require.NoError(t, items.Delete(ctx, "1"))
	assert.ErrorIs(t, items.Delete(ctx, "1"), store.ErrNotFound)

	n, err = items.CountByIndex(ctx, "owner", "b:")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEntity_CanceledContext(t *testing.T) {
	items := newItems(setupStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, items.Create(ctx, "1", &item{ID: "1"}), context.Canceled)
	_, err := items.Get(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_OnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	s, err := store.Open(store.Options{Path: dir})
	require.NoError(t, err)

	items := newItems(s)
	require.NoError(t, items.Create(context.Background(), "1", &item{ID: "1"}))
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())

	s, err = store.Open(store.Options{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	got, err := newItems(s).Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
}
