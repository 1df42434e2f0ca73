package cache_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/infrastructure/cache"
)

var errOffline = errors.New("offline")

func okFetch(v []string) cache.Fetcher[[]string] {
	return func(context.Context) ([]string, error) { return v, nil }
}

func failFetch(context.Context) ([]string, error) { return nil, errOffline }

func TestLoad_SinInstantaneaYFalla_DevuelveError(t *testing.T) {
	c := cache.New("v1")
	_, err := cache.Load(context.Background(), c, "products", failFetch, nil)
	require.ErrorIs(t, err, errOffline, "sin instantánea previa el error es visible")
	assert.Equal(t, 0, c.Len())
}

func TestLoad_FallaTrasExito_ConservaInstantanea(t *testing.T) {
	ctx := context.Background()
	c := cache.New("v1")

	snap, err := cache.Load(ctx, c, "products", okFetch([]string{"robe", "pagne"}), nil)
	require.NoError(t, err)
	assert.False(t, snap.Stale)

	snap, err = cache.Load(ctx, c, "products", failFetch, nil)
	require.NoError(t, err, "fail-open: se sirve la instantánea")
	assert.True(t, snap.Stale)
	assert.ErrorIs(t, snap.RefreshErr, errOffline)
	assert.Equal(t, []string{"robe", "pagne"}, snap.Value)

	e, ok := c.Get("products")
	require.True(t, ok, "la caché no se borra tras un refresco fallido")
	assert.Equal(t, []string{"robe", "pagne"}, e.Value)
}

func TestLoad_RenderStaleThenFresh(t *testing.T) {
	ctx := context.Background()
	c := cache.New("v1")
	_, err := cache.Load(ctx, c, "sales", okFetch([]string{"old"}), nil)
	require.NoError(t, err)

	var rendered []cache.Snapshot[[]string]
	_, err = cache.Load(ctx, c, "sales", okFetch([]string{"new"}), func(s cache.Snapshot[[]string]) {
		rendered = append(rendered, s)
	})
	require.NoError(t, err)
	require.Len(t, rendered, 2)
	assert.Equal(t, []string{"old"}, rendered[0].Value)
	assert.True(t, rendered[0].Stale)
	assert.Equal(t, []string{"new"}, rendered[1].Value)
	assert.False(t, rendered[1].Stale)
}

func TestCache_CambioDeVersionInvalida(t *testing.T) {
	c := cache.New("v1")
	c.Set("products", []string{"robe"})

	c.SetVersion("v2")
	_, ok := c.Get("products")
	assert.False(t, ok, "una entrada de otra versión se trata como ausente")
	assert.Equal(t, 0, c.Len())

	_, err := cache.Load(context.Background(), c, "products", failFetch, nil)
	assert.ErrorIs(t, err, errOffline)
}

func TestLoad_TipoDistintoSeTrataComoAusente(t *testing.T) {
	c := cache.New("v1")
	c.Set("products", 42)
	_, err := cache.Load(context.Background(), c, "products", failFetch, nil)
	assert.ErrorIs(t, err, errOffline)
}
