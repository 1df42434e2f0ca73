package cache

import (
	"context"
	"time"
)

// Snapshot es el resultado que se muestra al llamador.
type Snapshot[T any] struct {
	Value     T
	FetchedAt time.Time
	// Stale indica que el valor viene de la caché y el refresco falló.
	Stale bool
	// RefreshErr es el error del refresco cuando Stale es verdadero.
	RefreshErr error
}

// Fetcher obtiene el valor fresco desde el almacén.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Load aplica el patrón de lectura de todas las vistas de listado:
//  1. si hay instantánea, se emite de inmediato (render, Stale=true hasta confirmar);
//  2. se consulta el almacén;
//  3. si la consulta funciona, se reemplaza la caché y se emite el valor fresco;
//  4. si falla, se conserva la instantánea y se devuelve marcada como Stale;
//     solo sin instantánea previa se devuelve el error.
//
// render puede ser nil. Una entrada con un tipo distinto de T se trata como ausente.
func Load[T any](ctx context.Context, c *Cache, key string, fetch Fetcher[T], render func(Snapshot[T])) (Snapshot[T], error) {
	cached, hasCached := lookup[T](c, key)
	if hasCached && render != nil {
		render(cached)
	}

	fresh, err := fetch(ctx)
	if err != nil {
		if hasCached {
			cached.Stale = true
			cached.RefreshErr = err
			return cached, nil
		}
		var zero Snapshot[T]
		return zero, err
	}

	c.Set(key, fresh)
	snap, ok := lookup[T](c, key)
	if !ok {
		snap = Snapshot[T]{Value: fresh, FetchedAt: time.Now()}
	}
	snap.Stale = false
	if render != nil {
		render(snap)
	}
	return snap, nil
}

func lookup[T any](c *Cache, key string) (Snapshot[T], bool) {
	e, ok := c.Get(key)
	if !ok {
		return Snapshot[T]{}, false
	}
	v, ok := e.Value.(T)
	if !ok {
		return Snapshot[T]{}, false
	}
	return Snapshot[T]{Value: v, FetchedAt: e.FetchedAt, Stale: true}, true
}
