// Package cache implementa la caché de lecturas "stale-while-revalidate":
// cada consulta de listado se guarda por nombre lógico bajo una versión de esquema
// y se sirve de inmediato mientras se refresca contra el almacén.
package cache

import (
	"sync"
	"time"
)

// Entry es una instantánea guardada.
type Entry struct {
	Value     any
	FetchedAt time.Time
}

// Cache guarda instantáneas sin expiración: una entrada solo se reemplaza por
// una lectura posterior exitosa. Cambiar la versión invalida todo lo anterior.
type Cache struct {
	mu      sync.RWMutex
	version string
	entries map[string]Entry
	now     func() time.Time
}

// New crea una caché vacía para la versión de esquema dada.
func New(version string) *Cache {
	return &Cache{
		version: version,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Version devuelve la versión de esquema activa.
func (c *Cache) Version() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// SetVersion cambia la versión de esquema. Las entradas de otras versiones
// dejan de ser visibles y se descartan.
func (c *Cache) SetVersion(version string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if version == c.version {
		return
	}
	c.version = version
	for k := range c.entries {
		if !c.ownsLocked(k) {
			delete(c.entries, k)
		}
	}
}

// Get devuelve la instantánea de key en la versión activa.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[c.nsLocked(key)]
	return e, ok
}

// Set guarda value como instantánea de key.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.nsLocked(key)] = Entry{Value: value, FetchedAt: c.now()}
}

// Len devuelve el número de entradas visibles.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) nsLocked(key string) string { return c.version + ":" + key }

func (c *Cache) ownsLocked(nsKey string) bool {
	p := c.version + ":"
	return len(nsKey) >= len(p) && nsKey[:len(p)] == p
}
