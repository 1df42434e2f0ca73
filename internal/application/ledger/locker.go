package ledger

import (
	"sort"
	"sync"
)

// Claves de agregado para el bloqueo por escritor único.
func productKey(id string) string  { return "product:" + id }
func saleKey(id string) string     { return "sale:" + id }
func movementKey(id string) string { return "movement:" + id }

// KeyedLocker serializa, dentro del proceso, las sagas que tocan el mismo agregado.
// No protege contra otros procesos que escriban en el mismo almacén.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLocker crea un locker vacío.
func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[string]*keyedLock)}
}

// Lock toma todas las claves en orden lexicográfico (sin duplicados) y devuelve la función que las libera.
func (l *KeyedLocker) Lock(keys ...string) (unlock func()) {
	uniq := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		uniq = append(uniq, k)
	}
	sort.Strings(uniq)

	held := make([]*keyedLock, 0, len(uniq))
	for _, k := range uniq {
		l.mu.Lock()
		kl, ok := l.locks[k]
		if !ok {
			kl = &keyedLock{}
			l.locks[k] = kl
		}
		kl.refs++
		l.mu.Unlock()

		kl.mu.Lock()
		held = append(held, kl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.release(uniq[i])
		}
	}
}

func (l *KeyedLocker) release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kl := l.locks[key]
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

// Len devuelve cuántas claves tienen dueño o espera.
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
