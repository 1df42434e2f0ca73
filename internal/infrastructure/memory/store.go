// Package memory implementa los puertos del almacén en memoria.
// Se usa con STORE_DRIVER=memory (demo/desarrollo) y en las pruebas, donde
// permite inyectar fallos por operación y colección para ejercitar las sagas.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/boutique-ledger/internal/domain"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
)

// Operaciones del almacén, usadas para inyectar fallos y contar llamadas.
const (
	OpCreate = "create"
	OpGet    = "get"
	OpUpdate = "update"
	OpList   = "list"
	OpDelete = "delete"
)

type fault struct {
	op, collection string
	nth            int // 1-based; 0 = todas las llamadas
	err            error
}

// Store guarda todas las colecciones en memoria. Cada operación es independiente,
// igual que en el almacén remoto: no hay transacciones.
type Store struct {
	mu sync.Mutex

	products    []*entity.Product
	movements   []*entity.StockMovement
	sales       []*entity.Sale
	lines       []*entity.SaleLine
	clients     []*entity.Client
	suppliers   []*entity.Supplier
	settlements map[string][]*entity.Settlement

	missing map[string]bool
	faults  []fault
	calls   map[string]int

	now func() time.Time
}

// New crea un almacén vacío con todas las colecciones presentes.
func New() *Store {
	return &Store{
		settlements: make(map[string][]*entity.Settlement),
		missing:     make(map[string]bool),
		calls:       make(map[string]int),
		now:         time.Now,
	}
}

// SetClock reemplaza el reloj usado para las fechas asignadas por el almacén.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn hace fallar la llamada número nth (1-based) de op sobre collection con err.
// nth = 0 hace fallar todas las llamadas.
func (s *Store) FailOn(op, collection string, nth int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, collection: collection, nth: nth, err: err})
}

// ClearFaults elimina los fallos inyectados.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

// DropCollection simula una colección que aún no existe: sus listados devuelven ErrNotFound.
func (s *Store) DropCollection(collection string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missing[collection] = true
}

// Calls devuelve cuántas veces se invocó op sobre collection.
func (s *Store) Calls(op, collection string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op+":"+collection]
}

// enter registra la llamada y devuelve el fallo inyectado si corresponde. Requiere s.mu.
func (s *Store) enter(ctx context.Context, op, collection string) error {
	if err := ctx.Err(); err != nil {
		return domain.ErrUnavailable
	}
	key := op + ":" + collection
	s.calls[key]++
	n := s.calls[key]
	for _, f := range s.faults {
		if f.op == op && f.collection == collection && (f.nth == 0 || f.nth == n) {
			return f.err
		}
	}
	if s.missing[collection] {
		return domain.ErrNotFound
	}
	return nil
}

func newID() string { return uuid.New().String() }

func containsID(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// Products devuelve el adaptador de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Movements devuelve el adaptador de movimientos.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Sales devuelve el adaptador de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// SaleLines devuelve el adaptador de líneas de venta.
func (s *Store) SaleLines() *SaleLineRepo { return &SaleLineRepo{s: s} }

// Clients devuelve el adaptador de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

// Suppliers devuelve el adaptador de proveedores.
func (s *Store) Suppliers() *SupplierRepo { return &SupplierRepo{s: s} }

// Settlements devuelve el adaptador de pagos.
func (s *Store) Settlements() *SettlementRepo { return &SettlementRepo{s: s} }
