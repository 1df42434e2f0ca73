package ledger_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-ledger/internal/application/ledger"
	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	"github.com/jhoicas/boutique-ledger/internal/infrastructure/memory"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func repositories(st *memory.Store) ledger.Repositories {
	return ledger.Repositories{
		Products:    st.Products(),
		Movements:   st.Movements(),
		Sales:       st.Sales(),
		SaleLines:   st.SaleLines(),
		Clients:     st.Clients(),
		Settlements: st.Settlements(),
	}
}

func newService(t *testing.T, opts ...ledger.Option) (*ledger.Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	st.SetClock(func() time.Time { return fixedNow })
	opts = append([]ledger.Option{ledger.WithClock(func() time.Time { return fixedNow })}, opts...)
	return ledger.NewService(repositories(st), opts...), st
}

func seedProduct(t *testing.T, st *memory.Store, name string, qty int) *entity.Product {
	t.Helper()
	p := &entity.Product{Name: name, PurchasePrice: d(300), SalePrice: d(500), Quantity: qty}
	require.NoError(t, st.Products().Create(context.Background(), p))
	return p
}

func quantityOf(t *testing.T, st *memory.Store, id string) int {
	t.Helper()
	p, err := st.Products().GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Quantity
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]string
}

func (n *recordingNotifier) Notify(views []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, views)
}
