package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/boutique-ledger/internal/domain/entity"
	amounts "github.com/jhoicas/boutique-ledger/internal/domain/ledger"
)

// Pasos del pago de deuda.
const (
	StepReadTarget       = "read_target"
	StepUpdateAggregate  = "update_aggregate"
	StepAppendSettlement = "append_settlement"
)

// SettleInput entrada de settleDebt. TargetID es la venta (client) o el movimiento de entrada (supplier).
type SettleInput struct {
	Kind     string          `validate:"required,oneof=client supplier"`
	TargetID string          `validate:"required"`
	Amount   decimal.Decimal `validate:"gt=0"`
}

// SettleResult resultado de un pago aplicado por completo.
type SettleResult struct {
	Kind         string
	TargetID     string
	SettlementID string
	NewPaid      decimal.Decimal
	NewRemaining decimal.Decimal
	Refresh      []string
}

// SettleDebt registra un pago: read_target, luego en paralelo update_aggregate y append_settlement.
//
// Las dos escrituras pueden fallar por separado. Si solo una se aplica, el SagaError
// la lista en Completed y marca Drift: hay un pago sin agregado o un agregado sin pago.
func (s *Service) SettleDebt(ctx context.Context, in SettleInput) (*SettleResult, error) {
	if err := validate(in); err != nil {
		return nil, err
	}

	key := saleKey(in.TargetID)
	if in.Kind == entity.SettlementKindSupplier {
		key = movementKey(in.TargetID)
	}
	unlock := s.locks.Lock(key)
	defer unlock()

	g := s.begin(SagaSettleDebt, map[string]any{"kind": in.Kind, "target_id": in.TargetID, "amount": in.Amount.String()})

	var paid, remaining decimal.Decimal
	if err := g.read(StepReadTarget, func() error {
		var err error
		paid, remaining, err = s.readTarget(ctx, in.Kind, in.TargetID)
		return err
	}); err != nil {
		return nil, err
	}

	newPaid, newRemaining := amounts.ApplyPayment(paid, remaining, in.Amount)
	st := &entity.Settlement{
		Kind:     in.Kind,
		TargetID: in.TargetID,
		Amount:   in.Amount,
		Date:     s.now(),
	}

	var aggErr, appendErr error
	var eg errgroup.Group
	eg.Go(func() error {
		aggErr = s.updateTarget(ctx, in.Kind, in.TargetID, newPaid, newRemaining)
		return aggErr
	})
	eg.Go(func() error {
		appendErr = s.repos.Settlements.Create(ctx, st)
		return appendErr
	})
	_ = eg.Wait()

	switch {
	case aggErr == nil && appendErr == nil:
		g.done(StepUpdateAggregate, true)
		g.done(StepAppendSettlement, true)
	case aggErr != nil && appendErr != nil:
		return nil, g.fail(StepUpdateAggregate, errors.Join(aggErr, appendErr))
	case aggErr != nil:
		g.done(StepAppendSettlement, true)
		return nil, g.fail(StepUpdateAggregate, aggErr)
	default:
		g.done(StepUpdateAggregate, true)
		return nil, g.fail(StepAppendSettlement, appendErr)
	}

	res := &SettleResult{
		Kind:         in.Kind,
		TargetID:     in.TargetID,
		SettlementID: st.ID,
		NewPaid:      newPaid,
		NewRemaining: newRemaining,
		Refresh:      settleRefresh(in.Kind),
	}
	g.finish()
	s.notify(res.Refresh)
	return res, nil
}

func (s *Service) readTarget(ctx context.Context, kind, id string) (paid, remaining decimal.Decimal, err error) {
	if kind == entity.SettlementKindSupplier {
		m, err := s.repos.Movements.GetByID(ctx, id)
		if err != nil {
			return paid, remaining, err
		}
		return m.PaidAmount, m.RemainingAmount, nil
	}
	v, err := s.repos.Sales.GetByID(ctx, id)
	if err != nil {
		return paid, remaining, err
	}
	return v.PaidAmount, v.Outstanding(), nil
}

// updateTarget escribe el agregado. En ventas el restante queda presente aunque llegue a 0.
func (s *Service) updateTarget(ctx context.Context, kind, id string, paid, remaining decimal.Decimal) error {
	if kind == entity.SettlementKindSupplier {
		return s.repos.Movements.UpdatePayment(ctx, id, paid, remaining)
	}
	return s.repos.Sales.UpdatePayment(ctx, id, paid, &remaining)
}
