package ledger

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Nombres de saga.
const (
	SagaStockReceipt = "record_stock_receipt"
	SagaSale         = "record_sale"
	SagaSettleDebt   = "settle_debt"
)

// SagaError informa qué paso falló y cuáles ya quedaron aplicados.
// errors.Is/As sobre SagaError alcanzan la causa del almacén.
type SagaError struct {
	Saga      string
	Step      string
	Completed []string
	// Drift es verdadero si algún paso de escritura ya se aplicó:
	// agregados y libro pueden no coincidir.
	Drift bool
	Err   error
}

func (e *SagaError) Error() string {
	return fmt.Sprintf("%s: paso %s: %v", e.Saga, e.Step, e.Err)
}

func (e *SagaError) Unwrap() error { return e.Err }

// LastCompleted devuelve el último paso aplicado, vacío si ninguno.
func (e *SagaError) LastCompleted() string {
	if len(e.Completed) == 0 {
		return ""
	}
	return e.Completed[len(e.Completed)-1]
}

// saga registra los pasos de una operación en curso.
type saga struct {
	name      string
	completed []string
	wrote     bool
	log       zerolog.Logger
}

func (s *Service) begin(name string, fields map[string]any) *saga {
	l := s.log.With().Str("saga", name).Fields(fields).Logger()
	l.Debug().Msg("saga iniciada")
	return &saga{name: name, log: l}
}

// read ejecuta un paso de solo lectura.
func (g *saga) read(step string, fn func() error) error {
	if err := fn(); err != nil {
		return g.fail(step, err)
	}
	g.done(step, false)
	return nil
}

// write ejecuta un paso que modifica el almacén.
func (g *saga) write(step string, fn func() error) error {
	if err := fn(); err != nil {
		return g.fail(step, err)
	}
	g.done(step, true)
	return nil
}

func (g *saga) done(step string, wrote bool) {
	g.completed = append(g.completed, step)
	g.wrote = g.wrote || wrote
	g.log.Trace().Str("step", step).Msg("paso aplicado")
}

// fail construye el SagaError y lo registra. Con escrituras previas se marca integrity_drift.
func (g *saga) fail(step string, err error) error {
	se := &SagaError{
		Saga:      g.name,
		Step:      step,
		Completed: append([]string(nil), g.completed...),
		Drift:     g.wrote,
		Err:       err,
	}
	ev := g.log.Error()
	if !g.wrote {
		ev = g.log.Warn()
	}
	ev.Err(err).
		Str("failed_step", step).
		Str("last_completed", se.LastCompleted()).
		Str("completed", strings.Join(se.Completed, ",")).
		Bool("integrity_drift", g.wrote).
		Msg("saga interrumpida")
	return se
}

func (g *saga) finish() {
	g.log.Debug().Str("completed", strings.Join(g.completed, ",")).Msg("saga completada")
}

func lineStep(i int, step string) string {
	return fmt.Sprintf("line[%d].%s", i, step)
}
