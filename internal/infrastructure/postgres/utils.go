package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/boutique-ledger/internal/domain"
)

// Querier es lo mínimo que los repositorios necesitan del pool.
// Cada método del adaptador es una sola sentencia: no hay transacciones.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// classify traduce un error del driver a uno de los fallos del almacén
// (ErrNotFound, ErrUnavailable, ErrRejected), conservando el original en la cadena.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01": // undefined_table: la colección aún no existe
			return fmt.Errorf("%s: %w: %s", op, domain.ErrNotFound, pgErr.Message)
		case hasClass(pgErr.Code, "08", "53", "57"):
			return fmt.Errorf("%s: %w: %s", op, domain.ErrUnavailable, pgErr.Message)
		case hasClass(pgErr.Code, "22", "23", "42"):
			return fmt.Errorf("%s: %w: %s", op, domain.ErrRejected, pgErr.Message)
		}
		return fmt.Errorf("%s: %w: %s", op, domain.ErrRejected, pgErr.Message)
	}
	if isTransient(err) {
		return fmt.Errorf("%s: %w: %v", op, domain.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func hasClass(code string, classes ...string) bool {
	for _, c := range classes {
		if strings.HasPrefix(code, c) {
			return true
		}
	}
	return false
}

// isTransient detecta cortes de red, timeouts y cancelaciones.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// expectOne convierte un UPDATE/DELETE sin filas afectadas en ErrNotFound.
func expectOne(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return classify(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}

// nullable devuelve nil para cadenas vacías (columnas opcionales).
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
