package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/gestion-ventas/internal/domain"
)

// Códigos SQLSTATE que se distinguen al leer el catálogo.
const (
	codeUndefinedTable  = "42P01"
	codeUndefinedColumn = "42703"
	codeInvalidPassword = "28P01"
	codeInvalidAuth     = "28000"
)

// queryError envuelve un fallo de consulta. Los errores de credenciales se reportan como
// ErrUnauthorized; un esquema distinto al esperado se indica con la tabla o columna.
func queryError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeInvalidPassword, codeInvalidAuth:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrUnauthorized, pgErr.Message)
	case codeUndefinedTable, codeUndefinedColumn:
		return fmt.Errorf("%s: esquema incompatible (%s): %w", op, pgErr.Message, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
