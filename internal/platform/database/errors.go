package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes worth calling out in error messages.
const (
	codeUndefinedFunction = "42883"
	codeUndefinedTable    = "42P01"
)

// Describe wraps err with operation context, adding the PostgreSQL SQLSTATE when
// the driver reports one. A missing ST_* function usually means PostGIS is absent.
func Describe(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch pgErr.Code {
	case codeUndefinedFunction:
		return fmt.Errorf("%s: postgis function unavailable (sqlstate %s): %w", op, pgErr.Code, err)
	case codeUndefinedTable:
		return fmt.Errorf("%s: schema not migrated (sqlstate %s): %w", op, pgErr.Code, err)
	default:
		return fmt.Errorf("%s (sqlstate %s): %w", op, pgErr.Code, err)
	}
}
