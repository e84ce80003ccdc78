package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE 23P01: exclusion constraint violation. Raised by the no-overlap
// constraints on appointments, staff availability windows and time off.
func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
