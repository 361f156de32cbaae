package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// pgUniqueViolation is SQLSTATE 23505.
const pgUniqueViolation = "23505"

// UniqueViolation describes a uniqueness-constraint failure together with the
// identity of the constraint that fired. Constraint discrimination uses the
// structured fields the driver exposes: Postgres reports the constraint name,
// SQLite the constraint class plus a "table.column" detail.
type UniqueViolation struct {
	Constraint string
	Err        error
}

func (e *UniqueViolation) Error() string {
	return "unique constraint violated: " + e.Constraint
}

func (e *UniqueViolation) Unwrap() error { return e.Err }

// On reports whether the violated constraint is the one covering the given
// table column. Matching is exact against the names each backend reports:
// Postgres the default index name, SQLite the table.column pair.
func (e *UniqueViolation) On(table, column string) bool {
	switch e.Constraint {
	case table + "." + column, "idx_" + table + "_" + column:
		return true
	}
	return false
}

// AsUniqueViolation classifies a database error. Collisions are the only
// error class the identifier allocator may recover from; everything else
// propagates.
func AsUniqueViolation(err error) (*UniqueViolation, bool) {
	if err == nil {
		return nil, false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &UniqueViolation{Constraint: pgErr.ConstraintName, Err: err}, true
	}

	// SQLite reports primary-key collisions under their own constraint
	// class; both carry the same "UNIQUE constraint failed" detail.
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		constraint := strings.TrimPrefix(sqliteErr.Error(), "UNIQUE constraint failed: ")
		return &UniqueViolation{Constraint: constraint, Err: err}, true
	}

	var uv *UniqueViolation
	if errors.As(err, &uv) {
		return uv, true
	}

	return nil, false
}
