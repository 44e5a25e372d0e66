package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// UniqueViolation describes a unique constraint failure in a driver-neutral way.
type UniqueViolation struct {
	Constraint string
	Table      string
	Column     string
}

// AsUniqueViolation extracts the violated constraint from postgres (pgx or
// lib/pq) and sqlite errors. Constraints are expected to be named
// uq_<table>_<column>.
func AsUniqueViolation(err error) (UniqueViolation, bool) {
	if err == nil {
		return UniqueViolation{}, false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		if pgxErr.Code != pgUniqueViolation {
			return UniqueViolation{}, false
		}
		return fromConstraint(pgxErr.ConstraintName, pgxErr.TableName), true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) != pgUniqueViolation {
			return UniqueViolation{}, false
		}
		return fromConstraint(pqErr.Constraint, pqErr.Table), true
	}

	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		// sqlite: "UNIQUE constraint failed: products.sku"
		target := strings.TrimSpace(msg[idx+len("UNIQUE constraint failed: "):])
		if comma := strings.Index(target, ","); comma >= 0 {
			target = target[:comma]
		}
		table, column, _ := strings.Cut(target, ".")
		return UniqueViolation{Table: table, Column: column}, true
	}
	if strings.Contains(msg, "duplicate key value") {
		return UniqueViolation{}, true
	}
	return UniqueViolation{}, false
}

// IsUniqueViolation reports whether err is a unique violation. When column is
// provided, the violation must concern that column.
func IsUniqueViolation(err error, column string) bool {
	v, ok := AsUniqueViolation(err)
	if !ok {
		return false
	}
	if column == "" {
		return true
	}
	return v.Column == column
}

func fromConstraint(constraint, table string) UniqueViolation {
	v := UniqueViolation{Constraint: constraint, Table: table}
	if table != "" {
		v.Column = strings.TrimPrefix(constraint, "uq_"+table+"_")
		if v.Column == constraint {
			v.Column = ""
		}
	}
	return v
}
