package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Constraint-violation classes, used to attach a precise cause to the
// wrapped error. Row-level violations are skippable in the pipeline;
// classification keeps the log lines actionable.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

func violationClass(err error) string {
	switch {
	case isUniqueViolation(err):
		return "unique violation"
	case isForeignKeyViolation(err):
		return "foreign key violation"
	default:
		return ""
	}
}
