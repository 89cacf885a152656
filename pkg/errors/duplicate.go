package errors

import (
	stdErrors "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

// IsDuplicate reports whether err is a storage-level unique constraint
// violation. Concurrent writers racing on the same natural key are expected
// to hit this and re-read the existing row instead of failing.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if stdErrors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation
	}

	var pqErr *pq.Error
	if stdErrors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	// sqlite (tests) and drivers that only surface message text.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
