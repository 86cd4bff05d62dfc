package pkg

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html

// IsConnectionException checks if the error is a postgres connection exception (class 08)
func IsConnectionException(err error) bool {
	var pqErr *pgconn.PgError
	if errors.As(err, &pqErr) {
		return strings.HasPrefix(pqErr.Code, "08")
	}
	return false
}

// IsConnectError checks if the error happened while establishing the connection
// to the database, or the connection attempt timed out.
func IsConnectError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	return pgconn.Timeout(err)
}
