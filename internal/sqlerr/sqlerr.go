// Package sqlerr classifies errors returned by the store drivers into the
// handful of kinds handlers care about: a constraint the data broke, a store
// that could not be reached, a missing row, or anything else.  Validation
// failures never reach the store; they carry KindValidation so one switch
// in the handler covers every failure path.
package sqlerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"net/http"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

// Kind is the category of a failure.
type Kind int

const (
	KindOther Kind = iota
	KindValidation
	KindConstraint
	KindConnectivity
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConstraint:
		return "constraint"
	case KindConnectivity:
		return "connectivity"
	case KindNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// Retryable reports whether repeating the same operation later may succeed.
func (k Kind) Retryable() bool {
	return k == KindConnectivity
}

// HTTPStatus maps a kind to the status code of the page rendered for it.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConstraint:
		return http.StatusConflict
	case KindConnectivity:
		return http.StatusServiceUnavailable
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// MySQL server error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlNullColumn       = 1048
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
	mysqlNoReferencedRow2 = 1216
	mysqlCheckViolated    = 3819
	mysqlDataTooLong      = 1406
	mysqlTooManyConns     = 1040
	mysqlLockWaitTimeout  = 1205
	mysqlDeadlock         = 1213
	mysqlServerShutdown   = 1053
)

// Classify returns the kind of err.  A nil error is KindOther.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}
	var kerr *Error
	if errors.As(err, &kerr) {
		return kerr.Kind
	}
	if errors.Is(err, sql.ErrNoRows) {
		return KindNotFound
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry, mysqlNullColumn, mysqlRowIsReferenced, mysqlNoReferencedRow,
			mysqlRowIsReferenced2, mysqlNoReferencedRow2, mysqlCheckViolated, mysqlDataTooLong:
			return KindConstraint
		case mysqlTooManyConns, mysqlLockWaitTimeout, mysqlDeadlock, mysqlServerShutdown:
			return KindConnectivity
		}
		return KindOther
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code {
		case sqlite3.ErrConstraint:
			return KindConstraint
		case sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCantOpen, sqlite3.ErrIoErr:
			return KindConnectivity
		}
		return KindOther
	}

	var netErr net.Error
	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr):
		return KindConnectivity
	}
	return KindOther
}

// Error attaches an explicit kind to an error produced above the driver,
// such as a form validation failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// WithKind wraps err so that Classify reports kind for it.
func WithKind(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}
