// Package sqlerr specifically handles database driver errors.
//
// It parses the error codes of both drivers (SQLite extended result
// codes, Postgres SQLSTATE) into one Code enum and converts them into
// user-friendly application errors (e.g. a foreign key violation becomes
// "The referenced Employee does not exist").
package sqlerr

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Code is a driver-independent classification of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	TooManyConnections  Code = "too_many_connections"
	StoreBusy           Code = "store_busy"
	ReadOnly            Code = "read_only"
)

// Severity mirrors the Postgres severity levels. SQLite errors are
// always SeverityError.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// ErrCode reports the mapped Code for a given error, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// MapCode maps a Postgres SQLSTATE onto a Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "53300":
		return TooManyConnections
	case "25006":
		return ReadOnly
	default:
		return Other
	}
}

// MapSeverity maps a Postgres severity string onto a Severity.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}

// ConvertPgError converts a raw Postgres error into an Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// MapSQLiteCode maps a SQLite extended result code onto a Code.
func MapSQLiteCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	}

	// Fall back on the primary code (low byte).
	switch code & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return StoreBusy
	case sqlite3.SQLITE_READONLY:
		return ReadOnly
	default:
		return Other
	}
}

// SQLite puts the offending column in the message, e.g.
// "NOT NULL constraint failed: employees.name". Foreign key failures
// carry no table or column at all.
var sqliteColumnRe = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)

// ConvertSQLiteError converts a modernc.org/sqlite error into an Error.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	msg := src.Error()
	out := &Error{
		Code:         MapSQLiteCode(src.Code()),
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      msg,
		driverErr:    src,
	}
	if out.Code == Other && src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		out.Code = constraintFromMessage(msg)
	}
	if m := sqliteColumnRe.FindStringSubmatch(msg); len(m) == 3 {
		out.TableName = m[1]
		out.ColumnName = m[2]
	}
	return out
}

// constraintFromMessage classifies a constraint failure reported with
// the primary SQLITE_CONSTRAINT code only.
func constraintFromMessage(msg string) Code {
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ForeignKeyViolation
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return NotNullViolation
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return UniqueViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return CheckViolation
	default:
		return Other
	}
}
