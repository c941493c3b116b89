// Package sqlerr specifically handles database driver errors.
//
// It parses cryptic SQLSTATE codes from the PostgreSQL driver and
// classifies them, both for structured logs at the data-access boundary
// and for converting stray driver errors into user-friendly API errors.
package sqlerr

import (
	"fmt"
	"strings"
)

// Code is a coarse, stable category for a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	InvalidTextRep      Code = "invalid_text_representation"
	UndefinedTable      Code = "undefined_table"
	UndefinedColumn     Code = "undefined_column"
	SyntaxError         Code = "syntax_error"
	ConnectionFailure   Code = "connection_failure"
	QueryCanceled       Code = "query_canceled"
	InsufficientPrivs   Code = "insufficient_privilege"
	TooManyConnections  Code = "too_many_connections"
)

// Severity mirrors the PostgreSQL error severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityUnknown Severity = "UNKNOWN"
)

var codes = map[string]Code{
	"23502": NotNullViolation,
	"23503": ForeignKeyViolation,
	"23505": UniqueViolation,
	"23514": CheckViolation,
	"22P02": InvalidTextRep,
	"42P01": UndefinedTable,
	"42703": UndefinedColumn,
	"42601": SyntaxError,
	"57014": QueryCanceled,
	"42501": InsufficientPrivs,
	"53300": TooManyConnections,
}

// MapCode maps a SQLSTATE onto a Code. Any class 08 state is a
// connection failure.
func MapCode(sqlstate string) Code {
	if code, ok := codes[sqlstate]; ok {
		return code
	}
	if strings.HasPrefix(sqlstate, "08") {
		return ConnectionFailure
	}
	return Other
}

// MapSeverity normalizes the severity string reported by the server.
func MapSeverity(severity string) Severity {
	switch s := Severity(strings.ToUpper(severity)); s {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning, SeverityNotice:
		return s
	default:
		return SeverityUnknown
	}
}

// Error is a driver error converted into our own structure.
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
