package dtfdb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a domain error kind.
type ErrorCode string

const (
	// CodeDatabaseNotFound is returned when the schema definition file is
	// missing or empty at open.
	CodeDatabaseNotFound ErrorCode = "DATABASE_NOT_FOUND"
	// CodeMissingTableParam is returned when a blank table name is
	// supplied to an operation.
	CodeMissingTableParam ErrorCode = "MISSING_TABLE_PARAM"
	// CodeTableNotFound is returned when the named table is absent from
	// the schema.
	CodeTableNotFound ErrorCode = "TABLE_NOT_FOUND"
	// CodeColumnNotFound is returned when one or more requested columns
	// are absent from the table; the error carries the offending names.
	CodeColumnNotFound ErrorCode = "COLUMN_NOT_FOUND"
	// CodeColumnListMismatch is returned when the supplied value count
	// does not equal the resolved column count.
	CodeColumnListMismatch ErrorCode = "COLUMN_LIST_MISMATCH"
	// CodeDuplicateKey is returned when an explicit key collides with an
	// existing record.
	CodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
	// CodeAutoKeyOverflow is returned when automatic key generation
	// exceeds the representable integer bound.
	CodeAutoKeyOverflow ErrorCode = "AUTO_KEY_OVERFLOW"
)

// Error is a domain error with a code and optional details.
type Error struct {
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

func newError(code ErrorCode, message string) *Error {
	return &Error{code: code, message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// Code returns the error code.
func (e *Error) Code() ErrorCode {
	return e.code
}

// Details returns additional error details, such as offending column names.
func (e *Error) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *Error) Unwrap() error {
	return e.wrappedErr
}

func (e *Error) withDetail(key string, value any) *Error {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

func (e *Error) wrap(err error) *Error {
	e.wrappedErr = err
	return e
}

// CodeOf returns the error code carried by err, or "" for non-domain
// errors such as I/O failures.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.code
	}
	return ""
}

// Predefined error constructors.

func errDatabaseNotFound(database string, cause error) *Error {
	return newError(CodeDatabaseNotFound, fmt.Sprintf("database %q not found", database)).wrap(cause)
}

func errMissingTableParam() *Error {
	return newError(CodeMissingTableParam, "table name is required")
}

func errTableNotFound(table string) *Error {
	return newError(CodeTableNotFound, fmt.Sprintf("table %q not found", table)).withDetail("table", table)
}

func errColumnNotFound(table string, columns []string) *Error {
	return newError(CodeColumnNotFound,
		fmt.Sprintf("table %q has no column %s", table, strings.Join(columns, ", "))).
		withDetail("columns", columns)
}

func errColumnListMismatch(columns, values int) *Error {
	return newError(CodeColumnListMismatch,
		fmt.Sprintf("column list has %d columns but %d values were supplied", columns, values))
}

func errDuplicateKey(key string) *Error {
	return newError(CodeDuplicateKey, fmt.Sprintf("key %q already exists", key)).withDetail("key", key)
}

func errAutoKeyOverflow(table string) *Error {
	return newError(CodeAutoKeyOverflow,
		fmt.Sprintf("table %q cannot assign a key beyond the integer bound", table))
}
