package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// These provide a standardized set of errors that abstract away the
// underlying database-specific error details.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrCheckViolation is returned when a row violates a CHECK or NOT NULL constraint
	ErrCheckViolation = errors.New("check constraint violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrSerialization is returned for serialization failures and deadlocks
	ErrSerialization = errors.New("serialization failure")

	// ErrConnection is returned when the database cannot be reached
	ErrConnection = errors.New("database connection error")

	// ErrTimeout is returned when a statement is cancelled or its context expires
	ErrTimeout = errors.New("database operation timed out")
)

// PostgreSQL SQLSTATE codes the package classifies.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeNotNullViolation     = "23502"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
	codeTooManyConnections   = "53300"
	classConnectionException = "08"
	classDataException       = "22"
)

// ErrorCategory groups translated errors by how a caller should react to them.
type ErrorCategory int

const (
	CategoryUnknown ErrorCategory = iota
	CategoryNotFound
	CategoryConstraint
	CategoryConnection
	CategoryTransient
	CategoryData
)

func (c ErrorCategory) String() string {
	switch c {
	case CategoryNotFound:
		return "not_found"
	case CategoryConstraint:
		return "constraint"
	case CategoryConnection:
		return "connection"
	case CategoryTransient:
		return "transient"
	case CategoryData:
		return "data"
	}
	return "unknown"
}

// TranslateError converts GORM/database-specific errors into the package sentinels.
// The returned error wraps both the sentinel and the original error, so
// errors.Is matches the sentinel while the driver message is preserved.
// Errors that match no known type are returned unchanged.
func (p *Postgres) TranslateError(err error) error {
	return TranslateError(err)
}

// TranslateError is the package-level form of (*Postgres).TranslateError.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	sentinel := classify(err)
	if sentinel == nil {
		return err
	}
	if errors.Is(err, sentinel) {
		return err
	}
	return &translatedError{sentinel: sentinel, cause: err}
}

func classify(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return ErrCheckViolation
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrTimeout
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return ErrDuplicateKey
		case pgErr.Code == codeForeignKeyViolation:
			return ErrForeignKey
		case pgErr.Code == codeCheckViolation, pgErr.Code == codeNotNullViolation:
			return ErrCheckViolation
		case pgErr.Code == codeSerializationFailure, pgErr.Code == codeDeadlockDetected:
			return ErrSerialization
		case pgErr.Code == codeQueryCanceled:
			return ErrTimeout
		case pgErr.Code == codeTooManyConnections, strings.HasPrefix(pgErr.Code, classConnectionException):
			return ErrConnection
		case strings.HasPrefix(pgErr.Code, classDataException):
			return ErrInvalidData
		}
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return ErrConnection
	}

	return nil
}

type translatedError struct {
	sentinel error
	cause    error
}

func (e *translatedError) Error() string {
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *translatedError) Unwrap() []error {
	return []error{e.sentinel, e.cause}
}

// GetErrorCategory returns the category of the given error.
func (p *Postgres) GetErrorCategory(err error) ErrorCategory {
	translated := TranslateError(err)
	switch {
	case translated == nil:
		return CategoryUnknown
	case errors.Is(translated, ErrRecordNotFound):
		return CategoryNotFound
	case errors.Is(translated, ErrDuplicateKey),
		errors.Is(translated, ErrForeignKey),
		errors.Is(translated, ErrCheckViolation):
		return CategoryConstraint
	case errors.Is(translated, ErrConnection):
		return CategoryConnection
	case errors.Is(translated, ErrSerialization), errors.Is(translated, ErrTimeout):
		return CategoryTransient
	case errors.Is(translated, ErrInvalidData):
		return CategoryData
	}
	return CategoryUnknown
}

// IsRetryable reports whether repeating the operation may succeed.
// The service itself never retries; the flag only annotates error logs.
func (p *Postgres) IsRetryable(err error) bool {
	switch p.GetErrorCategory(err) {
	case CategoryConnection, CategoryTransient:
		return true
	}
	return false
}
