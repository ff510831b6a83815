package errors

import (
	"ormlab/internal/errors"
)

// Kind classifies an application error for callers that map errors to exit
// codes or status lines.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalid:
		return "invalid"
	default:
		return "internal"
	}
}

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	Kind() Kind        // Error classification
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	kind      Kind
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, errorCode, message, details string) *BaseError {
	return &BaseError{
		kind:      kind,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches errors with the same business code, so a copy made by
// WithDetails still matches the predefined error.
func (e *BaseError) Is(target error) bool {
	var other *BaseError
	if !errors.As(target, &other) {
		return false
	}

	return other.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// Kind returns the error classification
func (e *BaseError) Kind() Kind {
	return e.kind
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		kind:      e.kind,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// Member-related errors
	ErrMemberNotFound = NewBaseError(
		KindNotFound,
		"MEMBER_NOT_FOUND",
		"member not found",
		"",
	)

	ErrMemberAlreadyExists = NewBaseError(
		KindConflict,
		"MEMBER_ALREADY_EXISTS",
		"a member with this name already exists",
		"",
	)

	ErrTeamNotFound = NewBaseError(
		KindNotFound,
		"TEAM_NOT_FOUND",
		"team not found",
		"",
	)

	// Item-related errors
	ErrItemNotFound = NewBaseError(
		KindNotFound,
		"ITEM_NOT_FOUND",
		"item not found",
		"",
	)

	ErrNotEnoughStock = NewBaseError(
		KindConflict,
		"NOT_ENOUGH_STOCK",
		"need more stock",
		"",
	)

	// Order-related errors
	ErrOrderNotFound = NewBaseError(
		KindNotFound,
		"ORDER_NOT_FOUND",
		"order not found",
		"",
	)

	ErrAlreadyDelivered = NewBaseError(
		KindConflict,
		"ALREADY_DELIVERED",
		"an order that has been delivered cannot be cancelled",
		"",
	)

	ErrAlreadyCancelled = NewBaseError(
		KindConflict,
		"ALREADY_CANCELLED",
		"order is already cancelled",
		"",
	)

	// General errors
	ErrValidationFailed = NewBaseError(
		KindInvalid,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrTransactionFailed = NewBaseError(
		KindInternal,
		"TRANSACTION_FAILED",
		"transaction failed",
		"",
	)

	ErrConflict = NewBaseError(
		KindConflict,
		"CONFLICT",
		"resource conflict",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the store error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// Kind returns the error classification
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database execution failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// KindOf returns the kind of the first AppError in err's chain, or
// KindInternal.
func KindOf(err error) Kind {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}

	return KindInternal
}
