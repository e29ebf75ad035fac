// Package errors provides the internal error type used across the service.
// Errors carry a machine-readable mark (sentinel), a user-facing hint, and
// optional reportable details that are safe to serialize in API responses.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors used with Mark to classify internal errors.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrPermissionDenied = errors.New("permission_denied")
	ErrHTTPClient       = errors.New("http_client_error")
	ErrDatabase         = errors.New("database_error")
	ErrInternal         = errors.New("internal_error")
)

// InternalError is the concrete error type produced by the builder. The
// underlying cause (if any) and the sentinel mark are reachable through
// Unwrap, so errors.Is works against both.
type InternalError struct {
	message           string
	hint              string
	reportableDetails map[string]interface{}
	err               error
}

func (e *InternalError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *InternalError) Unwrap() error {
	return e.err
}

// Hint returns the user-facing hint attached to the error, if any.
func (e *InternalError) Hint() string {
	return e.hint
}

// ReportableDetails returns details that are safe to expose to API callers.
func (e *InternalError) ReportableDetails() map[string]interface{} {
	return e.reportableDetails
}

// ErrorBuilder accumulates error attributes; Mark finalizes the error.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error with the given message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: message}}
}

// NewErrorf starts building an error with a formatted message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts building an error wrapping an existing cause.
func WithError(err error) *ErrorBuilder {
	message := "internal error"
	if err != nil {
		message = err.Error()
	}
	return &ErrorBuilder{err: &InternalError{message: message, err: err}}
}

// WithHint attaches a user-facing hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted user-facing hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	b.err.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches details safe to serialize in responses.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark classifies the error with a sentinel and finalizes it. After Mark,
// errors.Is(err, sentinel) holds.
func (b *ErrorBuilder) Mark(mark error) error {
	if b.err.err == nil {
		b.err.err = mark
	} else {
		b.err.err = errors.Mark(b.err.err, mark)
	}
	return b.err
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain matching target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}
