package apperror

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/lib/pq"
)

// Kind classifies application errors so transport code can map them to HTTP
// statuses without inspecting messages.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUpload
	KindAuth
	KindForbidden
)

// Error is the error type carried across module boundaries.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NotFound reports an absent resource, e.g. "Tenant not found".
func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

// Validation reports malformed or missing input.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Upload wraps a blob-store put failure with the document slot that failed.
func Upload(slot string, cause error) *Error {
	return &Error{Kind: KindUpload, Message: "failed to upload " + slot, Err: cause}
}

// Auth reports missing or invalid credentials.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Forbidden reports an authorization failure, e.g. cross-tenant access.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Internal wraps an unexpected error.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// IsNotFound reports whether err is a NotFound application error.
func IsNotFound(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == KindNotFound
}

const uniqueViolation = pq.ErrorCode("23505")

// IsDuplicateKey reports whether err is a Postgres unique constraint violation.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// Normalize converts driver-level errors into application errors. Duplicate-key
// conditions collapse into a single Conflict message regardless of which field
// collided, and missing rows become NotFound.
func Normalize(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	if IsDuplicateKey(err) {
		return Conflict(resource + " already exists")
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(resource)
	}
	return err
}

// Status maps an error to an HTTP status code.
func Status(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-visible message for an error. Unclassified errors
// are masked to avoid leaking internals.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Something went wrong"
}
