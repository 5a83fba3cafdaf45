package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure kinds a repository or service call may return.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindDatabase
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindDatabase:
		return "DATABASE_ERROR"
	case KindValidation:
		return "VALIDATION_FAILED"
	default:
		return "UNKNOWN"
	}
}

// Error standardizes application failures. Only the payload field matching
// Kind is populated: ID for NotFound, Err for Database, Violations for Validation.
type Error struct {
	Kind       Kind
	Message    string
	ID         string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the failure kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewNotFound reports that no user exists with the given identifier.
func NewNotFound(id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("user %q not found", id),
		ID:      id,
	}
}

// NewDatabase wraps a storage failure. cause may be nil.
func NewDatabase(message string, cause error) *Error {
	return &Error{Kind: KindDatabase, Message: message, Err: cause}
}

// NewValidation reports rejected caller input. Violations keep their order.
func NewValidation(message string, violations ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Violations: violations}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
