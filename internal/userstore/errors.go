package userstore

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an operational error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicate
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDuplicate:
		return "duplicate"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// StatusCode maps the kind to its HTTP status.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Sentinels for errors.Is checks.
var (
	ErrValidation = errors.New("userstore: validation failed")
	ErrNotFound   = errors.New("userstore: record not found")
	ErrDuplicate  = errors.New("userstore: duplicate record")
	ErrStorage    = errors.New("userstore: storage failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindDuplicate:
		return ErrDuplicate
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

// Error is an expected, user-facing failure. Message is safe to show to
// callers; Context and Cause are diagnostic only.
type Error struct {
	Kind    Kind
	Message string
	Context map[string]any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// StatusCode returns the HTTP status for the error kind.
func (e *Error) StatusCode() int { return e.Kind.StatusCode() }

func NewValidationError(message string, context map[string]any) *Error {
	return &Error{Kind: KindValidation, Message: message, Context: context}
}

func NewNotFoundError(resource string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s with ID %d not found", resource, id),
		Context: map[string]any{"resource": resource, "id": id},
	}
}

func NewDuplicateError(resource, field string, value any) *Error {
	return &Error{
		Kind:    KindDuplicate,
		Message: fmt.Sprintf("%s with %s '%v' already exists", resource, field, value),
		Context: map[string]any{"resource": resource, "field": field, "value": value},
	}
}

func NewStorageError(message string, cause error) *Error {
	return &Error{Kind: KindStorage, Message: message, Cause: cause}
}

// AsError extracts an *Error from the chain.
func AsError(err error) (*Error, bool) {
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return storeErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status for any error; unknown errors map to 500.
func StatusCode(err error) int {
	if storeErr, ok := AsError(err); ok {
		return storeErr.StatusCode()
	}
	return http.StatusInternalServerError
}
