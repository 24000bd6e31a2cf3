// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// Kind is the machine-readable error category carried on every domain error.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInvalidQuantity   Kind = "invalid_quantity"
	KindValidation        Kind = "validation_error"
	KindConflict          Kind = "conflict"
	KindInternal          Kind = "internal"
)

// Error is the canonical domain error: a kind plus a human-readable message.
// It doubles as the JSON envelope for 4xx/5xx responses.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

func New(msg string) *Error { return &Error{Kind: KindInternal, Detail: msg} }

func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Detail: msg} }

func InsufficientStock(msg string) *Error { return &Error{Kind: KindInsufficientStock, Detail: msg} }

func InvalidQuantity(msg string) *Error { return &Error{Kind: KindInvalidQuantity, Detail: msg} }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Detail: msg} }

func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Detail: msg} }

// KindOf extracts the Kind from any error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Status maps an error kind to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientStock, KindConflict:
		return http.StatusConflict
	case KindInvalidQuantity:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ValidationFields wraps multiple field errors for 422 responses.
type ValidationFields struct {
	Kind   Kind              `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidationFields(fields map[string]string) *ValidationFields {
	return &ValidationFields{Kind: KindValidation, Detail: "validation failed", Fields: fields}
}
