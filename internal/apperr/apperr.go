// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP responder. Every failure the API can report is an *Error with one
// of five kinds; anything else that reaches the responder is treated as
// INTERNAL.
//
// Kinds and their HTTP status:
//
//	INVALID_INPUT     400  malformed/empty request, bad pagination params
//	VALIDATION_ERROR  422  field or cross-field rule violation
//	CONFLICT          409  email uniqueness (fast path or store constraint)
//	NOT_FOUND         404  referenced id does not exist
//	INTERNAL          500  unexpected failure; cause is logged, never returned
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for the client.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "CONFLICT"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL"
)

// Status maps the kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Priority orders kinds when more than one could apply; lower wins.
func (k Kind) Priority() int {
	switch k {
	case KindInvalidInput:
		return 0
	case KindValidation:
		return 1
	case KindConflict:
		return 2
	case KindNotFound:
		return 3
	default:
		return 4
	}
}

// Recoverable reports whether the client can fix the request and resend.
func (k Kind) Recoverable() bool { return k != KindInternal }

// Details carries structured error context: field → messages for a single
// record, or item index → (field → messages) for a batch.
type Details map[string]any

// Error is a classified application error.
type Error struct {
	Kind    Kind
	Message string
	Details Details
	// Cause is the underlying error. It is logged server-side and never
	// serialized to the client.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Status returns the HTTP status for the error's kind.
func (e *Error) Status() int { return e.Kind.Status() }

// InvalidInput builds an INVALID_INPUT error.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// Validation builds a VALIDATION_ERROR carrying per-field (or per-item) details.
func Validation(msg string, details Details) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Conflict builds a CONFLICT error; details may be nil.
func Conflict(msg string, details Details) *Error {
	return &Error{Kind: KindConflict, Message: msg, Details: details}
}

// NotFound builds a NOT_FOUND error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal builds an INTERNAL error wrapping cause. msg is the generic,
// client-safe message.
func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Cause: cause}
}

// From classifies any error. *Error values (possibly wrapped) are returned
// as is; everything else becomes INTERNAL with a generic message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(MsgInternal, err)
}

// MsgInternal is the generic message returned for INTERNAL errors.
const MsgInternal = "Ocurrió un error interno en el servidor. Por favor, intente más tarde."

// Pick returns the highest-priority error among errs (nil entries ignored).
func Pick(errs ...*Error) *Error {
	var best *Error
	for _, e := range errs {
		if e == nil {
			continue
		}
		if best == nil || e.Kind.Priority() < best.Kind.Priority() {
			best = e
		}
	}
	return best
}
