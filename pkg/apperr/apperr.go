package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups error codes by how a caller may react to them.
type Kind string

const (
	KindValidation   Kind = "ValidationError"
	KindConflict     Kind = "ConflictError"
	KindNotFound     Kind = "NotFoundError"
	KindPersistence  Kind = "PersistenceError"
	KindInconsistent Kind = "InconsistentStateError"
	KindUnauthorized Kind = "UnauthorizedError"
)

// Error codes surfaced to API clients.
const (
	CodeEmptyCart           = "EmptyCart"
	CodeInvalidQuantity     = "InvalidQuantity"
	CodeInvalidPayment      = "InvalidPayment"
	CodeInvalidInput        = "InvalidInput"
	CodeInsufficientPayment = "InsufficientPayment"
	CodeInsufficientStock   = "InsufficientStock"
	CodeProductUnavailable  = "ProductUnavailable"
	CodeNotArchived         = "NotArchived"
	CodeCheckoutInProgress  = "CheckoutInProgress"
	CodeNotFound            = "NotFound"
	CodePersistence         = "PersistenceError"
	CodeInconsistent        = "Inconsistent"
	CodeUnauthorized        = "Unauthorized"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Meta    map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by code, so sentinel-style comparisons work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With returns a copy of e carrying an extra metadata entry.
func (e *Error) With(key string, value any) *Error {
	cp := *e
	cp.Meta = make(map[string]any, len(e.Meta)+1)
	for k, v := range e.Meta {
		cp.Meta[k] = v
	}
	cp.Meta[key] = value
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code string, err error, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, format string, args ...any) *Error {
	return New(KindValidation, code, fmt.Sprintf(format, args...))
}

func Conflict(code, format string, args ...any) *Error {
	return New(KindConflict, code, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, CodeNotFound, fmt.Sprintf(format, args...))
}

func Persistence(err error, message string) *Error {
	return Wrap(KindPersistence, CodePersistence, err, message)
}

// As extracts the *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err; unknown errors count as persistence failures.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindPersistence
}

// HTTPStatus maps an error to the status code the API answers with.
func HTTPStatus(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case CodeEmptyCart, CodeInvalidQuantity, CodeInvalidPayment, CodeInvalidInput, CodeInsufficientPayment:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInsufficientStock, CodeProductUnavailable, CodeNotArchived, CodeCheckoutInProgress:
		return http.StatusConflict
	case CodeUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// Internal reports whether details of err must be hidden from end users.
func Internal(err error) bool {
	k := KindOf(err)
	return k == KindPersistence || k == KindInconsistent
}
