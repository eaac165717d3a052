package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInsufficientInventory
	KindMalformedCredential
	KindExpiredCredential
	KindUnauthorized
	KindBusy
	KindValidation
	KindBadRequest
	KindConflict
)

// MsgInsufficientInventory is reported when an order asks for more than remains
const MsgInsufficientInventory = "order quantity exceeds the remaining quantity of the option"

var kindNames = map[Kind]string{
	KindInternal:              "internal",
	KindNotFound:              "not_found",
	KindInsufficientInventory: "insufficient_inventory",
	KindMalformedCredential:   "malformed_credential",
	KindExpiredCredential:     "expired_credential",
	KindUnauthorized:          "unauthorized",
	KindBusy:                  "busy",
	KindValidation:            "validation",
	KindBadRequest:            "bad_request",
	KindConflict:              "conflict",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the single error type crossing service boundaries
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, apperror.Busy("")) works
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus returns the status code for the error kind
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientInventory, KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindMalformedCredential, KindExpiredCredential, KindUnauthorized:
		return http.StatusUnauthorized
	case KindBusy:
		return http.StatusServiceUnavailable
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return newError(KindNotFound, message, nil)
}

func InsufficientInventory() *Error {
	return newError(KindInsufficientInventory, MsgInsufficientInventory, nil)
}

func MalformedCredential(message string) *Error {
	return newError(KindMalformedCredential, message, nil)
}

func ExpiredCredential(message string) *Error {
	return newError(KindExpiredCredential, message, nil)
}

func Unauthorized(message string) *Error {
	return newError(KindUnauthorized, message, nil)
}

// Busy signals a retryable lock wait or cancellation
func Busy(message string, err error) *Error {
	return newError(KindBusy, message, err)
}

func Validation(message string) *Error {
	return newError(KindValidation, message, nil)
}

func BadRequest(message string) *Error {
	return newError(KindBadRequest, message, nil)
}

func Conflict(message string) *Error {
	return newError(KindConflict, message, nil)
}

// Internal wraps an unexpected failure. The message is passed through to the caller.
func Internal(message string, err error) *Error {
	return newError(KindInternal, message, err)
}

// KindOf returns the kind of err, or KindInternal when err is not an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
