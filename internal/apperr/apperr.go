// Package apperr defines the error taxonomy of the booking domain. Services
// return these typed errors and the HTTP layer maps them to status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the category of an error.
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation: a payload violates a required or closed-set field.
	KindValidation
	// KindNotFound: the referenced lead, contact or slot does not exist.
	KindNotFound
	// KindSlotNotAvailable: the slot is blocked or already booked. Retryable
	// after re-querying availability.
	KindSlotNotAvailable
	// KindSlotBooked: the slot is linked to a lead and cannot be blocked or deleted.
	KindSlotBooked
	// KindDuplicateSlot: a slot already exists for the same date and time.
	KindDuplicateSlot
	// KindInvalidTransition: the lead status change is not allowed.
	KindInvalidTransition
	KindUnauthorized
)

var kindNames = map[Kind]string{
	KindInternal:          "Internal",
	KindValidation:        "ValidationError",
	KindNotFound:          "NotFound",
	KindSlotNotAvailable:  "SlotNotAvailable",
	KindSlotBooked:        "SlotBooked",
	KindDuplicateSlot:     "DuplicateSlot",
	KindInvalidTransition: "InvalidTransition",
	KindUnauthorized:      "Unauthorized",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "Unknown"
}

// FieldError names an offending payload field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error. Message is safe to show to end users; Err is only
// for operator logs.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether the caller may retry after refreshing its view.
func (e *Error) Retryable() bool { return e.Kind == KindSlotNotAvailable }

// HTTPStatus maps the kind to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindSlotNotAvailable, KindSlotBooked, KindDuplicateSlot, KindInvalidTransition:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "invalid request", Fields: fields}
}

func NotFound(message string) *Error { return New(KindNotFound, message) }

func SlotNotAvailable() *Error {
	return New(KindSlotNotAvailable, "the requested slot is no longer available, please pick another one")
}

func SlotBooked() *Error {
	return New(KindSlotBooked, "the slot is booked; cancel the consultation first")
}

func DuplicateSlot() *Error {
	return New(KindDuplicateSlot, "a slot already exists for this date and time")
}

func Internal(err error) *Error {
	return Wrap(KindInternal, "internal server error", err)
}

// KindOf extracts the kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
