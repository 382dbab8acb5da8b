package common

import (
	"errors"
	"net/http"
)

// ErrorKind classifies failures surfaced to API callers.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindNotFound
	KindStorage
	KindRouteNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage_fault"
	case KindRouteNotFound:
		return "route_not_found"
	}
	return "unknown"
}

// Error carries a kind, the message shown to the caller and an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func RouteNotFound() *Error {
	return &Error{Kind: KindRouteNotFound, Message: "API route not found"}
}

// StorageFault wraps a storage error. The cause is part of the public message.
func StorageFault(err error) *Error {
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}

// KindOf returns the kind of err, or zero if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// PublicMessage returns the message safe to show to the caller.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// StatusCode maps err to an HTTP status.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound, KindRouteNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
