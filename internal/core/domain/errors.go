package domain

import (
	"errors"
	"net/http"
)

// Kind classifies a failure for the HTTP layer.
type Kind string

const (
	KindValidation     Kind = "validation"
	KindNotFound       Kind = "not_found"
	KindAuthentication Kind = "authentication"
	KindAuthorization  Kind = "authorization"
	KindCreation       Kind = "creation"
	KindRead           Kind = "read"
	KindUpdate         Kind = "update"
	KindDeletion       Kind = "deletion"
	KindBoundingBox    Kind = "bounding_box"
)

var kindStatus = map[Kind]int{
	KindValidation:     http.StatusBadRequest,
	KindNotFound:       http.StatusNotFound,
	KindAuthentication: http.StatusUnauthorized,
	KindAuthorization:  http.StatusForbidden,
	KindCreation:       http.StatusInternalServerError,
	KindRead:           http.StatusInternalServerError,
	KindUpdate:         http.StatusInternalServerError,
	KindDeletion:       http.StatusInternalServerError,
	KindBoundingBox:    http.StatusInternalServerError,
}

// ErrForbidden is the cause carried by every authorization failure.
var ErrForbidden = errors.New("access forbidden")

// Error is a classified failure. Message is safe to show to clients; Err is
// the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError wraps cause (which may be nil) under kind with a client-facing message.
func NewError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var de *Error
	return errors.As(err, &de) && de.Kind == kind
}

func ValidationError(message string) *Error {
	return NewError(KindValidation, message, nil)
}

func NotFoundError(message string, cause error) *Error {
	return NewError(KindNotFound, message, cause)
}

func AuthorizationError(message string) *Error {
	return NewError(KindAuthorization, message, ErrForbidden)
}
