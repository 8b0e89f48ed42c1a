package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error. Controllers map kinds to HTTP status
// codes, services only decide which kind applies.
type Kind string

const (
	KindAuth             Kind = "unauthorized"
	KindNotFound         Kind = "not_found"
	KindValidation       Kind = "validation_error"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindInvalidArgument  Kind = "invalid_argument"
	KindInvalidSignature Kind = "invalid_signature"
	KindConflict         Kind = "conflict"
	KindUpstream         Kind = "upstream_failure"
	KindInternal         Kind = "internal_server_error"
)

// Error is the tagged error returned by services.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind. The code defaults to the kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message}
}

// Wrap creates an error of the given kind that keeps the cause for logging.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Code: string(kind), Message: message, Err: err}
}

// WithCode overrides the machine readable code rendered to clients.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetail attaches an extra field rendered next to code and message.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidArgument, KindInvalidSignature:
		return http.StatusBadRequest
	case KindQuotaExceeded:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a client may retry the same request unchanged.
func Retryable(kind Kind) bool {
	return kind == KindUpstream
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindAuth, message)
}

func InvalidArgument(message string) *Error {
	return New(KindInvalidArgument, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, message).WithCode(code)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}
