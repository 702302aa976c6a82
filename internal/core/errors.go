package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies request-level failures. Each kind maps to one HTTP status.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidSource
	KindNotFound
	KindInvalidFormat
	KindFetch
	KindCorruptDocument
	KindModelCall
	KindDeadline
)

func (k Kind) String() string {
	switch k {
	case KindInvalidSource:
		return "invalid source"
	case KindNotFound:
		return "not found"
	case KindInvalidFormat:
		return "invalid format"
	case KindFetch:
		return "fetch failed"
	case KindCorruptDocument:
		return "corrupt document"
	case KindModelCall:
		return "model call failed"
	case KindDeadline:
		return "deadline exceeded"
	default:
		return "internal error"
	}
}

// HTTPStatus returns the response status used for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidSource, KindInvalidFormat:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindCorruptDocument:
		return http.StatusUnprocessableEntity
	case KindFetch, KindModelCall:
		return http.StatusBadGateway
	case KindDeadline:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed error surfaced at the request boundary.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works on wrapped values.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == ""
}

var (
	ErrInvalidSource   = &Error{Kind: KindInvalidSource}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrInvalidFormat   = &Error{Kind: KindInvalidFormat}
	ErrFetch           = &Error{Kind: KindFetch}
	ErrCorruptDocument = &Error{Kind: KindCorruptDocument}
	ErrModelCall       = &Error{Kind: KindModelCall}

	// ErrAllChunksFailed is returned when no chunk produced a summary.
	ErrAllChunksFailed = &Error{Kind: KindModelCall, Msg: "all chunks failed to summarize"}
)

func InvalidSourceError(msg string, err error) error {
	return &Error{Kind: KindInvalidSource, Msg: msg, Err: err}
}

func NotFoundError(msg string, err error) error {
	return &Error{Kind: KindNotFound, Msg: msg, Err: err}
}

func InvalidFormatError(msg string, err error) error {
	return &Error{Kind: KindInvalidFormat, Msg: msg, Err: err}
}

func FetchError(msg string, err error) error {
	return &Error{Kind: KindFetch, Msg: msg, Err: err}
}

func CorruptDocumentError(msg string, err error) error {
	return &Error{Kind: KindCorruptDocument, Msg: msg, Err: err}
}

func ModelCallError(msg string, err error) error {
	return &Error{Kind: KindModelCall, Msg: msg, Err: err}
}

func DeadlineError(msg string, err error) error {
	return &Error{Kind: KindDeadline, Msg: msg, Err: err}
}

// KindOf extracts the kind of err. Context deadline errors map to KindDeadline.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindDeadline
	}
	return KindUnknown
}
