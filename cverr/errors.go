// Package cverr defines the error kinds from spec.md §7 and the
// propagation policy around them: handlers return a *Error, and the
// session dispatcher decides whether it becomes an ERROR_DATA response,
// a silent drop, or a connection close.
package cverr

import "fmt"

// Kind is one of the error categories from spec.md §7.
type Kind int

const (
	// InvalidRequest: malformed payload, unknown event, fields out of range.
	InvalidRequest Kind = iota
	// NotFound: fileId or regionId unknown.
	NotFound
	// PermissionDenied: the external policy object rejected a path.
	PermissionDenied
	// IoError: underlying image storage failure; the Frame stays open for retry.
	IoError
	// FormatError: image unreadable at open due to corrupt metadata.
	FormatError
	// DimensionError: image ndims not in {2,3,4}.
	DimensionError
	// CodecError: compression failed; no partial raster is emitted.
	CodecError
	// Cancelled: task superseded or session torn down. Never surfaced to the client.
	Cancelled
	// Fatal: an invariant was violated; the session must be terminated.
	Fatal
)

func (k Kind) String() string {
	switch k {
	case InvalidRequest:
		return "InvalidRequest"
	case NotFound:
		return "NotFound"
	case PermissionDenied:
		return "PermissionDenied"
	case IoError:
		return "IoError"
	case FormatError:
		return "FormatError"
	case DimensionError:
		return "DimensionError"
	case CodecError:
		return "CodecError"
	case Cancelled:
		return "Cancelled"
	case Fatal:
		return "Fatal"
	default:
		return "Unknown"
	}
}

// Error is the error type every core operation returns. Tag carries the
// wire event name the error is in response to, for ERROR_DATA.tags.
type Error struct {
	Kind Kind
	Tag  string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Tag, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Tag, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause.
func New(kind Kind, tag, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Tag: tag, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around an existing error.
func Wrap(kind Kind, tag string, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Tag: tag, Msg: fmt.Sprintf(format, args...), Err: err}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
