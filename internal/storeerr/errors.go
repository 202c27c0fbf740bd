// Package storeerr defines the error taxonomy shared by the object store and
// the index: the caller-visible kinds named in the error handling design
// (NotFound, Malformed, IntegrityFailure, CodecFailure, IoFailure,
// InvalidInput). Corruption, invalid input, and I/O errors are always
// surfaced — never silently masked or retried internally.
package storeerr

import "errors"

// Kind classifies a Error by taxonomy, independent of its message text, so
// callers can branch with errors.Is against the Err* sentinel errors below.
type Kind int

const (
	NotFound Kind = iota
	Malformed
	IntegrityFailure
	CodecFailure
	IoFailure
	InvalidInput
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case Malformed:
		return "malformed"
	case IntegrityFailure:
		return "integrity failure"
	case CodecFailure:
		return "codec failure"
	case IoFailure:
		return "io failure"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with its taxonomy Kind and, where
// relevant, the identity or path involved.
type Error struct {
	Kind     Kind
	Identity string
	Path     string
	Cause    error
}

func (e *Error) Error() string {
	subject := e.Identity
	if subject == "" {
		subject = e.Path
	}
	if subject == "" {
		if e.Cause != nil {
			return e.Kind.String() + ": " + e.Cause.Error()
		}
		return e.Kind.String()
	}
	if e.Cause != nil {
		return e.Kind.String() + " (" + subject + "): " + e.Cause.Error()
	}
	return e.Kind.String() + " (" + subject + ")"
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, so callers can
// write errors.Is(err, storeerr.New(storeerr.NotFound, "", "", nil)).
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

// New constructs an *Error of the given kind identifying an object or path.
func New(kind Kind, identity, path string, cause error) *Error {
	return &Error{Kind: kind, Identity: identity, Path: path, Cause: cause}
}

// sentinels usable with errors.Is(err, storeerr.ErrNotFound) etc.
var (
	ErrNotFound         = &Error{Kind: NotFound}
	ErrMalformed        = &Error{Kind: Malformed}
	ErrIntegrityFailure = &Error{Kind: IntegrityFailure}
	ErrCodecFailure     = &Error{Kind: CodecFailure}
	ErrIoFailure        = &Error{Kind: IoFailure}
	ErrInvalidInput     = &Error{Kind: InvalidInput}
)
