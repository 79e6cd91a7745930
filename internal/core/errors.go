package core

import (
	"errors"
	"fmt"
)

// Kind classifies conversion errors by the user action that can recover from them.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnsupportedFormat
	KindRead
	KindPreview
	KindExport
	KindFormat
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedFormat:
		return "unsupported format"
	case KindRead:
		return "read error"
	case KindPreview:
		return "preview error"
	case KindExport:
		return "export error"
	case KindFormat:
		return "format error"
	case KindNotFound:
		return "session not found"
	default:
		return "unknown error"
	}
}

// Sentinel errors matched with errors.Is against a *Error of the same kind.
var (
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrRead              = &Error{Kind: KindRead}
	ErrPreview           = &Error{Kind: KindPreview}
	ErrExport            = &Error{Kind: KindExport}
	ErrFormat            = &Error{Kind: KindFormat}
	ErrSessionNotFound   = &Error{Kind: KindNotFound}
)

// Error is the error type returned by every conversion operation.
type Error struct {
	Kind Kind
	Op   string // "upload", "sheets", "preview", "export"
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports kind equality. A format error is also an export error, since it
// is raised while serializing.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind == e.Kind {
		return true
	}
	return t.Kind == KindExport && e.Kind == KindFormat
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}
