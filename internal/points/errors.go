package points

import (
	"errors"
	"fmt"
)

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, one per Kind. Any *Error matches the sentinel of its Kind via errors.Is.
var (
	// ErrNetwork indicates the request could not be sent, timed out, or returned a non-2xx status.
	ErrNetwork = constError("network error")

	// ErrDecode indicates a response body that is not JSON or lacks required fields.
	ErrDecode = constError("decode error")

	// ErrIO indicates the output file or the configuration file could not be used.
	ErrIO = constError("i/o error")

	// ErrConfig indicates malformed or invalid configuration content.
	ErrConfig = constError("config parse error")

	// ErrEmptyPage indicates a page with no users although the query declared records.
	ErrEmptyPage = constError("empty page")
)

// Kind classifies a failure. The set is closed.
type Kind int

// Error kinds.
const (
	KindNetwork Kind = iota + 1
	KindDecode
	KindIO
	KindConfig
	KindEmptyPage
)

func (k Kind) sentinel() error {
	switch k {
	case KindNetwork:
		return ErrNetwork
	case KindDecode:
		return ErrDecode
	case KindIO:
		return ErrIO
	case KindConfig:
		return ErrConfig
	case KindEmptyPage:
		return ErrEmptyPage
	default:
		return nil
	}
}

// String returns the kind's short name.
func (k Kind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failure from one stage of an export. Op names the stage, e.g. "fetch page offset=1000".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// NewError wraps err as a failure of kind during op.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the Kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
