// Package errs classifies the fatal errors of a profiling run.
//
// Every error that reaches the command line carries a Kind. The kind decides
// the process exit code and the "kind" field of the JSON error document.
// Errors that are recovered locally (a single block failing to load, a
// transaction without price data) never become an *Error; they are logged and
// reported as notes instead.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is the class of a fatal error.
type Kind string

const (
	// KindConfig covers bad flags, env values or profile files. Raised before
	// any network call.
	KindConfig Kind = "config"
	// KindConnectivity covers an endpoint that cannot be reached or answered
	// the initial chain id / head calls with an error.
	KindConnectivity Kind = "connectivity"
	// KindNoData means every visited block failed or no usable fee sample
	// survived filtering.
	KindNoData Kind = "no_data"
	// KindInternal is anything else.
	KindInternal Kind = "internal"
)

// Exit codes per kind.
const (
	ExitOK           = 0
	ExitInternal     = 1
	ExitConfig       = 2
	ExitConnectivity = 3
	ExitNoData       = 4
)

// Error is a classified error.
type Error struct {
	Kind Kind   // error class
	Op   string // operation that failed, e.g. "sample", "connect"
	Err  error  // underlying cause
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Op
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Cause lets errors.Cause from pkg/errors walk through an *Error.
func (e *Error) Cause() error { return e.Err }

// New creates a classified error with a formatted message.
func New(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Wrapf classifies err and prefixes it with a message.
func Wrapf(kind Kind, op string, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithMessagef(err, format, args...)}
}

// KindOf reports the kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindConfig:
		return ExitConfig
	case KindConnectivity:
		return ExitConnectivity
	case KindNoData:
		return ExitNoData
	default:
		return ExitInternal
	}
}
