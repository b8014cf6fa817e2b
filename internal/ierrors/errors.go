// Package ierrors implements the engine's error taxonomy: a small set
// of structured error kinds, each carrying the CLI exit code its
// caller should surface.
package ierrors

import (
	"fmt"
	"strings"
)

// Kind categorizes an engine error per the taxonomy.
type Kind int

const (
	// InputMissing is fatal and reported before any work begins.
	InputMissing Kind = iota
	// MalformedRecord is per-line and always swallowed by the loader;
	// it is never returned to a caller, only logged.
	MalformedRecord
	// EmptyResult is fatal: filters or pruning removed every edge.
	EmptyResult
	// InvalidStartTime is fatal and carries its own exit code.
	InvalidStartTime
	// ExternalRendererMissing fires when a requested external renderer
	// (graphviz `dot`) is absent and no built-in fallback applies.
	ExternalRendererMissing
	// LayoutInfeasible is never fatal by contract; it exists so tests
	// can assert the invariant "every layout produces some placement".
	LayoutInfeasible
)

func (k Kind) String() string {
	switch k {
	case InputMissing:
		return "InputMissing"
	case MalformedRecord:
		return "MalformedRecord"
	case EmptyResult:
		return "EmptyResult"
	case InvalidStartTime:
		return "InvalidStartTime"
	case ExternalRendererMissing:
		return "ExternalRendererMissing"
	case LayoutInfeasible:
		return "LayoutInfeasible"
	default:
		return "Unknown"
	}
}

// Error is the engine's structured error type.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a diagnostic key/value pair and returns e for chaining.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// DetailedString renders the error with its context map, for CLI
// diagnostics (not used in the JSON/SVG sinks, which never emit errors).
func (e *Error) DetailedString() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Kind, e.Message))
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("caused by: %v\n", e.Cause))
	}
	for k, v := range e.Context {
		sb.WriteString(fmt.Sprintf("  %s: %v\n", k, v))
	}
	return sb.String()
}

// Code returns the process exit code associated with this error's Kind,
// per spec §6: 0 success, 1 missing input / empty result / sink
// failure, 2 malformed start-ts.
func (e *Error) Code() int {
	switch e.Kind {
	case InvalidStartTime:
		return 2
	case MalformedRecord, LayoutInfeasible:
		return 0
	default:
		return 1
	}
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind/message context to an existing error. Returns nil
// if err is nil, so call sites can write `return ierrors.Wrap(err, ...)`
// unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// InputMissingf creates an InputMissing error.
func InputMissingf(format string, args ...interface{}) *Error {
	return Newf(InputMissing, format, args...)
}

// EmptyResultf creates an EmptyResult error.
func EmptyResultf(format string, args ...interface{}) *Error {
	return Newf(EmptyResult, format, args...)
}

// InvalidStartTimef creates an InvalidStartTime error.
func InvalidStartTimef(format string, args ...interface{}) *Error {
	return Newf(InvalidStartTime, format, args...)
}

// ExternalRendererMissingf creates an ExternalRendererMissing error.
func ExternalRendererMissingf(format string, args ...interface{}) *Error {
	return Newf(ExternalRendererMissing, format, args...)
}

// CodeOf returns the exit code for err: 0 if err is nil, 1 if err is
// not an *Error (an unrecognized error is a generic failure),
// otherwise Error.Code().
func CodeOf(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(*Error); ok {
		return e.Code()
	}
	return 1
}
