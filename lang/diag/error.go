// Package diag defines the fatal error taxonomy of the compiler front end and
// elaboration engine, and the source trace attached to each error.
package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Kind classifies an [Error].
type Kind uint8

const (
	KindSyntax    Kind = iota + 1 // syntax
	KindRuntime                   // runtime
	KindType                      // type
	KindParameter                 // parameter
	KindDirective                 // directive
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindRuntime:
		return "runtime"
	case KindType:
		return "type"
	case KindParameter:
		return "parameter"
	case KindDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Sentinel errors, one per [Kind]. Any [Error] matches the sentinel of its
// kind with [errors.Is].
var (
	ErrSyntax    = &Error{kind: KindSyntax, sentinel: true}
	ErrRuntime   = &Error{kind: KindRuntime, sentinel: true}
	ErrType      = &Error{kind: KindType, sentinel: true}
	ErrParameter = &Error{kind: KindParameter, sentinel: true}
	ErrDirective = &Error{kind: KindDirective, sentinel: true}
)

// Error is a fatal diagnostic with optional source trace and structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	err      error
	trace    *Trace
	msg      string
	attrs    []slog.Attr
	kind     Kind
	sentinel bool
}

// New creates an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Syntaxf creates a syntax error.
func Syntaxf(format string, args ...any) *Error {
	return New(KindSyntax, format, args...)
}

// Runtimef creates a runtime error.
func Runtimef(format string, args ...any) *Error {
	return New(KindRuntime, format, args...)
}

// Typef creates a type error.
func Typef(format string, args ...any) *Error {
	return New(KindType, format, args...)
}

// Parameterf creates a parameter error.
func Parameterf(format string, args ...any) *Error {
	return New(KindParameter, format, args...)
}

// Directivef creates a directive error.
func Directivef(format string, args ...any) *Error {
	return New(KindDirective, format, args...)
}

// As returns err as an *Error if one is found in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// Kind returns the error classification.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the error message without kind prefix, cause or trace.
func (e *Error) Message() string { return e.msg }

// Trace returns the source trace, or nil if none was attached.
func (e *Error) Trace() *Trace { return e.trace }

// Attrs returns the structured attributes attached with [Error.With].
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// Error implements the error interface.
//
// The first line reads "<kind> error: <msg>: <cause>"; when a trace is
// attached, the offending source line and caret marker follow.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(e.kind.String())
	sb.WriteString(" error")

	if e.msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.msg)
	}

	if e.err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.err.Error())
	}

	if e.trace != nil {
		sb.WriteString(" (")
		sb.WriteString(e.trace.Position())
		sb.WriteString(")\n")
		sb.WriteString(e.trace.String())
	}

	return sb.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.sentinel && t.kind == e.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)
	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.trace != nil {
		attrs = append(attrs,
			slog.Int("line", e.trace.Line),
			slog.Int("column", e.trace.Column),
		)
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithTrace returns a copy of e carrying t. An existing trace is kept.
func (e *Error) WithTrace(t Trace) *Error {
	if e.trace != nil {
		return e
	}

	c := e.clone()
	c.trace = &t

	return c
}

func (e *Error) clone() *Error {
	c := *e
	c.sentinel = false

	return &c
}
