package pkg

import (
	"fmt"
	"slices"
	"strings"
)

// Error is a chain of errors ordered from the innermost cause to the
// outermost context. It matches each of its members with [errors.Is] and
// [errors.As].
type Error []error

// Failures of the command line layer. Each is wrapped with the underlying
// cause and, where known, the file involved.
var (
	ErrReadSource   = MakeErrorf("cannot read source")
	ErrDecodeSource = MakeErrorf("cannot decode source")
	ErrPreprocess   = MakeErrorf("preprocessing failed")
	ErrDataFile     = MakeErrorf("invalid data file")
	ErrWriteOutput  = MakeErrorf("cannot write output")
	ErrConfigFile   = MakeErrorf("invalid configuration file")
	ErrWriteConfig  = MakeErrorf("cannot write configuration file")
	ErrConfigExists = MakeErrorf("file exists (use --force to overwrite)")
)

// MakeError flattens errs into a chain. Nil errors are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf returns a chain holding a single formatted error.
func MakeErrorf(format string, args ...any) Error {
	return Error{fmt.Errorf(format, args...)}
}

// Error joins the members outermost first: "cannot read source: a.edl: no
// such file or directory".
func (e Error) Error() string {
	parts := make([]string, 0, len(e))
	for i := len(e) - 1; i >= 0; i-- {
		parts = append(parts, e[i].Error())
	}

	return strings.Join(parts, ": ")
}

// Wrap returns a chain with the causes errs placed inside e.
func (e Error) Wrap(errs ...error) Error {
	out := MakeError(errs...)

	return append(out, e...)
}

// Wrapf returns a chain with a formatted cause placed inside e.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Unwrap returns the members of the chain.
func (e Error) Unwrap() []error { return e }

// Is reports whether every member of the chain target is also a member of e,
// so that a wrapped sentinel still matches it.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 {
		return false
	}

	for _, want := range t {
		if !slices.ContainsFunc(e, func(err error) bool { return err == want }) {
			return false
		}
	}

	return true
}

// UnwrapErrors flattens the tree of errors wrapped by err, innermost first.
// Errors wrapping a single cause are kept whole.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	if chain, ok := err.(Error); ok {
		return chain
	}

	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out Error
		for _, inner := range multi.Unwrap() {
			out = append(out, UnwrapErrors(inner)...)
		}

		return out
	}

	return Error{err}
}
