// Package errs is the single error taxonomy for the whole core, grounded on
// sentra/internal/errors (SourceLocation, caret rendering) and
// original_source/src/error_type.h (the enumerated error kinds).
package errs

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind enumerates every error the core can raise, per spec.md §7.
type Kind string

const (
	// parse
	EmptyInput            Kind = "EmptyInput"
	IllegalChar           Kind = "IllegalChar"
	InvalidVarName        Kind = "InvalidVarName"
	UnmatchedParenthesis  Kind = "UnmatchedParenthesis"
	WrongExpression       Kind = "WrongExpression"
	MultiParseErrorKind   Kind = "MultiParseError"

	// symbolic
	UndefinedVariable Kind = "UndefinedVariable"
	VariablePresent   Kind = "VariablePresent"
	SubsCountMismatch Kind = "SubsCountMismatch"
	NonDifferentiable Kind = "NonDifferentiable"

	// numeric
	InvalidNumber          Kind = "InvalidNumber"
	OutOfDomain            Kind = "OutOfDomain"
	SingularMatrix         Kind = "SingularMatrix"
	IndeterminateEquation  Kind = "IndeterminateEquation"
	InfiniteSolutions      Kind = "InfiniteSolutions"
	OverDeterminedEquations Kind = "OverDeterminedEquations"
	SizeMismatch           Kind = "SizeMismatch"
	TooManyIterations      Kind = "TooManyIterations"

	// configuration
	InvalidOp Kind = "InvalidOp"
)

// Error is the core's single error type. Every failure path in the core
// returns one of these (directly, or wrapped via github.com/pkg/errors so a
// solver retry can recover the original Kind with errors.As).
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind/message context to cause while preserving it as the
// traceable root, via github.com/pkg/errors. The original cause is reachable
// through Unwrap (so errors.Is/errors.As see it); *Error itself has no Cause
// method, so errors.Cause must be applied to Unwrap's result to reach it.
func Wrap(cause error, kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, cause: errors.Wrap(cause, message)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same Kind, so callers can
// write `errors.Is(err, errs.New(errs.SingularMatrix, ""))`-style checks, or
// more idiomatically compare Kind directly via errors.As.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// SourceSpan locates a single-line offending slice of source text, used by
// parse errors to render the caret diagnostic required by spec.md §7.
type SourceSpan struct {
	Line int
	Col  int
	Len  int
	Text string // full source line
}

// SingleParseError is one parse failure with full positional context,
// rendered with a caret marker exactly as spec.md §7 requires. Grounded on
// original_source/src/parse.cpp's SingleParseError and sentra's
// SentraError.Error() caret rendering.
type SingleParseError struct {
	Span    SourceSpan
	Slice   string
	Message string
}

func (e *SingleParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at line %d, col %d: %q\n", e.Message, e.Span.Line, e.Span.Col, e.Slice)
	if e.Span.Text != "" {
		fmt.Fprintf(&sb, "  %s\n", e.Span.Text)
		col := e.Span.Col
		if col < 0 {
			col = 0
		}
		sb.WriteString("  " + strings.Repeat(" ", col) + "^\n")
	}
	return sb.String()
}

// MultiParseError aggregates leftover/ambiguous parse tokens into a single
// reported error, per spec.md §4.5/§7.
type MultiParseError struct {
	Errors []*SingleParseError
}

func (e *MultiParseError) Error() string {
	var sb strings.Builder
	for _, pe := range e.Errors {
		sb.WriteString(pe.Error())
	}
	return sb.String()
}

func (e *MultiParseError) Kind() Kind { return MultiParseErrorKind }
