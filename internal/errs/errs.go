// Package errs defines the error taxonomy shared by every component of the
// algebraic core: FormatError, DomainError, ArithmeticError, IOError and a
// FatalError used for internal contract violations that are not expected to
// be caught by callers.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags which family an error belongs to.
type Kind string

const (
	// Format errors: user-supplied data violates a parse/interval/residue
	// invariant (malformed ByteTree, wrong length, non-canonical
	// representative, integer out of interval, quadratic non-residue,
	// unknown encoding, group does not contain element).
	Format Kind = "FormatError"

	// Domain errors: two operands belong to incompatible algebraic
	// structures (different group, ring vs group mismatch, wrong product
	// shape). Never retried.
	Domain Kind = "DomainError"

	// Arithmetic errors: non-invertible element in modInv, encoding
	// exhausted its attempt budget.
	Arithmetic Kind = "ArithmeticError"

	// IO errors: temp-file creation, rename or short read failed.
	IO Kind = "IOError"

	// Fatal errors: internal contract violations ("unreachable" branches,
	// mismatched array lengths, re-setting an expected byte length).
	// Callers are not expected to recover from these.
	Fatal Kind = "FatalError"
)

// Error carries a Kind plus structured context, mirroring the
// type+message+location shape the runtime's own error type used, but with a
// field/index context pair instead of a source location.
type Error struct {
	Kind    Kind
	Field   string // which field/operand failed, e.g. "exponent", "modulus"
	Index   int    // -1 when not applicable
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		if e.Index >= 0 {
			return fmt.Sprintf("%s: %s (field=%s index=%d)", e.Kind, e.Message, e.Field, e.Index)
		}
		return fmt.Sprintf("%s: %s (field=%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with no field context.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Index: -1, Message: message, cause: errors.New(message)}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

// WithField attaches the operand/field name that failed.
func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

// WithIndex attaches the array index that failed.
func (e *Error) WithIndex(i int) *Error {
	e.Index = i
	return e
}

// Wrap stack-wraps an underlying error into one of the taxonomy kinds,
// preserving the original as the cause (pkg/errors carries the stack).
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Index: -1, Message: message, cause: errors.Wrap(cause, message)}
}

// Is reports whether err is a taxonomy Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Fatalf panics with a FatalError. Used at "unreachable" branches and
// internal contract violations that are programming faults, not data
// errors: callers are not expected to recover from these, matching §7's
// policy that fatal errors terminate the operation with a distinguishable
// kind rather than propagate as a recoverable error.
func Fatalf(format string, args ...interface{}) {
	panic(Newf(Fatal, format, args...))
}
