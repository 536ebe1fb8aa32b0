// Package diag implements the typed diagnostic taxonomy and the
// strict/lenient accumulation policy that every later compiler stage
// shares.
package diag

import (
	"fmt"

	"github.com/aetherlang/aethc/internal/span"
)

// Kind identifies which error-family category a Diagnostic belongs to.
type Kind string

const (
	// Parse errors.
	KindUnexpectedToken  Kind = "unexpected_token"
	KindMissingIdent     Kind = "missing_identifier"
	KindMissingType      Kind = "missing_type"
	KindMissingExpr      Kind = "missing_expression"
	KindMissingPattern   Kind = "missing_pattern"
	KindMissingArraySize Kind = "missing_array_size"
	KindInvalidOperator  Kind = "invalid_operator"

	// Name-resolution errors.
	KindUndefinedVariable Kind = "undefined_variable"
	KindUndefinedType     Kind = "undefined_type"
	KindDuplicateDef      Kind = "duplicate_definition"
	KindUnknownField      Kind = "unknown_field"

	// Type errors.
	KindTypeMismatch     Kind = "type_mismatch"
	KindArgCountMismatch Kind = "arg_count_mismatch"
	KindNotCallable      Kind = "not_callable"
	KindNotAStruct       Kind = "not_a_struct"
	KindNotDereferenceable Kind = "not_dereferenceable"
	KindNotIndexable     Kind = "not_indexable"

	// Ownership errors.
	KindUseAfterMove        Kind = "use_after_move"
	KindMoveWhileBorrowed   Kind = "move_while_borrowed"
	KindMutWhileImmutable   Kind = "mutable_while_immutable_borrow"
	KindImmutableWhileMut   Kind = "immutable_while_mutable_borrow"
	KindDoubleMutableBorrow Kind = "double_mutable_borrow"
	KindMoveOutOfBorrow     Kind = "move_out_of_borrow"
	KindCannotBorrowMutably Kind = "cannot_borrow_mutably"

	// Effect errors.
	KindEffectViolation Kind = "effect_violation"

	// Backend errors.
	KindIO        Kind = "io_error"
	KindCodegen   Kind = "codegen_error"
	KindCCompiler Kind = "c_compiler_error"
)

// Severity distinguishes fatal diagnostics (halt the current stage)
// from ones that may be recorded and continued past in lenient mode.
type Severity string

const (
	Fatal   Severity = "fatal"
	Warning Severity = "warning"
)

// Diagnostic is the single error/warning value every stage produces.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Span     span.Span
	HasSpan  bool
	Expected string
	Got      string
}

func (d Diagnostic) Error() string {
	return d.Message
}

// New builds a diagnostic with no span (e.g. I/O or backend errors
// that occur outside the source text).
func New(kind Kind, sev Severity, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Severity: sev, Message: fmt.Sprintf(format, args...)}
}

// At builds a diagnostic carrying a span, as parse/name-resolution/
// type/ownership/effect diagnostics always do.
func At(kind Kind, sev Severity, sp span.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Span:     sp,
		HasSpan:  true,
	}
}

// Mismatch builds a type/argument-count-shaped diagnostic that carries
// expected/got descriptions.
func Mismatch(kind Kind, sev Severity, sp span.Span, expected, got string) Diagnostic {
	return Diagnostic{
		Kind:     kind,
		Severity: sev,
		Message:  fmt.Sprintf("%s: expected %s, got %s", kind, expected, got),
		Span:     sp,
		HasSpan:  true,
		Expected: expected,
		Got:      got,
	}
}

// Mode selects whether the analyzer halts on the first non-fatal
// diagnostic (Strict) or records it and continues (Lenient). Parse and
// name-resolution errors and ownership errors are always fatal
// regardless of Mode; Mode only governs type and effect diagnostics.
type Mode int

const (
	Lenient Mode = iota
	Strict
)

// Bag accumulates diagnostics produced while checking a function or
// program. In Strict mode, Add immediately returns the diagnostic as
// fatal via Fatal(); callers check Bag.Fatal() after every Add. In
// Lenient mode, Add always accumulates and the caller continues;
// Result() returns the first accumulated diagnostic, if any.
type Bag struct {
	mode  Mode
	items []Diagnostic
	fatal *Diagnostic
}

// NewBag creates an accumulator running in the given mode.
func NewBag(mode Mode) *Bag {
	return &Bag{mode: mode}
}

// Add records a diagnostic. Fatal-kind diagnostics (ownership, parse,
// name-resolution, backend) always set Bag.Fatal regardless of mode:
// parse and name-resolution errors, ownership errors, and backend
// failures are always fatal. Type/effect diagnostics with
// Severity==Fatal set Bag.Fatal only in Strict mode; in Lenient mode
// they are appended and checking
// continues.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
	if b.fatal != nil {
		return
	}
	switch d.Kind {
	case KindUnexpectedToken, KindMissingIdent, KindMissingType, KindMissingExpr,
		KindMissingPattern, KindMissingArraySize, KindInvalidOperator,
		KindUndefinedVariable, KindUndefinedType, KindDuplicateDef, KindUnknownField,
		KindUseAfterMove, KindMoveWhileBorrowed, KindMutWhileImmutable,
		KindImmutableWhileMut, KindDoubleMutableBorrow, KindMoveOutOfBorrow,
		KindCannotBorrowMutably, KindIO, KindCodegen, KindCCompiler:
		cp := d
		b.fatal = &cp
	default:
		if d.Severity == Fatal && b.mode == Strict {
			cp := d
			b.fatal = &cp
		}
	}
}

// Fatal returns the first fatal diagnostic recorded, or nil.
func (b *Bag) Fatal() *Diagnostic {
	return b.fatal
}

// Items returns every diagnostic recorded so far, in declaration
// order — the full accumulated list, for lenient mode.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Result returns success (nil) unless a fatal diagnostic was recorded,
// or — in Lenient mode with no fatal diagnostic — the first
// accumulated diagnostic: the first accumulated error if any are
// present, otherwise success.
func (b *Bag) Result() *Diagnostic {
	if b.fatal != nil {
		return b.fatal
	}
	if len(b.items) > 0 {
		return &b.items[0]
	}
	return nil
}
