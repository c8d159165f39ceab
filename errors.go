package gametrad

import (
	"errors"
	"fmt"
)

// ErrNothingToUndo is reported by History.Undo when every logged operation
// is already reverted (or the log is empty).
var ErrNothingToUndo = errors.New("nothing to undo")

// ErrNothingToRedo is reported by History.Redo when no prior undo is
// pending.
var ErrNothingToRedo = errors.New("nothing to redo")

// ValidationError reports an event field that violates the data model
// (non-positive quantity or price, negative fee or deposit).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RowError reports a single malformed persisted row. The row is skipped and
// the rest of the decode carries on: one corrupt historical line must never
// blank the whole ledger.
type RowError struct {
	Source string // file or stream name, for the message only
	Line   int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("skipping malformed row %s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// FormulaError reports a formula expression that failed to parse or
// evaluate. The engine substitutes 0 for the field and hands this back as a
// warning; it never reaches the caller as a failure.
type FormulaError struct {
	Domain Domain
	Field  string
	Expr   string
	Err    error
}

func (e *FormulaError) Error() string {
	return fmt.Sprintf("formula %s.%s %q: %v", e.Domain, e.Field, e.Expr, e.Err)
}

func (e *FormulaError) Unwrap() error { return e.Err }

// UnsupportedOperationError reports an undo or redo request for an
// operation/domain pair with no registered compensator. The request is a
// no-op.
type UnsupportedOperationError struct {
	Kind   OperationKind
	Domain Domain
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: no compensator for %s on %s", e.Kind, e.Domain)
}
