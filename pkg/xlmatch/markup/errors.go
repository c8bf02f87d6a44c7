package markup

import (
	"errors"
	"fmt"
)

// ErrSymbolsExhausted indicates the marker alphabet is not longer than the
// input list.
var ErrSymbolsExhausted = errors.New("not enough marker symbols for inputs")

// ErrResultMismatch indicates the verifier results do not cover the inputs.
var ErrResultMismatch = errors.New("match results do not correspond to inputs")

// ErrDuplicateSymbol indicates the marker alphabet repeats a symbol.
var ErrDuplicateSymbol = errors.New("marker symbols must be distinct")

// PreconditionError reports a failed check that aborts markup before any
// file is written.
type PreconditionError struct {
	Check string // "results", "symbols", "paths"
	Err   error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("markup precondition %q failed: %v", e.Check, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}
