package xlmatch

import (
	"errors"
	"fmt"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/markup"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/parser"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = parser.ErrFileNotFound

// ErrInvalidFormat indicates the input file is not a valid xlsx format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrSheetNotFound indicates the requested sheet is not in the workbook.
var ErrSheetNotFound = parser.ErrSheetNotFound

// ErrSymbolsExhausted indicates the marker alphabet is too short for the
// extracted inputs.
var ErrSymbolsExhausted = markup.ErrSymbolsExhausted

// ErrResultMismatch indicates verifier results do not cover the inputs.
var ErrResultMismatch = markup.ErrResultMismatch

// ExtractionError represents an error during extraction.
type ExtractionError struct {
	SheetName string
	Component string // "workbook", "cells", "html", "llm"
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error in sheet %q (%s): %v", e.SheetName, e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError creates a new ExtractionError.
func NewExtractionError(sheetName, component string, err error) *ExtractionError {
	return &ExtractionError{
		SheetName: sheetName,
		Component: component,
		Err:       err,
	}
}
