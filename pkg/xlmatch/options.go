// Package xlmatch verifies the numeric inputs of a calculation sheet
// against source PDFs and marks the matches on both.
package xlmatch

import "github.com/ukaji3/xlmatch-go/internal/config"

// Mode represents how input cells are found.
type Mode string

const (
	// ModeRule classifies cells by their stored type.
	ModeRule Mode = "rule"
	// ModeLLM asks the language model to pick input cells from an HTML
	// rendering of the sheet.
	ModeLLM Mode = "llm"
)

// DefaultSymbols is the default marker alphabet.
const DefaultSymbols = config.DefaultSymbols

// Options configures extraction behavior.
type Options struct {
	// Mode specifies the extraction mode (rule, llm).
	Mode Mode
	// PrintAreaOnly restricts rule extraction to the sheet's print area.
	// If nil, defaults to false. Sheets without a print area are read whole.
	PrintAreaOnly *bool
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeRule,
	}
}

// ShouldUsePrintArea returns whether to restrict extraction to the print area.
func (o Options) ShouldUsePrintArea() bool {
	if o.PrintAreaOnly != nil {
		return *o.PrintAreaOnly
	}
	return false
}
