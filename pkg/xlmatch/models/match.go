package models

import "fmt"

// MatchResult is the verifier's judgement for one input cell.
type MatchResult struct {
	// Cell is the coordinate of the input this result refers to.
	Cell string `json:"cell"`
	// Match reports whether the source documents justify the value.
	Match bool `json:"match"`
	// Reason is the verifier's free-text explanation.
	Reason string `json:"reason"`
	// MatchedText is the literal source span; set only when Match is true.
	MatchedText *string `json:"matched_text,omitempty"`
	// SourcePath is the document the span was found in, when reported.
	SourcePath *string `json:"source_path,omitempty"`
}

// Span returns the matched text, or "" when there is none.
func (r MatchResult) Span() string {
	if r.MatchedText == nil {
		return ""
	}
	return *r.MatchedText
}

// Located reports whether the result can be projected onto a source page.
func (r MatchResult) Located() bool {
	return r.Match && r.Span() != ""
}

// Unverified builds a non-matching result carrying the reason verification
// could not be completed for cell.
func Unverified(cell, reason string) MatchResult {
	return MatchResult{Cell: cell, Reason: "unverified: " + reason}
}

// MatchSet holds verifier results keyed by cell coordinate.
type MatchSet map[string]MatchResult

// NewMatchSet indexes results by cell. A later duplicate replaces an earlier one.
func NewMatchSet(results []MatchResult) MatchSet {
	set := make(MatchSet, len(results))
	for _, r := range results {
		set[r.Cell] = r
	}
	return set
}

// Align returns one result per input, in input order. Inputs without a
// result get an unverified placeholder, so the output never depends on the
// order the verifier produced its results in.
func (s MatchSet) Align(inputs []InputCell) []MatchResult {
	out := make([]MatchResult, len(inputs))
	for i, in := range inputs {
		r, ok := s[in.Cell]
		if !ok {
			r = Unverified(in.Cell, "no result returned for cell")
		}
		out[i] = r
	}
	return out
}

// Missing lists input cells that have no result.
func (s MatchSet) Missing(inputs []InputCell) []string {
	var missing []string
	for _, in := range inputs {
		if _, ok := s[in.Cell]; !ok {
			missing = append(missing, in.Cell)
		}
	}
	return missing
}

// SourcePage records where an input was marked in the source documents.
// The zero value means the input was not located in any source.
type SourcePage struct {
	// Stem is the source file name without extension.
	Stem string `json:"stem"`
	// Page is 1-based; 0 means unlocated.
	Page int `json:"page"`
}

// Located reports whether a page has been assigned.
func (p SourcePage) Located() bool { return p.Page != 0 }

func (p SourcePage) String() string {
	if !p.Located() {
		return "-"
	}
	return fmt.Sprintf("%s p.%d", p.Stem, p.Page)
}
