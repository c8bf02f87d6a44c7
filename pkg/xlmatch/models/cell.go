// Package models defines data structures shared by extraction, verification and markup.
package models

import "strings"

// InputCell is a raw numeric value typed into the sheet.
type InputCell struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet"`
	// Cell is the A1-style coordinate (e.g. "B2").
	Cell string `json:"cell"`
	// Value is the parsed numeric value.
	Value float64 `json:"value"`
	// Raw is the literal cell text as stored in the workbook ("1000", "3.5").
	Raw string `json:"raw"`
	// Metadata holds the trimmed text of the left and right neighbor cells.
	Metadata [2]string `json:"metadata"`
}

// Hint joins the non-empty neighbor texts with ", ".
func (c InputCell) Hint() string {
	return joinHints(c.Metadata)
}

// FormulaCell is a derived cell. It is collected for auditing and is not
// consumed by verification or markup.
type FormulaCell struct {
	// Sheet is the owning sheet name.
	Sheet string `json:"sheet"`
	// Cell is the A1-style coordinate.
	Cell string `json:"cell"`
	// Formula is the expression including the leading "=".
	Formula string `json:"formula"`
	// Metadata holds the trimmed text of the left and right neighbor cells.
	Metadata [2]string `json:"metadata"`
}

func joinHints(m [2]string) string {
	var parts []string
	for _, v := range m {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
