// Package output serializes extraction and markup results.
package output

import (
	"bytes"
	"encoding/json"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/markup"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// ToJSON encodes v without HTML escaping, so labels such as "<" or "&"
// stay readable.
func ToJSON(v interface{}, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// SheetToJSON encodes extracted sheet data.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return ToJSON(sheet, pretty)
}

// ReportRow is the JSON form of one audit log row.
type ReportRow struct {
	Cell    string  `json:"cell"`
	Value   float64 `json:"value"`
	Match   bool    `json:"match"`
	Reason  string  `json:"reason"`
	Matched *string `json:"matched_text,omitempty"`
	Source  string  `json:"source,omitempty"`
	Page    int     `json:"page_no,omitempty"`
	Symbol  string  `json:"symbol,omitempty"`
}

// ReportView is the JSON form of a markup report.
type ReportView struct {
	SheetPDF   string      `json:"sheet_pdf"`
	SourcePDFs []string    `json:"source_pdfs"`
	CSV        string      `json:"csv"`
	Rows       []ReportRow `json:"rows"`
}

// ReportToJSON encodes a markup report.
func ReportToJSON(r *markup.Report, pretty bool) ([]byte, error) {
	view := ReportView{SheetPDF: r.SheetPDF, SourcePDFs: r.SourcePDFs, CSV: r.CSVPath}
	for _, row := range r.Rows {
		jr := ReportRow{
			Cell:    row.Input.Cell,
			Value:   row.Input.Value,
			Match:   row.Result.Match,
			Reason:  row.Result.Reason,
			Matched: row.Result.MatchedText,
		}
		if row.Result.Match {
			jr.Symbol = row.Symbol
			jr.Source = row.Source.Stem
			jr.Page = row.Source.Page
		}
		view.Rows = append(view.Rows, jr)
	}
	return ToJSON(view, pretty)
}
