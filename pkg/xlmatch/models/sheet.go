package models

// SheetData holds the cells extracted from a single sheet, in row-major order.
type SheetData struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Inputs contains numeric cells.
	Inputs []InputCell `json:"inputs"`
	// Formulas contains formula cells.
	Formulas []FormulaCell `json:"formulas,omitempty"`
	// PrintArea is the area the extraction was restricted to, if any.
	PrintArea *PrintArea `json:"print_area,omitempty"`
}
