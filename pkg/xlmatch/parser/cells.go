package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the requested sheet does not exist in the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// grid is a raw-value view of a sheet with formula lookups.
type grid struct {
	f         *excelize.File
	sheetName string
	rows      [][]string
	maxCols   int
}

func loadGrid(f *excelize.File, sheetName string) (*grid, error) {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheetName)
	}

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	g := &grid{f: f, sheetName: sheetName, rows: rows}
	for _, row := range rows {
		if len(row) > g.maxCols {
			g.maxCols = len(row)
		}
	}
	return g, nil
}

// value returns the raw stored value at 1-based (col, row), or "" when out of range.
func (g *grid) value(col, row int) string {
	if row < 1 || row > len(g.rows) {
		return ""
	}
	r := g.rows[row-1]
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

// formula returns the cell formula with a leading "=", or "" for plain cells.
func (g *grid) formula(col, row int) string {
	cellName, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	formula, err := g.f.GetCellFormula(g.sheetName, cellName)
	if err != nil || formula == "" {
		return ""
	}
	if !strings.HasPrefix(formula, "=") {
		formula = "=" + formula
	}
	return formula
}

// neighbor returns the trimmed text shown to a reader of the cell at
// 1-based (col, row). Lookup failures degrade to "".
func (g *grid) neighbor(col, row int) string {
	if col < 1 {
		return ""
	}
	if formula := g.formula(col, row); formula != "" {
		return formula
	}
	return strings.TrimSpace(g.value(col, row))
}

// ExtractCells walks a sheet in row-major order and classifies each
// non-empty cell as an input (numeric) or a formula. Text labels, booleans,
// errors and blanks are ignored. When area is non-nil only cells inside it
// are visited.
func ExtractCells(f *excelize.File, sheetName string, area *models.PrintArea) (*models.SheetData, error) {
	g, err := loadGrid(f, sheetName)
	if err != nil {
		return nil, err
	}

	data := &models.SheetData{Name: sheetName, PrintArea: area}
	for rowIdx := range g.rows {
		rowNum := rowIdx + 1 // 1-based row index
		for colNum := 1; colNum <= g.maxCols; colNum++ {
			if area != nil && !area.Contains(colNum, rowNum) {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(colNum, rowNum)
			if err != nil {
				continue
			}
			metadata := [2]string{g.neighbor(colNum-1, rowNum), g.neighbor(colNum+1, rowNum)}

			if formula := g.formula(colNum, rowNum); formula != "" {
				data.Formulas = append(data.Formulas, models.FormulaCell{
					Sheet:    sheetName,
					Cell:     cellName,
					Formula:  formula,
					Metadata: metadata,
				})
				continue
			}

			raw := g.value(colNum, rowNum)
			if raw == "" {
				continue
			}
			value, ok := numericValue(f, sheetName, cellName, raw)
			if !ok {
				continue
			}
			data.Inputs = append(data.Inputs, models.InputCell{
				Sheet:    sheetName,
				Cell:     cellName,
				Value:    value,
				Raw:      raw,
				Metadata: metadata,
			})
		}
	}

	return data, nil
}

// numericValue reports whether the stored cell is a number and returns it.
// Cells formatted as dates or times hold serial numbers and are rejected.
func numericValue(f *excelize.File, sheetName, cellName, raw string) (float64, bool) {
	cellType, err := f.GetCellType(sheetName, cellName)
	if err != nil {
		return 0, false
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
	default:
		return 0, false
	}
	v, ok := parseValue(raw).(float64)
	if !ok || isDateCell(f, sheetName, cellName) {
		return 0, false
	}
	return v, true
}

// NumericCell classifies a single cell the way ExtractCells does. ok is
// false for formulas, blanks, text, booleans and dates; otherwise raw is the
// stored cell text and value its number.
func NumericCell(f *excelize.File, sheetName, cellName string) (raw string, value float64, ok bool) {
	if formula, err := f.GetCellFormula(sheetName, cellName); err != nil || formula != "" {
		return "", 0, false
	}
	raw, err := f.GetCellValue(sheetName, cellName, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return "", 0, false
	}
	value, ok = numericValue(f, sheetName, cellName, raw)
	if !ok {
		return "", 0, false
	}
	return raw, value, true
}

// parseValue attempts to parse a string value as a finite number.
// Returns float64 for numbers or the original string.
func parseValue(s string) interface{} {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}
