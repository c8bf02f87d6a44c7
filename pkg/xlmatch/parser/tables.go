package parser

import (
	"fmt"
	"html"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetToHTML renders the used range of a sheet as an HTML table. Every
// <td> carries its Excel coordinates in data-row/data-col; numeric cells are
// tagged class="input" and formula cells class="formula".
func SheetToHTML(f *excelize.File, sheetName string) (string, error) {
	g, err := loadGrid(f, sheetName)
	if err != nil {
		return "", err
	}

	maxRow, maxCol := findDataBounds(g.rows)
	if maxRow < 0 {
		return "<table>\n</table>", nil
	}

	var b strings.Builder
	b.WriteString("<table>\n")
	for rowNum := 1; rowNum <= maxRow+1; rowNum++ {
		b.WriteString("<tr>")
		for colNum := 1; colNum <= maxCol+1; colNum++ {
			colName, err := excelize.ColumnNumberToName(colNum)
			if err != nil {
				return "", err
			}
			cellName, _ := excelize.CoordinatesToCellName(colNum, rowNum)

			text := g.value(colNum, rowNum)
			class := ""
			if formula := g.formula(colNum, rowNum); formula != "" {
				text, class = formula, "formula"
			} else if text != "" {
				if _, ok := numericValue(f, sheetName, cellName, text); ok {
					class = "input"
				}
			}

			fmt.Fprintf(&b, `<td data-row="%d" data-col="%s"`, rowNum, colName)
			if class != "" {
				fmt.Fprintf(&b, ` class="%s"`, class)
			}
			fmt.Fprintf(&b, ">%s</td>", html.EscapeString(text))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String(), nil
}

// findDataBounds finds the last 0-based row and column holding a value.
// Both are -1 for an empty sheet.
func findDataBounds(rows [][]string) (maxRow, maxCol int) {
	maxRow, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if rowIdx > maxRow {
					maxRow = rowIdx
				}
				if colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
