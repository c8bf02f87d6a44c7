package xlmatch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/parser"
	"github.com/xuri/excelize/v2"
)

// InputExtractor lists input cells from an HTML rendering of a sheet.
type InputExtractor interface {
	Extract(ctx context.Context, sheetName, html string) ([]models.InputCell, error)
}

// Extract reads the inputs and formulas of one sheet in row-major order.
func Extract(path, sheetName string, opts Options) (*models.SheetData, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return extractSheet(f, sheetName, opts)
}

func extractSheet(f *excelize.File, sheetName string, opts Options) (*models.SheetData, error) {
	var area *models.PrintArea
	if opts.ShouldUsePrintArea() {
		area = parser.SheetPrintArea(f, sheetName)
	}
	data, err := parser.ExtractCells(f, sheetName, area)
	if err != nil {
		return nil, NewExtractionError(sheetName, "cells", err)
	}
	return data, nil
}

// ExtractWithModel renders the sheet as HTML and lets ex choose the inputs.
// Chosen cells the rule classifier would not treat as inputs are dropped,
// and Value and Raw are taken from the workbook. Formulas are still
// collected by the rule extractor.
func ExtractWithModel(ctx context.Context, path, sheetName string, ex InputExtractor) (*models.SheetData, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	html, err := parser.SheetToHTML(f, sheetName)
	if err != nil {
		return nil, NewExtractionError(sheetName, "html", err)
	}
	inputs, err := ex.Extract(ctx, sheetName, html)
	if err != nil {
		return nil, NewExtractionError(sheetName, "llm", err)
	}

	data, err := parser.ExtractCells(f, sheetName, nil)
	if err != nil {
		return nil, NewExtractionError(sheetName, "cells", err)
	}
	data.Inputs = make([]models.InputCell, 0, len(inputs))
	for _, in := range inputs {
		raw, value, ok := parser.NumericCell(f, sheetName, in.Cell)
		if !ok {
			continue
		}
		in.Sheet, in.Raw, in.Value = sheetName, raw, value
		data.Inputs = append(data.Inputs, in)
	}
	return data, nil
}

// SheetHTML renders one sheet of the workbook at path as an HTML table.
func SheetHTML(path, sheetName string) (string, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	html, err := parser.SheetToHTML(f, sheetName)
	if err != nil {
		return "", NewExtractionError(sheetName, "html", err)
	}
	return html, nil
}

func openWorkbook(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, NewExtractionError("", "workbook", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	return f, nil
}
