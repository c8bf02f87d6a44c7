package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestSheetToHTML(t *testing.T) {
	f := newCalcSheet(t)

	out, err := SheetToHTML(f, "Sheet1")
	if err != nil {
		t.Fatalf("SheetToHTML failed: %v", err)
	}

	for _, want := range []string{
		`<td data-row="2" data-col="B" class="input">1000</td>`,
		`<td data-row="3" data-col="B" class="input">3.5</td>`,
		`<td data-row="4" data-col="B" class="formula">=B2*B3</td>`,
		`<td data-row="2" data-col="A">長さ</td>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %s\n%s", want, out)
		}
	}
	if got := strings.Count(out, "<tr>"); got != 5 {
		t.Errorf("Expected 5 rows, got %d", got)
	}
}

func TestSheetToHTMLEscapes(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "<b>&</b>")

	out, err := SheetToHTML(f, "Sheet1")
	if err != nil {
		t.Fatalf("SheetToHTML failed: %v", err)
	}
	if !strings.Contains(out, "&lt;b&gt;&amp;&lt;/b&gt;") {
		t.Errorf("Expected escaped content, got %s", out)
	}
}

func TestSheetToHTMLDateIsNotInput(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	f.SetCellValue("Sheet1", "B1", 1000)

	out, err := SheetToHTML(f, "Sheet1")
	if err != nil {
		t.Fatalf("SheetToHTML failed: %v", err)
	}
	if !strings.Contains(out, `<td data-row="1" data-col="A">45383</td>`) {
		t.Errorf("Expected unclassified date cell, got %s", out)
	}
	if !strings.Contains(out, `<td data-row="1" data-col="B" class="input">1000</td>`) {
		t.Errorf("Expected numeric input cell, got %s", out)
	}
}

func TestSheetPrintArea(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	if SheetPrintArea(f, "Sheet1") != nil {
		t.Fatalf("Expected no print area on a new workbook")
	}

	err := f.SetDefinedName(&excelize.DefinedName{
		Name:     "_xlnm.Print_Area",
		RefersTo: "Sheet1!$A$1:$C$3",
		Scope:    "Sheet1",
	})
	if err != nil {
		t.Fatalf("SetDefinedName failed: %v", err)
	}

	area := SheetPrintArea(f, "Sheet1")
	if area == nil {
		t.Fatalf("Expected a print area")
	}
	if area.R1 != 1 || area.C1 != 1 || area.R2 != 3 || area.C2 != 3 {
		t.Errorf("Unexpected area: %+v", area)
	}
}

func TestParsePrintAreaReference(t *testing.T) {
	sheet, areas := parsePrintAreaReference("'計算 シート'!$B$2:$D$10,'計算 シート'!$F$1:$G$4")
	if sheet != "計算 シート" {
		t.Errorf("Expected sheet name without quotes, got %q", sheet)
	}
	if len(areas) != 2 || areas[1].C1 != 6 || areas[1].R2 != 4 {
		t.Errorf("Unexpected areas: %+v", areas)
	}
}
