package markup

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// Placeholder fills audit columns that do not apply to a row.
const Placeholder = "-"

var csvHeader = []string{"cell", "value", "match", "source", "page_no", "reason", "symbol"}

// Row is one input's line in the audit log.
type Row struct {
	Input  models.InputCell
	Result models.MatchResult
	Source models.SourcePage
	Symbol string
}

func (r Row) record() []string {
	source, page, symbol := Placeholder, Placeholder, Placeholder
	if r.Result.Match {
		symbol = r.Symbol
		if r.Source.Located() {
			source = r.Source.Stem
			page = strconv.Itoa(r.Source.Page)
		}
	}
	match := "False"
	if r.Result.Match {
		match = "True"
	}
	return []string{r.Input.Cell, r.Input.Raw, match, source, page, r.Result.Reason, symbol}
}

// CSVPath returns the audit log path for a workbook:
// <dir>/<stem>_matching.csv.
func CSVPath(excelPath string) string {
	return filepath.Join(filepath.Dir(excelPath), stem(excelPath)+"_matching.csv")
}

// MarkupPath inserts "_markup" before the extension of path.
func MarkupPath(path string) string {
	return filepath.Join(filepath.Dir(path), stem(path)+"_markup"+filepath.Ext(path))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteCSV writes the header and one record per row, in order.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeCSVFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
