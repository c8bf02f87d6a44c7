// Package markup tags verified inputs with marker symbols on the rendered
// sheet PDF and on the source PDFs, and writes the CSV audit log.
package markup

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/locate"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/parser"
)

// SheetPage is the only page of the rendered sheet PDF that is marked.
const SheetPage = 1

const (
	sheetMarkSize   = 12
	sheetMarkOffset = 2
)

// Source pairs a source PDF with its layout analysis result.
type Source struct {
	PDFPath    string
	LayoutPath string
}

// Request is the input to a markup run.
type Request struct {
	ExcelPath    string
	ExcelPDFPath string
	Inputs       []models.InputCell
	Matches      models.MatchSet
	Sources      []Source
	// Symbols is the marker alphabet; the i-th input gets the i-th rune.
	Symbols string
}

// Report summarizes a markup run.
type Report struct {
	SheetPDF    string
	SourcePDFs  []string
	CSVPath     string
	Rows        []Row
	SheetMarks  int
	SourceMarks int
}

// Engine draws markers and writes the audit log.
type Engine struct {
	open       Opener
	spans      SpanSource
	loadLayout func(path string) (*models.LayoutResult, error)
	logger     logrus.FieldLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithOpener replaces the PDF opener.
func WithOpener(o Opener) Option {
	return func(e *Engine) { e.open = o }
}

// WithSpanSource replaces the rendered-sheet span source.
func WithSpanSource(s SpanSource) Option {
	return func(e *Engine) { e.spans = s }
}

// WithLayoutLoader replaces the layout result loader.
func WithLayoutLoader(f func(path string) (*models.LayoutResult, error)) Option {
	return func(e *Engine) { e.loadLayout = f }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine that edits PDFs with OpenPDF and reads sheet
// spans with TabulaSpans.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		open:       OpenPDF,
		spans:      TabulaSpans{},
		loadLayout: parser.LoadLayout,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run validates req, marks the sheet PDF and every source PDF, and writes
// the CSV log. Every precondition is checked before any file is written.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	symbols, results, err := checkRequest(req)
	if err != nil {
		return nil, err
	}
	layouts, err := e.loadLayouts(req.Sources)
	if err != nil {
		return nil, err
	}

	report := &Report{CSVPath: CSVPath(req.ExcelPath)}

	report.SheetPDF, report.SheetMarks, err = e.markSheet(req.ExcelPDFPath, req.Inputs, results, symbols)
	if err != nil {
		return nil, fmt.Errorf("mark sheet pdf: %w", err)
	}

	pages := make([]models.SourcePage, len(req.Inputs))
	for i, src := range req.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, found, err := e.markSource(src, layouts[i], results, symbols)
		if err != nil {
			return nil, fmt.Errorf("mark source pdf %s: %w", src.PDFPath, err)
		}
		report.SourcePDFs = append(report.SourcePDFs, out)
		for i, page := range found {
			if page == 0 {
				continue
			}
			report.SourceMarks++
			if !pages[i].Located() {
				pages[i] = models.SourcePage{Stem: stem(src.PDFPath), Page: page}
			}
		}
	}

	report.Rows = make([]Row, len(req.Inputs))
	for i, in := range req.Inputs {
		report.Rows[i] = Row{Input: in, Result: results[i], Source: pages[i], Symbol: symbols[i]}
	}
	if err := writeCSVFile(report.CSVPath, report.Rows); err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"csv":          report.CSVPath,
		"sheet_marks":  report.SheetMarks,
		"source_marks": report.SourceMarks,
	}).Info("Markup complete")
	return report, nil
}

// checkRequest returns the per-input symbols and results in input order.
func checkRequest(req Request) ([]string, []models.MatchResult, error) {
	if missing := req.Matches.Missing(req.Inputs); len(missing) > 0 {
		return nil, nil, &PreconditionError{Check: "results",
			Err: fmt.Errorf("%w: no result for %v", ErrResultMismatch, missing)}
	}
	if len(req.Matches) != len(req.Inputs) {
		return nil, nil, &PreconditionError{Check: "results",
			Err: fmt.Errorf("%w: %d results for %d inputs", ErrResultMismatch, len(req.Matches), len(req.Inputs))}
	}

	alphabet := []rune(req.Symbols)
	if len(alphabet) <= len(req.Inputs) {
		return nil, nil, &PreconditionError{Check: "symbols",
			Err: fmt.Errorf("%w: %d symbols for %d inputs", ErrSymbolsExhausted, len(alphabet), len(req.Inputs))}
	}
	seen := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		if seen[r] {
			return nil, nil, &PreconditionError{Check: "symbols", Err: fmt.Errorf("%w: %q", ErrDuplicateSymbol, r)}
		}
		seen[r] = true
	}

	paths := []string{req.ExcelPath, req.ExcelPDFPath}
	for _, src := range req.Sources {
		paths = append(paths, src.PDFPath, src.LayoutPath)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, nil, &PreconditionError{Check: "paths", Err: fmt.Errorf("%w: %s", parser.ErrFileNotFound, p)}
		}
	}

	symbols := make([]string, len(req.Inputs))
	for i := range req.Inputs {
		symbols[i] = string(alphabet[i])
	}
	return symbols, req.Matches.Align(req.Inputs), nil
}

// loadLayouts reads every source's layout up front so a malformed file
// fails the run before any pdf is written.
func (e *Engine) loadLayouts(sources []Source) ([]*models.LayoutResult, error) {
	layouts := make([]*models.LayoutResult, len(sources))
	for i, src := range sources {
		layout, err := e.loadLayout(src.LayoutPath)
		if err != nil {
			return nil, &PreconditionError{Check: "layouts", Err: err}
		}
		for _, page := range layout.Pages {
			if !page.InInches() {
				e.logger.WithFields(logrus.Fields{
					"layout": src.LayoutPath,
					"page":   page.PageNumber,
					"unit":   page.Unit,
				}).Warn("Skipping layout page not measured in inches")
			}
		}
		layouts[i] = layout
	}
	return layouts, nil
}

// markSheet draws each matched input's symbol just past the top-right of
// the span showing its value on the first page.
func (e *Engine) markSheet(path string, inputs []models.InputCell, results []models.MatchResult, symbols []string) (string, int, error) {
	doc, err := e.open(path)
	if err != nil {
		return "", 0, err
	}
	spans, err := e.spans.Spans(path, SheetPage)
	if err != nil {
		return "", 0, err
	}

	drawn := 0
	for i, in := range inputs {
		if !results[i].Match {
			continue
		}
		span, ok := locate.InSpans(in.Raw, spans)
		if !ok {
			e.logger.WithFields(logrus.Fields{"cell": in.Cell, "value": in.Raw}).Warn("Value not found on sheet pdf")
			continue
		}
		err := doc.Draw(SheetPage, Mark{
			X:     span.Box.X1 + sheetMarkOffset,
			Y:     span.Box.Y1 - sheetMarkOffset,
			Text:  symbols[i],
			Size:  sheetMarkSize,
			Color: Red,
		})
		if err != nil {
			return "", 0, fmt.Errorf("cell %s: %w", in.Cell, err)
		}
		drawn++
	}

	out := MarkupPath(path)
	e.logger.WithField("path", out).Info("Writing marked sheet pdf")
	if err := doc.Save(out); err != nil {
		return "", 0, err
	}
	return out, drawn, nil
}

// markSource draws each located result's symbol at the top-left of its box
// and returns the page every input landed on, 0 for none.
func (e *Engine) markSource(src Source, layout *models.LayoutResult, results []models.MatchResult, symbols []string) (string, []int, error) {
	doc, err := e.open(src.PDFPath)
	if err != nil {
		return "", nil, err
	}

	pages := make([]int, len(results))
	for i, r := range results {
		if !r.Located() {
			continue
		}
		log := e.logger.WithFields(logrus.Fields{"cell": r.Cell, "source": src.PDFPath})
		loc, ok := locate.InLayout(r.Span(), layout)
		if !ok {
			log.WithField("matched_text", r.Span()).Warn("Matched text not found in layout")
			continue
		}
		if loc.Page < 1 || loc.Page > doc.NumPages() {
			log.WithField("page", loc.Page).Warn("Layout page not present in pdf")
			continue
		}
		err := doc.Draw(loc.Page, Mark{
			X:     loc.Box.X0,
			Y:     loc.Box.Y0,
			Text:  symbols[i],
			Size:  loc.FontSize(),
			Color: Red,
		})
		if err != nil {
			return "", nil, fmt.Errorf("cell %s: %w", r.Cell, err)
		}
		if !loc.Refined {
			log.WithField("page", loc.Page).Debug("Marked line centre, no word matched")
		}
		pages[i] = loc.Page
	}

	out := MarkupPath(src.PDFPath)
	e.logger.WithField("path", out).Info("Writing marked source pdf")
	if err := doc.Save(out); err != nil {
		return "", nil, err
	}
	return out, pages, nil
}
