package xlmatch

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/analyze"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/llm"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/markup"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/textnorm"
)

// Analyzer produces the markdown text and layout JSON of a source PDF.
type Analyzer interface {
	Analyze(ctx context.Context, pdfPath string) (analyze.Artifacts, error)
}

// Verifier judges inputs against the concatenated source document text.
type Verifier interface {
	Verify(ctx context.Context, inputs []models.InputCell, documentText string) (models.MatchSet, error)
}

// Marker draws markers and writes the audit log.
type Marker interface {
	Run(ctx context.Context, req markup.Request) (*markup.Report, error)
}

// PipelineConfig holds the collaborators of a Pipeline.
type PipelineConfig struct {
	Analyzer Analyzer
	Verifier Verifier
	Marker   Marker
	// Extractor is required only for ModeLLM.
	Extractor InputExtractor
	// Transform is applied to source text before verification.
	Transform textnorm.Transform
	Logger    logrus.FieldLogger
}

// Pipeline runs extraction, analysis, verification and markup in sequence.
type Pipeline struct {
	cfg PipelineConfig
}

// NewPipeline checks cfg and returns a Pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Analyzer == nil || cfg.Verifier == nil || cfg.Marker == nil {
		return nil, fmt.Errorf("pipeline requires an analyzer, a verifier and a marker")
	}
	if cfg.Transform == nil {
		cfg.Transform = textnorm.Identity
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Pipeline{cfg: cfg}, nil
}

// RunRequest names the files of one verification run.
type RunRequest struct {
	ExcelPath    string
	SheetName    string
	ExcelPDFPath string
	SourcePDFs   []string
	// Symbols is the marker alphabet; DefaultSymbols when empty.
	Symbols string
	Options Options
	// RunID tags the run's log lines; a random UUID when empty.
	RunID string
}

// Run verifies every input of the sheet and marks the results. The symbol
// alphabet is checked against the input count before any external call.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) (*markup.Report, error) {
	runID := req.RunID
	if runID == "" {
		runID = uuid.New().String()
	}
	log := p.cfg.Logger.WithField("run_id", runID)
	symbols := req.Symbols
	if symbols == "" {
		symbols = DefaultSymbols
	}

	sheet, err := p.extract(ctx, req)
	if err != nil {
		return nil, err
	}
	inputs := sheet.Inputs
	log.WithFields(logrus.Fields{
		"sheet":    req.SheetName,
		"inputs":   len(inputs),
		"formulas": len(sheet.Formulas),
	}).Info("Extracted sheet")

	if n := len([]rune(symbols)); n <= len(inputs) {
		return nil, &markup.PreconditionError{Check: "symbols",
			Err: fmt.Errorf("%w: %d symbols for %d inputs", ErrSymbolsExhausted, n, len(inputs))}
	}

	docs := make([]llm.Document, 0, len(req.SourcePDFs))
	sources := make([]markup.Source, 0, len(req.SourcePDFs))
	for _, pdfPath := range req.SourcePDFs {
		art, err := p.cfg.Analyzer.Analyze(ctx, pdfPath)
		if err != nil {
			return nil, err
		}
		text, err := os.ReadFile(art.MarkdownPath)
		if err != nil {
			return nil, fmt.Errorf("read analysis text of %s: %w", pdfPath, err)
		}
		docs = append(docs, llm.Document{Path: art.MarkdownPath, Text: p.cfg.Transform.Apply(string(text))})
		sources = append(sources, markup.Source{PDFPath: pdfPath, LayoutPath: art.JSONPath})
	}

	results, err := p.cfg.Verifier.Verify(ctx, inputs, llm.BuildDocumentText(docs))
	if err != nil {
		return nil, fmt.Errorf("verify inputs: %w", err)
	}
	if missing := results.Missing(inputs); len(missing) > 0 {
		log.WithField("cells", missing).Warn("No verification result, marking unverified")
	}
	matches := models.NewMatchSet(results.Align(inputs))

	matched := 0
	for _, r := range matches {
		if r.Match {
			matched++
		}
	}
	log.WithFields(logrus.Fields{"matched": matched, "inputs": len(inputs)}).Info("Verified inputs")

	return p.cfg.Marker.Run(ctx, markup.Request{
		ExcelPath:    req.ExcelPath,
		ExcelPDFPath: req.ExcelPDFPath,
		Inputs:       inputs,
		Matches:      matches,
		Sources:      sources,
		Symbols:      symbols,
	})
}

func (p *Pipeline) extract(ctx context.Context, req RunRequest) (*models.SheetData, error) {
	switch req.Options.Mode {
	case "", ModeRule:
		return Extract(req.ExcelPath, req.SheetName, req.Options)
	case ModeLLM:
		if p.cfg.Extractor == nil {
			return nil, fmt.Errorf("extraction mode %q requires an input extractor", ModeLLM)
		}
		return ExtractWithModel(ctx, req.ExcelPath, req.SheetName, p.cfg.Extractor)
	default:
		return nil, fmt.Errorf("invalid mode: %s (must be rule or llm)", req.Options.Mode)
	}
}
