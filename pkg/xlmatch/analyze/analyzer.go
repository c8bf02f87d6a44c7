package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/textnorm"
)

// Service performs layout analysis of a PDF.
type Service interface {
	AnalyzeLayout(ctx context.Context, pdf []byte) (*Result, error)
}

// Artifacts are the cached outputs for one source PDF.
type Artifacts struct {
	MarkdownPath string
	JSONPath     string
}

// Analyzer stores analysis results under <dir>/markdown/<stem>.md and
// <dir>/json/<stem>.json and reuses them on later runs.
type Analyzer struct {
	service   Service
	dir       string
	transform textnorm.Transform
	dryRun    bool
	logger    logrus.FieldLogger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTransform sets the normalization applied to analysis text.
func WithTransform(t textnorm.Transform) Option {
	return func(a *Analyzer) { a.transform = t }
}

// WithDryRun makes Analyze return the artifact paths without calling the
// service or writing files.
func WithDryRun(dry bool) Option {
	return func(a *Analyzer) { a.dryRun = dry }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an Analyzer writing under dir.
func NewAnalyzer(service Service, dir string, opts ...Option) *Analyzer {
	a := &Analyzer{
		service:   service,
		dir:       dir,
		transform: textnorm.Identity,
		logger:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Paths returns where the artifacts for pdfPath are stored.
func (a *Analyzer) Paths(pdfPath string) Artifacts {
	base := filepath.Base(pdfPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Artifacts{
		MarkdownPath: filepath.Join(a.dir, "markdown", stem+".md"),
		JSONPath:     filepath.Join(a.dir, "json", stem+".json"),
	}
}

// Analyze returns the artifacts for pdfPath, running the analysis only when
// either file is missing.
func (a *Analyzer) Analyze(ctx context.Context, pdfPath string) (Artifacts, error) {
	art := a.Paths(pdfPath)
	log := a.logger.WithField("source", pdfPath)

	if fileExists(art.MarkdownPath) && fileExists(art.JSONPath) {
		log.WithField("json", art.JSONPath).Info("Using cached layout analysis")
		return art, nil
	}
	if a.dryRun {
		log.Info("Dry run, skipping layout analysis")
		return art, nil
	}

	pdf, err := os.ReadFile(pdfPath)
	if err != nil {
		return Artifacts{}, err
	}

	log.Info("Running layout analysis")
	res, err := a.service.AnalyzeLayout(ctx, pdf)
	if err != nil {
		return Artifacts{}, fmt.Errorf("analyze %s: %w", pdfPath, err)
	}

	layout, err := transformJSON(res.Layout, a.transform)
	if err != nil {
		return Artifacts{}, fmt.Errorf("normalize layout of %s: %w", pdfPath, err)
	}
	if err := writeArtifact(art.MarkdownPath, []byte(a.transform.Apply(res.Markdown))); err != nil {
		return Artifacts{}, err
	}
	if err := writeArtifact(art.JSONPath, layout); err != nil {
		return Artifacts{}, err
	}

	log.WithFields(logrus.Fields{"markdown": art.MarkdownPath, "json": art.JSONPath}).Info("Stored layout analysis")
	return art, nil
}

// transformJSON applies t to every string in raw and re-encodes it
// indented. Numbers keep their original text.
func transformJSON(raw []byte, t textnorm.Transform) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(walkStrings(v, t)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func walkStrings(v interface{}, t textnorm.Transform) interface{} {
	switch x := v.(type) {
	case string:
		return t.Apply(x)
	case []interface{}:
		for i := range x {
			x[i] = walkStrings(x[i], t)
		}
		return x
	case map[string]interface{}:
		for k, val := range x {
			x[k] = walkStrings(val, t)
		}
		return x
	default:
		return v
	}
}

func writeArtifact(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
