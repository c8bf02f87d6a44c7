package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// Document is the analyzed text of one source document.
type Document struct {
	// Path identifies the document to the model (the analyzed markdown path).
	Path string
	// Text is the document content.
	Text string
}

// BuildDocumentText concatenates documents, each under a numbered header
// followed by its source path.
func BuildDocumentText(docs []Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "### Document #%d\n", i+1)
		fmt.Fprintf(&b, "source_path: %s\n", d.Path)
		b.WriteString(d.Text)
		b.WriteString("\n\n")
	}
	return b.String()
}

// FormatInputs renders inputs as the compact text block sent to the model.
func FormatInputs(inputs []models.InputCell) string {
	lines := make([]string, 0, len(inputs))
	for _, in := range inputs {
		lines = append(lines, fmt.Sprintf("- Cell: %s\n  Value: %s\n  Hint: %s", in.Cell, in.Raw, in.Hint()))
	}
	return strings.Join(lines, "\n")
}

// Verifier judges whether sheet inputs are justified by source documents
// with a single batched model request.
type Verifier struct {
	model       llms.Model
	temperature float64
	logger      logrus.FieldLogger
}

// VerifierOption configures a Verifier.
type VerifierOption func(*Verifier)

// WithTemperature sets the sampling temperature (default 0).
func WithTemperature(t float64) VerifierOption {
	return func(v *Verifier) { v.temperature = t }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) VerifierOption {
	return func(v *Verifier) { v.logger = l }
}

// NewVerifier creates a Verifier backed by model.
func NewVerifier(model llms.Model, opts ...VerifierOption) *Verifier {
	v := &Verifier{model: model, logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify returns one result per input keyed by cell. Model or transport
// errors are returned as is. A response that cannot be decoded marks every
// input unverified instead of failing.
func (v *Verifier) Verify(ctx context.Context, inputs []models.InputCell, documentText string) (models.MatchSet, error) {
	if len(inputs) == 0 {
		return models.MatchSet{}, nil
	}

	request := fmt.Sprintf(verifyRequestTemplate, documentText, FormatInputs(inputs))
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, verifySystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, verifyExamples),
		llms.TextParts(llms.ChatMessageTypeHuman, request, verifyFormat),
	}

	v.logger.WithFields(logrus.Fields{
		"inputs":         len(inputs),
		"document_chars": len(documentText),
	}).Info("Requesting match verification")

	resp, err := v.model.GenerateContent(ctx, messages,
		llms.WithTemperature(v.temperature),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("match verification request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		v.logger.Warn("Model returned no choices, marking all inputs unverified")
		return unverifiedSet(inputs, "empty model response"), nil
	}

	var batch matchBatchWire
	if err := decodeJSON(resp.Choices[0].Content, &batch); err != nil {
		v.logger.WithError(err).Warn("Malformed verification response, marking all inputs unverified")
		return unverifiedSet(inputs, "malformed model response"), nil
	}

	set := v.validate(inputs, batch.Results)
	if missing := set.Missing(inputs); len(missing) > 0 {
		v.logger.WithField("cells", missing).Warn("Verifier omitted cells")
		for _, cell := range missing {
			set[cell] = models.Unverified(cell, "no result returned for cell")
		}
	}
	return set, nil
}

// validate keeps one well-formed result per known input cell.
func (v *Verifier) validate(inputs []models.InputCell, results []matchWire) models.MatchSet {
	known := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		known[in.Cell] = true
	}

	set := make(models.MatchSet, len(results))
	for _, r := range results {
		cell := strings.ToUpper(strings.TrimSpace(r.Cell))
		if !known[cell] {
			v.logger.WithField("cell", r.Cell).Warn("Ignoring result for unknown cell")
			continue
		}
		if _, dup := set[cell]; dup {
			v.logger.WithField("cell", cell).Warn("Ignoring duplicate result")
			continue
		}

		res := models.MatchResult{Cell: cell, Match: r.Match, Reason: r.Reason, SourcePath: nonEmpty(r.SourcePath)}
		if r.Match {
			res.MatchedText = nonEmpty(r.MatchedText)
			if res.MatchedText == nil {
				res = models.Unverified(cell, "matched without a source span: "+r.Reason)
			}
		}
		set[cell] = res
	}
	return set
}

func unverifiedSet(inputs []models.InputCell, reason string) models.MatchSet {
	set := make(models.MatchSet, len(inputs))
	for _, in := range inputs {
		set[in.Cell] = models.Unverified(in.Cell, reason)
	}
	return set
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
