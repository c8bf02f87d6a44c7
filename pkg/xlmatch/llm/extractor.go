package llm

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/xuri/excelize/v2"
)

// InputExtractor asks a model to pick the input cells out of a sheet
// rendered with parser.SheetToHTML.
type InputExtractor struct {
	model  llms.Model
	logger logrus.FieldLogger
}

// NewInputExtractor creates an InputExtractor backed by model.
func NewInputExtractor(model llms.Model, logger logrus.FieldLogger) *InputExtractor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &InputExtractor{model: model, logger: logger}
}

// Extract returns the input cells the model identified in html. Cells with
// invalid coordinates or without a finite numeric value are dropped, as are
// repeated cells.
func (e *InputExtractor) Extract(ctx context.Context, sheetName, html string) ([]models.InputCell, error) {
	prompt := fmt.Sprintf(extractPromptTemplate, html)
	completion, err := llms.GenerateFromSinglePrompt(ctx, e.model, prompt,
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("input extraction request failed: %w", err)
	}

	var batch inputBatchWire
	if err := decodeJSON(completion, &batch); err != nil {
		return nil, fmt.Errorf("decode input extraction response: %w", err)
	}

	seen := make(map[string]bool, len(batch.Inputs))
	inputs := make([]models.InputCell, 0, len(batch.Inputs))
	for _, w := range batch.Inputs {
		cell := strings.ToUpper(strings.TrimSpace(w.Cell))
		log := e.logger.WithFields(logrus.Fields{"sheet": sheetName, "cell": w.Cell})
		if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
			log.Warn("Dropping extracted input with invalid cell reference")
			continue
		}
		if w.Value == nil || math.IsNaN(*w.Value) || math.IsInf(*w.Value, 0) {
			log.Warn("Dropping extracted input without a numeric value")
			continue
		}
		if seen[cell] {
			continue
		}
		seen[cell] = true

		in := models.InputCell{
			Sheet: sheetName,
			Cell:  cell,
			Value: *w.Value,
			Raw:   strconv.FormatFloat(*w.Value, 'f', -1, 64),
		}
		for i := 0; i < len(w.Metadata) && i < len(in.Metadata); i++ {
			in.Metadata[i] = strings.TrimSpace(w.Metadata[i])
		}
		inputs = append(inputs, in)
	}

	e.logger.WithFields(logrus.Fields{"sheet": sheetName, "inputs": len(inputs)}).Info("Extracted inputs with model")
	return inputs, nil
}
