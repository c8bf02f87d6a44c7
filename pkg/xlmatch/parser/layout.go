package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// FileError reports a file that exists but could not be read or decoded.
type FileError struct {
	Path string
	Op   string // "read", "decode", "validate"
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// wire types accept polygons of any length so they can be validated.
type layoutWire struct {
	Content string     `json:"content"`
	Pages   []pageWire `json:"pages"`
}

type pageWire struct {
	PageNumber int        `json:"pageNumber"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Unit       string     `json:"unit"`
	Lines      []textWire `json:"lines"`
	Words      []textWire `json:"words"`
}

type textWire struct {
	Content    string    `json:"content"`
	Polygon    []float64 `json:"polygon"`
	Confidence float64   `json:"confidence"`
}

// LoadLayout reads a persisted layout analysis result.
func LoadLayout(path string) (*models.LayoutResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, &FileError{Path: path, Op: "read", Err: err}
	}
	return DecodeLayout(path, data)
}

// DecodeLayout decodes layout JSON; name is used in error messages only.
func DecodeLayout(name string, data []byte) (*models.LayoutResult, error) {
	var wire layoutWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &FileError{Path: name, Op: "decode", Err: err}
	}

	result := &models.LayoutResult{Content: wire.Content}
	for i, p := range wire.Pages {
		page := models.LayoutPage{
			PageNumber: p.PageNumber,
			Width:      p.Width,
			Height:     p.Height,
			Unit:       p.Unit,
		}
		if page.PageNumber == 0 {
			page.PageNumber = i + 1
		}
		for j, l := range p.Lines {
			poly, err := toPolygon(l.Polygon)
			if err != nil {
				return nil, &FileError{Path: name, Op: "validate", Err: fmt.Errorf("page %d line %d: %w", page.PageNumber, j, err)}
			}
			page.Lines = append(page.Lines, models.LayoutLine{Content: l.Content, Polygon: poly})
		}
		for j, w := range p.Words {
			poly, err := toPolygon(w.Polygon)
			if err != nil {
				return nil, &FileError{Path: name, Op: "validate", Err: fmt.Errorf("page %d word %d: %w", page.PageNumber, j, err)}
			}
			page.Words = append(page.Words, models.LayoutWord{Content: w.Content, Polygon: poly, Confidence: w.Confidence})
		}
		result.Pages = append(result.Pages, page)
	}
	return result, nil
}

func toPolygon(v []float64) (models.Polygon, error) {
	var p models.Polygon
	if len(v) != len(p) {
		return p, fmt.Errorf("polygon has %d values, want %d", len(v), len(p))
	}
	copy(p[:], v)
	return p, nil
}
