package markup

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tsawler/tabula/reader"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/locate"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

// SpanSource lists the text spans drawn on a page of a PDF.
type SpanSource interface {
	// Spans returns the spans of the 1-based page, boxes in points with a
	// top-left origin.
	Spans(path string, page int) ([]locate.Span, error)
}

// TabulaSpans reads spans with the tabula PDF reader. Text fragments are
// split on white space so each span holds a single word.
type TabulaSpans struct{}

// Spans implements SpanSource.
func (TabulaSpans) Spans(path string, page int) ([]locate.Span, error) {
	r, err := reader.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	p, err := r.GetPage(page - 1)
	if err != nil {
		return nil, fmt.Errorf("page %d of %s: %w", page, path, err)
	}
	height, err := p.Height()
	if err != nil {
		return nil, fmt.Errorf("page %d of %s: %w", page, path, err)
	}
	fragments, err := r.ExtractTextFragments(p)
	if err != nil {
		return nil, fmt.Errorf("extract text from page %d of %s: %w", page, path, err)
	}

	var spans []locate.Span
	for _, f := range fragments {
		// PDF space has its origin at the bottom left and Y on the baseline.
		box := models.Rect{
			X0: f.X,
			Y0: height - (f.Y + f.Height),
			X1: f.X + f.Width,
			Y1: height - f.Y,
		}
		spans = append(spans, splitWords(f.Text, box)...)
	}
	return spans, nil
}

// splitWords divides a fragment into words, apportioning its width by rune
// count.
func splitWords(text string, box models.Rect) []locate.Span {
	total := utf8.RuneCountInString(text)
	if total == 0 {
		return nil
	}
	perRune := box.Width() / float64(total)

	var spans []locate.Span
	offset := 0
	for _, field := range strings.FieldsFunc(text, unicode.IsSpace) {
		start := strings.Index(text[offset:], field) + offset
		runesBefore := utf8.RuneCountInString(text[:start])
		n := utf8.RuneCountInString(field)
		spans = append(spans, locate.Span{
			Text: field,
			Box: models.Rect{
				X0: box.X0 + float64(runesBefore)*perRune,
				Y0: box.Y0,
				X1: box.X0 + float64(runesBefore+n)*perRune,
				Y1: box.Y1,
			},
		})
		offset = start + len(field)
	}
	return spans
}
