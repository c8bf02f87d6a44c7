package locate

import "github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"

// Span is a piece of text on a rendered page with its box in points,
// top-left origin.
type Span struct {
	Text string
	Box  models.Rect
}

// InSpans returns the first span whose normalized numeric form equals the
// normalized cellValue.
func InSpans(cellValue string, spans []Span) (Span, bool) {
	target := NormalizeNumber(cellValue)
	if target == "" {
		return Span{}, false
	}
	for _, s := range spans {
		if NormalizeNumber(s.Text) == target {
			return s, true
		}
	}
	return Span{}, false
}
