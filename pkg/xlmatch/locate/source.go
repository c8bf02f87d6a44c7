package locate

import (
	"strings"

	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/parser"
)

// FallbackBoxSize is the edge length, in points, of the placeholder box
// used when no word of the winning line can be refined.
const FallbackBoxSize = 10

// FontScale is the marker font size relative to the located box height.
const FontScale = 0.8

// Location is where a matched span was found in a source document.
type Location struct {
	// Page is the 1-based page number.
	Page int
	// Line is the text of the line that contained the span.
	Line string
	// Box is in points with a top-left origin.
	Box models.Rect
	// Refined is false when Box is the placeholder around the line centre.
	Refined bool
}

// FontSize returns the marker size derived from the box height.
func (l Location) FontSize() float64 {
	return l.Box.Height() * FontScale
}

// InLayout finds the first line, in page then line order, whose text
// contains matched. Within that page the box is the union of every word
// whose text is a substring of matched; when no word qualifies the box is
// a small square at the line's centre. ok is false when no line contains
// matched. Pages not measured in inches are skipped.
func InLayout(matched string, layout *models.LayoutResult) (loc Location, ok bool) {
	if matched == "" || layout == nil {
		return Location{}, false
	}

	for _, page := range layout.Pages {
		if !page.InInches() {
			continue
		}
		for _, line := range page.Lines {
			if !strings.Contains(line.Content, matched) {
				continue
			}

			loc = Location{Page: page.PageNumber, Line: line.Content}
			if box, found := wordsBox(matched, page.Words); found {
				loc.Box = box.Scale(parser.PointsPerInch)
				loc.Refined = true
			} else {
				cx, cy := line.Polygon.Center()
				x, y := parser.InchesToPoints(cx), parser.InchesToPoints(cy)
				loc.Box = models.Rect{X0: x, Y0: y, X1: x + FallbackBoxSize, Y1: y + FallbackBoxSize}
			}
			return loc, true
		}
	}
	return Location{}, false
}

func wordsBox(matched string, words []models.LayoutWord) (models.Rect, bool) {
	var polys []models.Polygon
	for _, w := range words {
		if w.Content != "" && strings.Contains(matched, w.Content) {
			polys = append(polys, w.Polygon)
		}
	}
	return UnionBox(polys)
}

// UnionBox returns the component-wise min/max over all polygon corners.
func UnionBox(polys []models.Polygon) (models.Rect, bool) {
	if len(polys) == 0 {
		return models.Rect{}, false
	}
	box := polys[0].Bounds()
	for _, p := range polys[1:] {
		box = box.Union(p.Bounds())
	}
	return box, true
}
