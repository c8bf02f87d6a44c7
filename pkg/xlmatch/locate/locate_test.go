package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/xlmatch-go/pkg/xlmatch/models"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1000.0", "1000"},
		{"3.5", "3.5"},
		{"abc", "abc"},
		{" 1000 ", "1000"},
		{"1,000.00", "1000"},
		{"1,000.5", "1000.5"},
		{"12345678.5", "12345678.5"},
		{"-0.25", "-0.25"},
		{"1e3", "1000"},
		{"NaN", "NaN"},
		{"", ""},
		{"1km", "1km"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeNumber(tt.in), "NormalizeNumber(%q)", tt.in)
	}
}

func rectPoly(x0, y0, x1, y1 float64) models.Polygon {
	return models.Polygon{x0, y0, x1, y0, x1, y1, x0, y1}
}

func TestUnionBox(t *testing.T) {
	polys := []models.Polygon{
		rectPoly(1, 2, 3, 4),
		rectPoly(0.5, 2.5, 2, 3),
		{2, 1.5, 5, 1.8, 4.5, 3.5, 2.2, 3.2},
	}
	box, ok := UnionBox(polys)
	require.True(t, ok)
	assert.Equal(t, models.Rect{X0: 0.5, Y0: 1.5, X1: 5, Y1: 4}, box)

	_, ok = UnionBox(nil)
	assert.False(t, ok)
}

func roadLayout(words ...models.LayoutWord) *models.LayoutResult {
	return &models.LayoutResult{Pages: []models.LayoutPage{
		{PageNumber: 1, Lines: []models.LayoutLine{
			{Content: "表紙", Polygon: rectPoly(1, 1, 2, 1.5)},
		}},
		{PageNumber: 2, Lines: []models.LayoutLine{
			{Content: "概要", Polygon: rectPoly(1, 1, 2, 1.5)},
			{Content: "この道路の長さは1kmである", Polygon: rectPoly(1, 2, 5, 2.5)},
		}, Words: words},
	}}
}

func TestInLayoutRefinesWithWords(t *testing.T) {
	layout := roadLayout(
		models.LayoutWord{Content: "この道路の", Polygon: rectPoly(1, 2, 2.2, 2.5)},
		models.LayoutWord{Content: "1km", Polygon: rectPoly(3, 2, 3.5, 2.25)},
	)

	loc, ok := InLayout("1km", layout)
	require.True(t, ok)
	assert.Equal(t, 2, loc.Page)
	assert.True(t, loc.Refined)
	assert.Equal(t, "この道路の長さは1kmである", loc.Line)
	assert.InDelta(t, 216, loc.Box.X0, 1e-9)
	assert.InDelta(t, 144, loc.Box.Y0, 1e-9)
	assert.InDelta(t, 252, loc.Box.X1, 1e-9)
	assert.InDelta(t, 162, loc.Box.Y1, 1e-9)
	assert.InDelta(t, 14.4, loc.FontSize(), 1e-9)
}

func TestInLayoutFallsBackToLineCentre(t *testing.T) {
	layout := roadLayout(models.LayoutWord{Content: "この道路の", Polygon: rectPoly(1, 2, 2.2, 2.5)})

	loc, ok := InLayout("1km", layout)
	require.True(t, ok)
	assert.False(t, loc.Refined)
	// centre of (1,2)-(5,2.5) inches is (3, 2.25) = (216, 162) points
	assert.Equal(t, models.Rect{X0: 216, Y0: 162, X1: 226, Y1: 172}, loc.Box)
	assert.InDelta(t, 8, loc.FontSize(), 1e-9)
}

func TestInLayoutUnlocated(t *testing.T) {
	_, ok := InLayout("2km", roadLayout())
	assert.False(t, ok)

	_, ok = InLayout("", roadLayout())
	assert.False(t, ok)

	_, ok = InLayout("1km", nil)
	assert.False(t, ok)
}

func TestInLayoutSkipsPixelPages(t *testing.T) {
	layout := roadLayout(models.LayoutWord{Content: "1km", Polygon: rectPoly(3, 2, 3.5, 2.25)})
	layout.Pages[1].Unit = "pixel"
	layout.Pages = append(layout.Pages, models.LayoutPage{
		PageNumber: 3, Unit: "inch",
		Lines: []models.LayoutLine{{Content: "延長1km", Polygon: rectPoly(1, 1, 2, 1.25)}},
		Words: []models.LayoutWord{{Content: "1km", Polygon: rectPoly(1.5, 1, 2, 1.25)}},
	})

	loc, ok := InLayout("1km", layout)
	require.True(t, ok)
	assert.Equal(t, 3, loc.Page)
	assert.InDelta(t, 108, loc.Box.X0, 1e-9)
	assert.InDelta(t, 72, loc.Box.Y0, 1e-9)

	layout.Pages = layout.Pages[:2]
	_, ok = InLayout("1km", layout)
	assert.False(t, ok)
}

func TestInSpans(t *testing.T) {
	spans := []Span{
		{Text: "長さ", Box: models.Rect{X0: 10, Y0: 10, X1: 40, Y1: 22}},
		{Text: "1,000.0", Box: models.Rect{X0: 60, Y0: 10, X1: 90, Y1: 22}},
		{Text: "1000", Box: models.Rect{X0: 60, Y0: 40, X1: 90, Y1: 52}},
	}

	s, ok := InSpans("1000", spans)
	require.True(t, ok)
	assert.Equal(t, spans[1], s)

	_, ok = InSpans("3.5", spans)
	assert.False(t, ok)

	_, ok = InSpans("", spans)
	assert.False(t, ok)
}
