package models

// Polygon is the four corners of a quadrilateral as x0,y0,...,x3,y3.
// Coordinates are in the unit of the owning page (inches for scanned PDFs).
type Polygon [8]float64

// Bounds returns the axis-aligned bounding box of the polygon.
func (p Polygon) Bounds() Rect {
	r := Rect{X0: p[0], Y0: p[1], X1: p[0], Y1: p[1]}
	for i := 2; i < len(p); i += 2 {
		r = r.extend(p[i], p[i+1])
	}
	return r
}

// Center returns the mean of the four corner points.
func (p Polygon) Center() (x, y float64) {
	for i := 0; i < len(p); i += 2 {
		x += p[i]
		y += p[i+1]
	}
	return x / 4, y / 4
}

// Rect is an axis-aligned box with a top-left origin (y grows downward).
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns X1-X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1-Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// Scale multiplies every coordinate by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{X0: r.X0 * f, Y0: r.Y0 * f, X1: r.X1 * f, Y1: r.Y1 * f}
}

// Union returns the smallest box containing r and o.
func (r Rect) Union(o Rect) Rect {
	return r.extend(o.X0, o.Y0).extend(o.X1, o.Y1)
}

func (r Rect) extend(x, y float64) Rect {
	if x < r.X0 {
		r.X0 = x
	}
	if x > r.X1 {
		r.X1 = x
	}
	if y < r.Y0 {
		r.Y0 = y
	}
	if y > r.Y1 {
		r.Y1 = y
	}
	return r
}

// LayoutResult is a persisted document layout analysis.
type LayoutResult struct {
	// Content is the full document text (markdown when requested from the service).
	Content string `json:"content"`
	// Pages lists the analyzed pages in document order.
	Pages []LayoutPage `json:"pages"`
}

// LayoutPage is one analyzed page.
type LayoutPage struct {
	// PageNumber is 1-based.
	PageNumber int `json:"pageNumber"`
	// Width is the page width in Unit.
	Width float64 `json:"width"`
	// Height is the page height in Unit.
	Height float64 `json:"height"`
	// Unit is "inch" for PDFs and "pixel" for images.
	Unit string `json:"unit"`
	// Lines in reading order.
	Lines []LayoutLine `json:"lines"`
	// Words in reading order.
	Words []LayoutWord `json:"words"`
}

// InInches reports whether the page geometry is in inches. An empty unit
// is treated as inches.
func (p LayoutPage) InInches() bool {
	return p.Unit == "" || p.Unit == "inch"
}

// LayoutLine is a line of text with its bounding polygon.
type LayoutLine struct {
	Content string  `json:"content"`
	Polygon Polygon `json:"polygon"`
}

// LayoutWord is a single word with its bounding polygon.
type LayoutWord struct {
	Content    string  `json:"content"`
	Polygon    Polygon `json:"polygon"`
	Confidence float64 `json:"confidence,omitempty"`
}
