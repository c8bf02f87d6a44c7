package markup

import (
	"bytes"
	"fmt"
	"maps"
	"os"
	"sort"
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Mark is a run of marker text to draw on a page.
type Mark struct {
	// X and Y locate the text origin on the baseline, in points from the
	// top-left corner of the page.
	X, Y float64
	Text string
	Size float64
	// Color is RGB in [0,1].
	Color [3]float64
}

// Red is the marker color.
var Red = [3]float64{1, 0, 0}

// Document is a PDF held in memory for marking.
type Document interface {
	// NumPages returns the number of pages.
	NumPages() int
	// Draw queues m for the 1-based page.
	Draw(page int, m Mark) error
	// Save writes the document with all queued marks to path.
	Save(path string) error
}

// Opener loads the PDF at path.
type Opener func(path string) (Document, error)

const (
	markerFontName     = "HeiseiKakuGo-W5"
	markerFontEncoding = "UniJIS-UCS2-H"
	markerResourceName = "XlmMark"
)

// PDFDocument edits a PDF in memory with seehuhn.de/go/pdf. Marks are
// appended as an extra content stream per page; the page's existing
// content is wrapped in q/Q so the marks start from the default graphics
// state.
type PDFDocument struct {
	data    *pdf.Data
	pages   []pdf.Reference
	marks   map[int][]Mark
	font    pdf.Reference
	hasFont bool
}

// OpenPDF reads the whole PDF at path into memory.
func OpenPDF(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := pdf.Read(f, nil)
	if err != nil {
		return nil, fmt.Errorf("read pdf %s: %w", path, err)
	}
	pages, err := pagetree.FindPages(data)
	if err != nil {
		return nil, fmt.Errorf("page tree of %s: %w", path, err)
	}
	return &PDFDocument{data: data, pages: pages, marks: make(map[int][]Mark)}, nil
}

// NumPages implements Document.
func (d *PDFDocument) NumPages() int {
	return len(d.pages)
}

// Draw implements Document.
func (d *PDFDocument) Draw(page int, m Mark) error {
	if page < 1 || page > len(d.pages) {
		return fmt.Errorf("page %d out of range (1-%d)", page, len(d.pages))
	}
	if _, err := encodeUCS2(m.Text); err != nil {
		return err
	}
	d.marks[page] = append(d.marks[page], m)
	return nil
}

// Save implements Document.
func (d *PDFDocument) Save(path string) error {
	pageNums := make([]int, 0, len(d.marks))
	for p := range d.marks {
		pageNums = append(pageNums, p)
	}
	sort.Ints(pageNums)
	for _, p := range pageNums {
		if err := d.applyMarks(p, d.marks[p]); err != nil {
			return fmt.Errorf("page %d: %w", p, err)
		}
		delete(d.marks, p)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.data.Write(out); err != nil {
		out.Close()
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return out.Close()
}

func (d *PDFDocument) applyMarks(pageNo int, marks []Mark) error {
	ref := d.pages[pageNo-1]
	orig, err := pdf.GetDict(d.data, ref)
	if err != nil {
		return err
	}
	page := maps.Clone(orig)

	boxObj, err := d.inherited(page, "MediaBox")
	if err != nil {
		return err
	}
	box, err := pdf.GetRectangle(d.data, boxObj)
	if err != nil || box == nil {
		return fmt.Errorf("missing MediaBox: %v", err)
	}

	fontName, err := d.addFontResource(page)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	body.WriteString("Q\nq\n")
	for _, m := range marks {
		hex, _ := encodeUCS2(m.Text)
		fmt.Fprintf(&body, "BT\n/%s %s Tf\n%s %s %s rg\n%s %s Td\n<%s> Tj\nET\n",
			fontName, num(m.Size),
			num(m.Color[0]), num(m.Color[1]), num(m.Color[2]),
			num(box.LLx+m.X), num(box.URy-m.Y),
			hex)
	}
	body.WriteString("Q\n")

	contents, err := d.contentArray(page["Contents"])
	if err != nil {
		return err
	}
	open, err := d.putStream([]byte("q\n"))
	if err != nil {
		return err
	}
	closeAndMark, err := d.putStream(body.Bytes())
	if err != nil {
		return err
	}
	page["Contents"] = append(append(pdf.Array{open}, contents...), closeAndMark)

	return d.data.Put(ref, page)
}

// inherited looks key up on the page and then its ancestors.
func (d *PDFDocument) inherited(page pdf.Dict, key pdf.Name) (pdf.Object, error) {
	node := page
	for depth := 0; depth < 32 && node != nil; depth++ {
		if v, ok := node[key]; ok {
			return v, nil
		}
		parent, ok := node["Parent"]
		if !ok {
			break
		}
		var err error
		node, err = pdf.GetDict(d.data, parent)
		if err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// addFontResource registers the marker font in a copy of the page's
// resources and returns its resource name.
func (d *PDFDocument) addFontResource(page pdf.Dict) (pdf.Name, error) {
	resObj, err := d.inherited(page, "Resources")
	if err != nil {
		return "", err
	}
	res, err := pdf.GetDict(d.data, resObj)
	if err != nil {
		return "", err
	}
	res = maps.Clone(res)
	if res == nil {
		res = pdf.Dict{}
	}
	fonts, err := pdf.GetDict(d.data, res["Font"])
	if err != nil {
		return "", err
	}
	fonts = maps.Clone(fonts)
	if fonts == nil {
		fonts = pdf.Dict{}
	}

	name := pdf.Name(markerResourceName)
	for i := 1; ; i++ {
		if _, taken := fonts[name]; !taken {
			break
		}
		name = pdf.Name(markerResourceName + strconv.Itoa(i))
	}

	fontRef, err := d.markerFont()
	if err != nil {
		return "", err
	}
	fonts[name] = fontRef
	res["Font"] = fonts
	page["Resources"] = res
	return name, nil
}

// markerFont returns the shared, non-embedded Japanese CID font.
func (d *PDFDocument) markerFont() (pdf.Reference, error) {
	if d.hasFont {
		return d.font, nil
	}
	fontRef := d.data.Alloc()
	cidRef := d.data.Alloc()
	descRef := d.data.Alloc()

	desc := pdf.Dict{
		"Type":        pdf.Name("FontDescriptor"),
		"FontName":    pdf.Name(markerFontName),
		"Flags":       pdf.Integer(4),
		"FontBBox":    pdf.Array{pdf.Integer(-92), pdf.Integer(-250), pdf.Integer(1010), pdf.Integer(922)},
		"ItalicAngle": pdf.Integer(0),
		"Ascent":      pdf.Integer(880),
		"Descent":     pdf.Integer(-120),
		"CapHeight":   pdf.Integer(700),
		"StemV":       pdf.Integer(80),
	}
	cid := pdf.Dict{
		"Type":     pdf.Name("Font"),
		"Subtype":  pdf.Name("CIDFontType0"),
		"BaseFont": pdf.Name(markerFontName),
		"CIDSystemInfo": pdf.Dict{
			"Registry":   pdf.String("Adobe"),
			"Ordering":   pdf.String("Japan1"),
			"Supplement": pdf.Integer(2),
		},
		"FontDescriptor": descRef,
		"DW":             pdf.Integer(1000),
	}
	font := pdf.Dict{
		"Type":            pdf.Name("Font"),
		"Subtype":         pdf.Name("Type0"),
		"BaseFont":        pdf.Name(markerFontName + "-" + markerFontEncoding),
		"Encoding":        pdf.Name(markerFontEncoding),
		"DescendantFonts": pdf.Array{cidRef},
	}
	for ref, obj := range map[pdf.Reference]pdf.Object{descRef: desc, cidRef: cid, fontRef: font} {
		if err := d.data.Put(ref, obj); err != nil {
			return fontRef, err
		}
	}
	d.font, d.hasFont = fontRef, true
	return fontRef, nil
}

// contentArray returns the page contents as a list of stream references.
func (d *PDFDocument) contentArray(obj pdf.Object) (pdf.Array, error) {
	if obj == nil {
		return nil, nil
	}
	resolved, err := pdf.Resolve(d.data, obj)
	if err != nil {
		return nil, err
	}
	if arr, ok := resolved.(pdf.Array); ok {
		return append(pdf.Array{}, arr...), nil
	}
	return pdf.Array{obj}, nil
}

func (d *PDFDocument) putStream(body []byte) (pdf.Reference, error) {
	ref := d.data.Alloc()
	w, err := d.data.OpenStream(ref, nil)
	if err != nil {
		return ref, err
	}
	if _, err := w.Write(body); err != nil {
		w.Close()
		return ref, err
	}
	return ref, w.Close()
}

// encodeUCS2 hex-encodes s for the UCS-2 CMap of the marker font.
func encodeUCS2(s string) (string, error) {
	var b strings.Builder
	for _, r := range s {
		if r > 0xFFFF {
			return "", fmt.Errorf("marker %q: rune %U outside the basic plane", s, r)
		}
		fmt.Fprintf(&b, "%04X", r)
	}
	return b.String(), nil
}

func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "" || s == "-0" {
		return "0"
	}
	return s
}
