// Package textnorm provides text transforms applied to OCR output before it
// reaches the verifier.
//
// Multilingual OCR tends to emit simplified or traditional Chinese forms of
// kanji and full-width digits in Japanese documents. These transforms fold
// such variants so that matched spans can be found verbatim in the layout.
package textnorm

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Transform rewrites text.
type Transform interface {
	Apply(s string) string
}

// Func adapts a function to Transform.
type Func func(string) string

// Apply calls f(s).
func (f Func) Apply(s string) string { return f(s) }

// Chain applies transforms in order.
type Chain []Transform

// Apply runs every transform of the chain on s.
func (c Chain) Apply(s string) string {
	for _, t := range c {
		s = t.Apply(s)
	}
	return s
}

// Identity leaves text unchanged.
var Identity Transform = Func(func(s string) string { return s })

// NFKC applies Unicode compatibility composition (full-width digits and
// letters become ASCII, compatibility ideographs become unified ones).
var NFKC Transform = Func(norm.NFKC.String)

// WidthFold maps full-width ASCII to half-width and half-width katakana to
// full-width, leaving everything else alone.
var WidthFold Transform = Func(width.Fold.String)

// kanjiVariants maps simplified and traditional Chinese forms to the form
// used in Japanese text.
var kanjiVariants = map[rune]rune{
	'长': '長', '门': '門', '时': '時', '间': '間', '计': '計',
	'书': '書', '车': '車', '东': '東', '圆': '円', '圓': '円',
	'为': '為', '爲': '為', '边': '辺', '邊': '辺', '对': '対',
	'對': '対', '图': '図', '圖': '図', '數': '数', '际': '際',
	'设': '設', '规': '規', '电': '電', '气': '気', '氣': '気',
	'压': '圧', '壓': '圧', '积': '積', '总': '総', '總': '総',
	'载': '載', '单': '単', '單': '単', '价': '価', '價': '価',
	'质': '質', '體': '体', '徑': '径', '实': '実', '實': '実',
	'寫': '写', '條': '条', '铁': '鉄', '鐵': '鉄', '钢': '鋼',
	'级': '級', '类': '類', '层': '層', '與': '与', '顶': '頂',
	'临': '臨', '區': '区', '满': '満', '滿': '満', '处': '処',
	'處': '処', '变': '変', '變': '変', '溫': '温', '淨': '浄',
	'净': '浄', '桥': '橋', '寬': '寛', '宽': '寛', '样': '様',
	'樣': '様', '线': '線',
}

// KanjiVariants folds Chinese kanji variants into Japanese forms.
var KanjiVariants Transform = Func(func(s string) string {
	out, _, err := transform.String(runes.Map(mapKanji), s)
	if err != nil {
		return s
	}
	return out
})

func mapKanji(r rune) rune {
	if v, ok := kanjiVariants[r]; ok {
		return v
	}
	return r
}

// Default is the chain applied to layout analysis output.
var Default = Chain{KanjiVariants, WidthFold}

// Parse builds a chain from a comma-separated list of transform names
// ("nfkc", "width", "kanji", "none"). Unknown names are reported.
func Parse(spec string) (Chain, []string) {
	var chain Chain
	var unknown []string
	for _, name := range strings.Split(spec, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "", "none":
		case "nfkc":
			chain = append(chain, NFKC)
		case "width":
			chain = append(chain, WidthFold)
		case "kanji":
			chain = append(chain, KanjiVariants)
		default:
			unknown = append(unknown, name)
		}
	}
	return chain, unknown
}
