// Package locate projects verified matches back onto page coordinates.
//
// Two coordinate spaces are involved: layout analysis of the source PDFs
// reports polygons in inches, while text spans read from the rendered sheet
// PDF are already in points. Both are returned as models.Rect in points with
// a top-left origin.
package locate

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeNumber reduces a numeric string to a canonical form so that
// "1000", "1000.0" and "1,000.00" compare equal. Whole numbers are written
// without a decimal point, other numbers in their shortest form. Strings
// that are not numbers are returned trimmed.
func NormalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	f, ok := parseNumber(s)
	if !ok {
		return s
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	if a := math.Abs(f); a < 1e-4 || a >= 1e16 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && strings.Contains(s, ",") {
		f, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	}
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
