package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// builtinDateFormats are the built-in number format IDs that render a
// serial number as a date or time, including the East Asian locale ones.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 32: true, 33: true, 34: true, 35: true, 36: true,
	45: true, 46: true, 47: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

// isDateCell reports whether the cell's number format displays a date or
// time. Excel stores those as plain serial numbers.
func isDateCell(f *excelize.File, sheetName, cellName string) bool {
	styleID, err := f.GetCellStyle(sheetName, cellName)
	if err != nil || styleID == 0 {
		return false
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return builtinDateFormats[style.NumFmt]
}

// isDateFormat looks for date or time tokens in a custom format code,
// ignoring quoted literals, escaped characters and bracketed modifiers
// other than elapsed time.
func isDateFormat(code string) bool {
	var b strings.Builder
	lower := strings.ToLower(code)
	for i := 0; i < len(lower); i++ {
		switch c := lower[i]; c {
		case '"':
			end := strings.IndexByte(lower[i+1:], '"')
			if end < 0 {
				i = len(lower)
			} else {
				i += end + 1
			}
		case '\\', '_', '*':
			i++
		case '[':
			end := strings.IndexByte(lower[i:], ']')
			if end < 0 {
				i = len(lower)
				continue
			}
			inner := lower[i+1 : i+end]
			if inner != "" && strings.Trim(inner, "hms") == "" {
				return true
			}
			i += end
		default:
			b.WriteByte(c)
		}
	}
	return strings.ContainsAny(b.String(), "ymdhs")
}
