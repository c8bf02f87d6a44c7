// Package parser reads workbooks and persisted layout analyses.
package parser

// PointsPerInch is the number of PDF points in one inch.
// Layout analysis of PDFs reports polygons in inches; PDF user space is in points.
const PointsPerInch = 72

// InchesToPoints converts a length in inches to PDF points.
func InchesToPoints(in float64) float64 {
	return in * PointsPerInch
}
