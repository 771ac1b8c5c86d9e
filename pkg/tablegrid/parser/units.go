// Package parser converts tables between the document model and external
// formats: xlsx worksheets and HTML tables.
package parser

import "math"

// MaxDigitWidth is the pixel width of the widest digit in the default
// 11pt Calibri font at 96 DPI. Excel column widths are measured in these.
const MaxDigitWidth = 7

// cellPadding is the pixel padding Excel adds around a column's content.
const cellPadding = 5

// defaultColWidth is the width excelize reports for columns without an
// explicit width.
const defaultColWidth = 9.140625

// ColWidthToPixels converts an Excel column width (in characters) to
// pixels at 96 DPI.
func ColWidthToPixels(width float64) int {
	if width <= 0 {
		return 0
	}
	return int(math.Round(width*MaxDigitWidth)) + cellPadding
}

// PixelsToColWidth converts a pixel width back to an Excel column width,
// rounded to 1/256 of a character as Excel stores it.
func PixelsToColWidth(px int) float64 {
	if px <= cellPadding {
		return 0
	}
	w := float64(px-cellPadding) / MaxDigitWidth
	return math.Round(w*256) / 256
}
