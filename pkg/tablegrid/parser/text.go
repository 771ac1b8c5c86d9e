package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText returns s in Unicode NFC with surrounding whitespace
// removed. Imported cell text goes through it so that equal-looking text
// compares and measures equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// collapseSpace replaces every run of whitespace with a single space, the
// way HTML renders text.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
