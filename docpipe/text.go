// CLAUDE:SUMMARY Text normalization: NFKC folding plus whitespace collapsing for flat and per-line matching.
package docpipe

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize folds compatibility characters (ligatures, non-breaking spaces,
// full-width digits) with NFKC, collapses every whitespace run, newlines
// included, to one space and trims the ends.
func Normalize(text string) string {
	return collapseWhitespace(norm.NFKC.String(text))
}

// NormalizeLine normalizes a single reconstructed line. Empty results mean
// the line carried only whitespace or control characters.
func NormalizeLine(line string) string {
	return Normalize(line)
}

func collapseWhitespace(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		if !unicode.IsPrint(r) {
			continue
		}
		sb.WriteRune(r)
		prevSpace = false
	}
	return strings.TrimSpace(sb.String())
}
