// CLAUDE:SUMMARY Scoring of the reconstructed text layer: printable ratio, word-like ratio, chars per page, OCR verdict.
package docpipe

import "strings"

// ExtractionQuality describes the text layer a backend produced.
type ExtractionQuality struct {
	PageCount      int     `json:"page_count"`
	LineCount      int     `json:"line_count"`
	EmptyPages     int     `json:"empty_pages"`
	CharsPerPage   float64 `json:"chars_per_page"`
	PrintableRatio float64 `json:"printable_ratio"`
	WordlikeRatio  float64 `json:"wordlike_ratio"`
	HasImages      bool    `json:"has_images"`
}

// NeedsOCR reports a text layer too thin or too garbled to trust: a scan
// with a stray caption, or a CID font without a ToUnicode map.
func (q *ExtractionQuality) NeedsOCR() bool {
	if q.PrintableRatio < 0.85 {
		return true
	}
	return q.HasImages && q.CharsPerPage < 50
}

func assessQuality(doc *Document) *ExtractionQuality {
	q := &ExtractionQuality{
		PageCount:      doc.Pages,
		LineCount:      len(doc.Lines),
		PrintableRatio: printableRatio(doc.FullText),
		WordlikeRatio:  wordlikeRatio(doc.FullText),
	}
	if doc.Pages > 0 {
		q.CharsPerPage = float64(countNonSpace(doc.FullText)) / float64(doc.Pages)
	}
	seen := make(map[int]bool, doc.Pages)
	for _, l := range doc.Lines {
		seen[l.Page] = true
	}
	if doc.Pages > len(seen) {
		q.EmptyPages = doc.Pages - len(seen)
	}
	return q
}

// printableRatio is the share of runes that are not replacement characters,
// private-use glyphs or control codes. Empty text scores 1.
func printableRatio(text string) float64 {
	var total, bad int
	for _, r := range text {
		total++
		switch {
		case r == '\n', r == '\r', r == '\t':
		case r < 0x20, r == 0xFFFD, r >= 0xE000 && r <= 0xF8FF:
			bad++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(total-bad) / float64(total)
}

// wordlikeRatio is the share of whitespace tokens 2 to 15 runes long.
// Per-glyph extraction yields mostly single-rune tokens.
func wordlikeRatio(text string) float64 {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}
	n := 0
	for _, tok := range tokens {
		if l := len([]rune(tok)); l >= 2 && l <= 15 {
			n++
		}
	}
	return float64(n) / float64(len(tokens))
}
