// CLAUDE:SUMMARY Defines GlyphRun, Line and Document types for the docpipe reconstruction pipeline.
package docpipe

// GlyphRun is a contiguous span of positioned text on a page, as emitted by
// a document text layer. Y grows upward (PDF user space), so the top of the
// page has the largest Y.
type GlyphRun struct {
	Text string  `json:"text"`
	Page int     `json:"page"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Line is one reconstructed reading-order line.
type Line struct {
	Text string  `json:"text"`
	Page int     `json:"page"`
	Y    float64 `json:"y"`
}

// Document is the result of reconstructing a document's text layer.
type Document struct {
	FullText string             `json:"full_text"` // page lines newline-joined, blank line between pages
	Lines    []Line             `json:"lines"`
	Pages    int                `json:"pages"`
	Backend  string             `json:"backend,omitempty"` // backend that produced the glyphs
	Quality  *ExtractionQuality `json:"quality,omitempty"`
}

// Flat returns the normalized single-space form of the full text.
func (d *Document) Flat() string {
	return Normalize(d.FullText)
}
