// CLAUDE:SUMMARY Configuration struct and defaults for the docpipe glyph reconstruction pipeline.
package docpipe

import "log/slog"

// Config configures the document pipeline.
type Config struct {
	// LineThreshold is the vertical distance, in layout units, above which two
	// glyph runs belong to different lines (default: 5).
	LineThreshold float64 `json:"line_threshold" yaml:"line_threshold"`

	// MinTextChars is the minimum number of non-whitespace characters a
	// document must yield to be considered text-bearing (default: 100).
	MinTextChars int `json:"min_text_chars" yaml:"min_text_chars"`

	// Backends are tried in order. Default: ledongthuc, then pdfcpu content streams.
	Backends []Backend `json:"-" yaml:"-"`

	// Logger for debug/error messages.
	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.LineThreshold <= 0 {
		c.LineThreshold = 5
	}
	if c.MinTextChars <= 0 {
		c.MinTextChars = 100
	}
	if len(c.Backends) == 0 {
		c.Backends = []Backend{NewLedongthucBackend(), NewContentStreamBackend()}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
