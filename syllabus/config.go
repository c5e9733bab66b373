// CLAUDE:SUMMARY Engine configuration: reconstruction settings, textbook segment cap, logger.
package syllabus

import (
	"log/slog"

	"github.com/hazyhaar/syllabus/docpipe"
)

// Config configures the syllabus engine.
type Config struct {
	// Docpipe configures text reconstruction (line threshold, minimum text, backends).
	Docpipe docpipe.Config `json:"docpipe" yaml:"docpipe"`

	// TextbookSegmentCap bounds the characters scanned after each textbook
	// trigger word (default: 500).
	TextbookSegmentCap int `json:"textbook_segment_cap" yaml:"textbook_segment_cap"`

	Logger *slog.Logger `json:"-" yaml:"-"`
}

func (c *Config) defaults() {
	if c.TextbookSegmentCap <= 0 {
		c.TextbookSegmentCap = 500
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Docpipe.Logger == nil {
		c.Docpipe.Logger = c.Logger
	}
}
