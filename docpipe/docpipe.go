// CLAUDE:SUMMARY Core pipeline: runs PDF backends in order and rebuilds reading-order lines from positioned glyph runs.
// Package docpipe reconstructs reading-order text from page-described documents.
//
// A Backend opens the raw bytes and returns the positioned glyph runs of each
// page. The Pipeline sorts each page top-to-bottom then left-to-right, breaks
// lines on vertical jumps larger than Config.LineThreshold and concatenates
// the pages into one Document.
//
// Backends:
//   - ledongthuc: positioned text from github.com/ledongthuc/pdf (default, tried first)
//   - pdfcpu: content-stream text operators decoded via pdfcpu (fallback)
//
// Usage:
//
//	pipe := docpipe.New(docpipe.Config{})
//	doc, err := pipe.Extract(ctx, data)
//	if errors.Is(err, docpipe.ErrInsufficientText) { ... }
package docpipe

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode"
)

// Backend turns raw document bytes into per-page glyph runs.
// A Backend returns an error when it cannot open the document at all.
type Backend interface {
	Name() string
	Pages(ctx context.Context, data []byte) ([][]GlyphRun, error)
}

// imageProber is implemented by backends able to tell whether a document
// carries image streams (used to explain empty text layers).
type imageProber interface {
	HasImages(data []byte) bool
}

// Pipeline is the glyph reconstruction engine. It holds no per-document
// state and is safe for concurrent use.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger
}

// New creates a Pipeline with the given configuration.
func New(cfg Config) *Pipeline {
	cfg.defaults()
	return &Pipeline{
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// Config returns the effective configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Extract opens data with the configured backends and reconstructs its text.
// It returns an error matching ErrUnreadable when no backend can open the
// document, and ErrInsufficientText when the best text layer found has fewer
// than Config.MinTextChars non-whitespace characters.
func (p *Pipeline) Extract(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, unreadable("empty document", nil)
	}

	var (
		opened  bool
		lastErr error
		best    int
	)
	for _, b := range p.cfg.Backends {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages, err := b.Pages(ctx, data)
		if err != nil {
			p.logger.Debug("backend failed", "backend", b.Name(), "error", err)
			lastErr = err
			continue
		}
		if len(pages) == 0 {
			lastErr = fmt.Errorf("%s: document has no pages", b.Name())
			continue
		}
		opened = true

		doc := p.Reconstruct(pages)
		doc.Backend = b.Name()
		n := countNonSpace(doc.FullText)
		p.logger.Debug("backend extracted", "backend", b.Name(), "pages", doc.Pages, "chars", n)
		if n >= p.cfg.MinTextChars {
			doc.Quality = assessQuality(doc)
			doc.Quality.HasImages = p.hasImages(data)
			if doc.Quality.NeedsOCR() {
				p.logger.Warn("text layer looks garbled or thin",
					"backend", b.Name(),
					"printable_ratio", doc.Quality.PrintableRatio,
					"chars_per_page", doc.Quality.CharsPerPage)
			}
			return doc, nil
		}
		if n > best {
			best = n
		}
	}

	if !opened {
		return nil, unreadable("document cannot be opened", lastErr)
	}

	msg := fmt.Sprintf("document yielded %d non-whitespace characters (minimum %d)", best, p.cfg.MinTextChars)
	if p.hasImages(data) {
		msg += "; it looks like a scanned image without a text layer, OCR is required"
	}
	return nil, insufficientText(msg)
}

func (p *Pipeline) hasImages(data []byte) bool {
	for _, b := range p.cfg.Backends {
		if ip, ok := b.(imageProber); ok && ip.HasImages(data) {
			return true
		}
	}
	return false
}

// Reconstruct turns per-page glyph runs into a Document. Pages are numbered
// from 1 in slice order regardless of the Page field of the runs.
func (p *Pipeline) Reconstruct(pages [][]GlyphRun) *Document {
	doc := &Document{Pages: len(pages), Lines: []Line{}}
	var sb strings.Builder
	for i, runs := range pages {
		lines := ReconstructPage(runs, p.cfg.LineThreshold)
		for j := range lines {
			lines[j].Page = i + 1
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		for j, l := range lines {
			if j > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(l.Text)
		}
		doc.Lines = append(doc.Lines, lines...)
	}
	doc.FullText = sb.String()
	return doc
}

// ReconstructPage orders the runs of one page top-to-bottom (descending Y),
// then left-to-right (ascending X), and starts a new line whenever the
// vertical distance to the previous run exceeds threshold. Runs on the same
// line are joined by a single space. Empty lines are dropped.
func ReconstructPage(runs []GlyphRun, threshold float64) []Line {
	if len(runs) == 0 {
		return nil
	}
	sorted := make([]GlyphRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})

	var (
		lines []Line
		cur   strings.Builder
		lineY = sorted[0].Y
		lastY = sorted[0].Y
	)
	flush := func() {
		text := strings.TrimSpace(cur.String())
		if text != "" {
			lines = append(lines, Line{Text: text, Page: sorted[0].Page, Y: lineY})
		}
		cur.Reset()
	}

	for _, r := range sorted {
		if math.Abs(r.Y-lastY) > threshold {
			flush()
			lineY = r.Y
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(r.Text)
		lastY = r.Y
	}
	flush()
	return lines
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
