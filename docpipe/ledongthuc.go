// CLAUDE:SUMMARY Positioned-text backend over github.com/ledongthuc/pdf: merges per-glyph output into word runs.
// CLAUDE:EXPORTS LedongthucBackend, NewLedongthucBackend
package docpipe

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// glyphs closer than this fraction of the font size belong to the same word
	wordSpaceMultiplier = 0.3
	// baseline wobble tolerated inside one run
	baselineTolerance = 0.5
)

// LedongthucBackend extracts positioned glyphs with github.com/ledongthuc/pdf.
// The library reports one Text per glyph; adjacent glyphs on a shared
// baseline are merged into word runs before being handed to the pipeline.
type LedongthucBackend struct{}

// NewLedongthucBackend returns the ledongthuc/pdf backend.
func NewLedongthucBackend() *LedongthucBackend { return &LedongthucBackend{} }

func (b *LedongthucBackend) Name() string { return "ledongthuc" }

// Pages implements Backend.
func (b *LedongthucBackend) Pages(ctx context.Context, data []byte) (pages [][]GlyphRun, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("ledongthuc: panic: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("ledongthuc open: %w", err)
	}

	n := r.NumPage()
	pages = make([][]GlyphRun, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pages = append(pages, pageRuns(r, i))
	}
	return pages, nil
}

// pageRuns returns the word runs of one page. A page whose content cannot
// be decoded yields no runs rather than failing the document.
func pageRuns(r *pdf.Reader, pageNr int) (runs []GlyphRun) {
	defer func() {
		if recover() != nil {
			runs = nil
		}
	}()
	page := r.Page(pageNr)
	if page.V.IsNull() {
		return nil
	}
	return mergeGlyphs(page.Content().Text, pageNr)
}

// mergeGlyphs folds per-glyph texts, in content order, into word runs.
// A run ends on whitespace, a baseline change, or a horizontal gap wider
// than wordSpaceMultiplier times the font size.
func mergeGlyphs(texts []pdf.Text, pageNr int) []GlyphRun {
	var (
		runs []GlyphRun
		cur  strings.Builder
		run  GlyphRun
		endX float64
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			run.Text = s
			runs = append(runs, run)
		}
		cur.Reset()
	}

	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		if cur.Len() > 0 {
			gap := t.X - endX
			size := t.FontSize
			if size <= 0 {
				size = 10
			}
			if math.Abs(t.Y-run.Y) > baselineTolerance || gap > size*wordSpaceMultiplier || gap < -size {
				flush()
			}
		}
		if cur.Len() == 0 {
			run = GlyphRun{Page: pageNr, X: t.X, Y: t.Y}
		}
		cur.WriteString(t.S)
		endX = t.X + t.W
	}
	flush()
	return runs
}
