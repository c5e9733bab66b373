package docpipe

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeBackend returns canned pages or a canned error.
type fakeBackend struct {
	name   string
	pages  [][]GlyphRun
	err    error
	images bool
	calls  int
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Pages(_ context.Context, _ []byte) ([][]GlyphRun, error) {
	f.calls++
	return f.pages, f.err
}

func (f *fakeBackend) HasImages(_ []byte) bool { return f.images }

func run(text string, x, y float64) GlyphRun {
	return GlyphRun{Text: text, X: x, Y: y}
}

func longPage() []GlyphRun {
	return []GlyphRun{
		run("CSC 148 Introduction to Computer Science", 72, 720),
		run("Instructor: Dr. Jane Smith", 72, 700),
		run("Email: jane.smith@utoronto.ca", 72, 680),
		run("Lectures Monday and Wednesday 10:00 - 11:30", 72, 660),
	}
}

func TestReconstructPage_Order(t *testing.T) {
	// WHAT: Runs are ordered by descending Y, then ascending X.
	// WHY: Reading order must not depend on content-stream order.
	runs := []GlyphRun{
		run("World", 200, 700),
		run("Second", 72, 680),
		run("Hello", 72, 700),
	}
	lines := ReconstructPage(runs, 5)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %+v", len(lines), lines)
	}
	if lines[0].Text != "Hello World" || lines[1].Text != "Second" {
		t.Errorf("lines = %q, %q", lines[0].Text, lines[1].Text)
	}
}

func TestReconstructPage_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		dy        float64
		threshold float64
		wantLines int
	}{
		{"same baseline", 0, 5, 1},
		{"jitter under threshold", 3, 5, 1},
		{"exactly threshold", 5, 5, 1},
		{"above threshold", 5.5, 5, 2},
		{"larger threshold merges", 8, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := []GlyphRun{run("a", 10, 100), run("b", 20, 100-tt.dy)}
			lines := ReconstructPage(runs, tt.threshold)
			if len(lines) != tt.wantLines {
				t.Errorf("got %d lines, want %d", len(lines), tt.wantLines)
			}
		})
	}
}

func TestReconstructPage_DropsEmpty(t *testing.T) {
	// WHAT: Whitespace-only lines are not emitted.
	// WHY: Layout spacers must not create phantom lines.
	runs := []GlyphRun{run("   ", 10, 700), run("Text", 10, 600)}
	lines := ReconstructPage(runs, 5)
	if len(lines) != 1 || lines[0].Text != "Text" {
		t.Errorf("lines = %+v", lines)
	}
	if ReconstructPage(nil, 5) != nil {
		t.Error("expected nil for empty page")
	}
}

func TestReconstructPage_DoesNotMutateInput(t *testing.T) {
	runs := []GlyphRun{run("b", 10, 100), run("a", 10, 200)}
	ReconstructPage(runs, 5)
	if runs[0].Text != "b" {
		t.Error("input slice was reordered")
	}
}

func TestReconstruct_PageBreaks(t *testing.T) {
	// WHAT: Pages are separated by a blank line and lines carry page numbers.
	// WHY: Extractors rely on line-level text and page boundaries.
	pipe := New(Config{})
	doc := pipe.Reconstruct([][]GlyphRun{
		{run("Page one", 10, 700)},
		{},
		{run("Page three", 10, 700)},
	})
	if doc.FullText != "Page one\n\n\n\nPage three" {
		t.Errorf("full text = %q", doc.FullText)
	}
	if doc.Pages != 3 || len(doc.Lines) != 2 {
		t.Fatalf("pages=%d lines=%d", doc.Pages, len(doc.Lines))
	}
	if doc.Lines[1].Page != 3 {
		t.Errorf("second line page = %d, want 3", doc.Lines[1].Page)
	}
}

func TestExtract_FirstBackendWins(t *testing.T) {
	first := &fakeBackend{name: "first", pages: [][]GlyphRun{longPage()}}
	second := &fakeBackend{name: "second", pages: [][]GlyphRun{longPage()}}
	pipe := New(Config{Backends: []Backend{first, second}})

	doc, err := pipe.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Backend != "first" {
		t.Errorf("backend = %q, want first", doc.Backend)
	}
	if second.calls != 0 {
		t.Error("second backend should not run when the first succeeds")
	}
	if doc.Quality == nil || doc.Quality.PageCount != 1 {
		t.Errorf("quality = %+v", doc.Quality)
	}
}

func TestExtract_FallbackOnOpenFailure(t *testing.T) {
	// WHAT: A backend that cannot open the document is skipped.
	// WHY: Malformed-but-recoverable PDFs open in one library and not the other.
	broken := &fakeBackend{name: "broken", err: errors.New("bad xref")}
	good := &fakeBackend{name: "good", pages: [][]GlyphRun{longPage()}}
	pipe := New(Config{Backends: []Backend{broken, good}})

	doc, err := pipe.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Backend != "good" {
		t.Errorf("backend = %q, want good", doc.Backend)
	}
}

func TestExtract_FallbackOnThinText(t *testing.T) {
	thin := &fakeBackend{name: "thin", pages: [][]GlyphRun{{run("x", 0, 0)}}}
	good := &fakeBackend{name: "good", pages: [][]GlyphRun{longPage()}}
	pipe := New(Config{Backends: []Backend{thin, good}})

	doc, err := pipe.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Backend != "good" {
		t.Errorf("backend = %q, want good", doc.Backend)
	}
}

func TestExtract_Unreadable(t *testing.T) {
	// WHAT: No backend opens the document → ErrUnreadable.
	// WHY: Corrupt uploads must be reported, not parsed into sentinels.
	a := &fakeBackend{name: "a", err: errors.New("corrupt")}
	b := &fakeBackend{name: "b", pages: [][]GlyphRun{}}
	pipe := New(Config{Backends: []Backend{a, b}})

	_, err := pipe.Extract(context.Background(), []byte("junk"))
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
	var ee *ExtractionError
	if !errors.As(err, &ee) || ee.Kind != KindUnreadable {
		t.Errorf("expected ExtractionError with kind unreadable, got %#v", err)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	pipe := New(Config{Backends: []Backend{&fakeBackend{name: "a"}}})
	if _, err := pipe.Extract(context.Background(), nil); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
}

func TestExtract_InsufficientText(t *testing.T) {
	tests := []struct {
		name    string
		images  bool
		wantOCR bool
	}{
		{"no images", false, false},
		{"scanned", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{name: "a", pages: [][]GlyphRun{{run("Syllabus", 0, 700)}}, images: tt.images}
			pipe := New(Config{Backends: []Backend{b}})
			_, err := pipe.Extract(context.Background(), []byte("%PDF-1.4"))
			if !errors.Is(err, ErrInsufficientText) {
				t.Fatalf("err = %v, want ErrInsufficientText", err)
			}
			if errors.Is(err, ErrUnreadable) {
				t.Error("insufficient text must not match ErrUnreadable")
			}
			if got := strings.Contains(err.Error(), "OCR"); got != tt.wantOCR {
				t.Errorf("OCR hint = %v, want %v (%v)", got, tt.wantOCR, err)
			}
		})
	}
}

func TestExtract_MinTextConfigurable(t *testing.T) {
	b := &fakeBackend{name: "a", pages: [][]GlyphRun{{run("Syllabus", 0, 700)}}}
	pipe := New(Config{Backends: []Backend{b}, MinTextChars: 5})
	if _, err := pipe.Extract(context.Background(), []byte("%PDF-1.4")); err != nil {
		t.Fatalf("unexpected error with lowered minimum: %v", err)
	}
}

func TestExtract_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pipe := New(Config{Backends: []Backend{&fakeBackend{name: "a", pages: [][]GlyphRun{longPage()}}}})
	if _, err := pipe.Extract(ctx, []byte("%PDF-1.4")); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Hello \n\n world\t ", "Hello world"},
		{"eﬃcient", "efficient"},
		{"Room 101", "Room 101"},
		{"ＣＳＣ 148", "CSC 148"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := NormalizeLine("  Office:   BA 1234 "); got != "Office: BA 1234" {
		t.Errorf("NormalizeLine = %q", got)
	}
}
