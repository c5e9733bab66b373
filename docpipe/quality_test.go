package docpipe

import "testing"

func TestPrintableRatio(t *testing.T) {
	tests := []struct {
		name string
		text string
		min  float64
		max  float64
	}{
		{"clean prose", "Midterm exam on October 14, worth 25% of the final grade.", 0.99, 1},
		{"whitespace controls", "Week 1\tIntro\r\nWeek 2", 0.99, 1},
		{"empty", "", 1, 1},
		{"control codes", "abcdefghi\x01\x02\x03\x04\x05", 0, 0.85},
		{"replacement chars", "\uFFFD\uFFFD\uFFFDok", 0, 0.5},
		{"private use glyphs", "ab\uE000\uE001\uE002\uE003", 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := printableRatio(tt.text)
			if got < tt.min || got > tt.max {
				t.Errorf("printableRatio = %f, want in [%f, %f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestWordlikeRatio(t *testing.T) {
	// WHAT: Single-glyph tokens drag the ratio down.
	// WHY: Detects character-by-character extraction.
	if r := wordlikeRatio("Students will analyze algorithms and data structures"); r < 0.8 {
		t.Errorf("prose ratio = %f", r)
	}
	if r := wordlikeRatio("S y l l a b u s F a l l"); r > 0.1 {
		t.Errorf("spaced glyph ratio = %f", r)
	}
	if r := wordlikeRatio("   "); r != 0 {
		t.Errorf("empty ratio = %f", r)
	}
}

func TestNeedsOCR(t *testing.T) {
	tests := []struct {
		name string
		q    ExtractionQuality
		want bool
	}{
		{"scan with caption", ExtractionQuality{CharsPerPage: 30, HasImages: true, PrintableRatio: 0.95}, true},
		{"garbled font", ExtractionQuality{CharsPerPage: 2000, PrintableRatio: 0.6}, true},
		{"thin but no images", ExtractionQuality{CharsPerPage: 30, PrintableRatio: 1}, false},
		{"clean text", ExtractionQuality{CharsPerPage: 1200, HasImages: true, PrintableRatio: 0.99}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.NeedsOCR(); got != tt.want {
				t.Errorf("NeedsOCR = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssessQuality(t *testing.T) {
	// WHAT: Metrics come from the reconstructed document, empty pages included.
	// WHY: A syllabus with a blank cover page must still report its density.
	doc := &Document{
		FullText: "Course Syllabus\nIntroduction to Algorithms",
		Lines:    []Line{{Text: "Course Syllabus", Page: 2}, {Text: "Introduction to Algorithms", Page: 2}},
		Pages:    2,
	}
	q := assessQuality(doc)
	if q.PageCount != 2 || q.LineCount != 2 || q.EmptyPages != 1 {
		t.Fatalf("quality = %+v", q)
	}
	if want := float64(countNonSpace(doc.FullText)) / 2; q.CharsPerPage != want {
		t.Errorf("chars per page = %f, want %f", q.CharsPerPage, want)
	}
	if q.PrintableRatio != 1 {
		t.Errorf("printable ratio = %f", q.PrintableRatio)
	}
}
