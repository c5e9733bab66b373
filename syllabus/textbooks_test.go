package syllabus

import (
	"fmt"
	"strings"
	"testing"
)

func TestExtractTextbooks_TitleByAuthor(t *testing.T) {
	// WHAT: A "Title by Author" pair after a trigger is enriched with edition, ISBN and cost.
	// WHY: The common single-textbook syllabus must produce a complete entry.
	text := "Required Textbook: Calculus: Early Transcendentals by James Stewart, 8th Edition, ISBN: 978-1-285-74155-0"
	books := extractTextbooks(sourceFromText(text), 500)
	if len(books) != 1 {
		t.Fatalf("got %d textbooks, want 1: %+v", len(books), books)
	}
	b := books[0]
	if b.Title != "Calculus: Early Transcendentals" {
		t.Errorf("title = %q", b.Title)
	}
	if b.Author != "James Stewart" {
		t.Errorf("author = %q", b.Author)
	}
	if b.Edition != "8th Edition" {
		t.Errorf("edition = %q", b.Edition)
	}
	if b.ISBN != "9781285741550" {
		t.Errorf("isbn = %q", b.ISBN)
	}
	if !b.Required || !b.LibraryAvailable {
		t.Error("expected required textbook available at the library")
	}
	if b.EstimatedCost != "$100-$200" {
		t.Errorf("cost = %q", b.EstimatedCost)
	}
	if !contains(b.FreeAlternatives, "OpenStax Mathematics") {
		t.Errorf("free alternatives = %v", b.FreeAlternatives)
	}
	if !strings.HasPrefix(b.AmazonLink, "https://www.amazon.com/s?k=Calculus") {
		t.Errorf("amazon link = %q", b.AmazonLink)
	}
}

func TestExtractTextbooks_Optional(t *testing.T) {
	text := "Recommended reading: Introduction to Algorithms by Thomas Cormen"
	books := extractTextbooks(sourceFromText(text), 500)
	if len(books) != 1 {
		t.Fatalf("got %d textbooks, want 1", len(books))
	}
	b := books[0]
	if b.Title != "Introduction to Algorithms" || b.Author != "Thomas Cormen" {
		t.Errorf("got %q by %q", b.Title, b.Author)
	}
	if b.Required || b.LibraryAvailable {
		t.Error("recommended reading marked required")
	}
	if b.EstimatedCost != "$40-$80" {
		t.Errorf("cost = %q", b.EstimatedCost)
	}
	if !contains(b.FreeAlternatives, "MIT OpenCourseWare") {
		t.Errorf("free alternatives = %v", b.FreeAlternatives)
	}
}

func TestExtractTextbooks_CapAndDedup(t *testing.T) {
	// WHAT: At most five textbooks are returned, duplicates by title dropped.
	// WHY: Reading lists can be long; the record keeps a bounded list.
	words := []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon", "Zeta", "Eta"}
	var sb strings.Builder
	sb.WriteString("Readings: Alpha Methods by Ann Lee. ")
	for _, w := range words {
		fmt.Fprintf(&sb, "%s Methods by Ann Lee. ", w)
	}
	books := extractTextbooks(sourceFromText(sb.String()), 500)
	if len(books) != MaxTextbooks {
		t.Fatalf("got %d textbooks, want %d", len(books), MaxTextbooks)
	}
	if books[0].Title != "Alpha Methods" || books[1].Title != "Beta Methods" {
		t.Errorf("order = %q, %q", books[0].Title, books[1].Title)
	}
}

func TestExtractTextbooks_LabelFallback(t *testing.T) {
	books := extractTextbooks(sourceFromText("Textbook: Lecture notes posted weekly. Grading follows."), 500)
	if len(books) != 1 {
		t.Fatalf("got %d textbooks, want 1", len(books))
	}
	b := books[0]
	if b.Title != "Lecture notes posted weekly" || b.Author != "Author Not Specified" {
		t.Errorf("got %+v", b)
	}
	if b.EstimatedCost != "$50-$150" {
		t.Errorf("cost = %q", b.EstimatedCost)
	}
}

func TestExtractTextbooks_None(t *testing.T) {
	books := extractTextbooks(sourceFromText("No books for this course."), 500)
	if books == nil || len(books) != 0 {
		t.Errorf("books = %#v, want empty non-nil slice", books)
	}
}

func TestExtractTextbooks_SegmentCap(t *testing.T) {
	// WHAT: A small segment cap keeps the pair out of reach and the label fallback takes over.
	// WHY: The cap bounds how far a trigger word reaches into the text.
	text := "Required Textbook: Calculus: Early Transcendentals by James Stewart, 8th Edition"
	rec := New(Config{TextbookSegmentCap: 20}).AnalyzeText(text, "")
	if len(rec.Textbooks) != 1 {
		t.Fatalf("got %d textbooks, want 1", len(rec.Textbooks))
	}
	if rec.Textbooks[0].Author != "Author Not Specified" {
		t.Errorf("author = %q, want label fallback", rec.Textbooks[0].Author)
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"978-1-285-74155-0", "9781285741550"},
		{"0-13-110362-8", "0131103628"},
		{"0 8044 2957 x", "080442957X"},
		{"12345", ""},
	}
	for _, tt := range tests {
		if got := normalizeISBN(tt.in); got != tt.want {
			t.Errorf("normalizeISBN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		title    string
		required bool
		want     string
	}{
		{"Introduction to Psychology", true, "$80-$150"},
		{"Principles of Economics", false, "$40-$80"},
		{"Advanced Quantum Mechanics", true, "$150-$300"},
		{"Graduate Topology", false, "$80-$150"},
		{"Organic Chemistry", true, "$100-$200"},
		{"Organic Chemistry", false, "$50-$100"},
	}
	for _, tt := range tests {
		if got := estimateCost(tt.title, tt.required); got != tt.want {
			t.Errorf("estimateCost(%q, %v) = %q, want %q", tt.title, tt.required, got, tt.want)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
