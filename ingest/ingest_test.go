package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/hazyhaar/syllabus/dbopen"
	"github.com/hazyhaar/syllabus/docpipe"
	"github.com/hazyhaar/syllabus/syllabus"
)

const pdfHeader = "%PDF-1.4\n"

const economics = `ECO101H1 Principles of Microeconomics
Instructor: Dr. Alan Brooks
Email: alan.brooks@utoronto.ca
Office Hours: Tuesday 3:00 - 5:00 pm
Lectures: TTh 1:00 - 2:30 pm
Location: Sidney Smith Hall 2117
Grading:
Problem Sets 20%
Midterm Exam 30%
Final Exam 50%`

// textBackend treats everything after the %PDF- header line as the text
// layer, one glyph run per line.
type textBackend struct{}

func (textBackend) Name() string { return "text" }

func (textBackend) Pages(_ context.Context, data []byte) ([][]docpipe.GlyphRun, error) {
	body, ok := bytes.CutPrefix(data, []byte(pdfHeader))
	if !ok {
		return nil, errors.New("not a test document")
	}
	var runs []docpipe.GlyphRun
	for i, l := range strings.Split(string(body), "\n") {
		runs = append(runs, docpipe.GlyphRun{Text: l, X: 72, Y: 760 - 14*float64(i), Page: 1})
	}
	return [][]docpipe.GlyphRun{runs}, nil
}

func (textBackend) HasImages([]byte) bool { return false }

func pdfOf(text string) []byte { return []byte(pdfHeader + text + "\n%%EOF\n") }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestIngester(t *testing.T, opts ...Option) *Ingester {
	t.Helper()
	store, err := NewStore(dbopen.OpenMemory(t))
	if err != nil {
		t.Fatal(err)
	}
	eng := syllabus.New(syllabus.Config{
		Docpipe: docpipe.Config{Backends: []docpipe.Backend{textBackend{}}},
		Logger:  quietLogger(),
	})
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewIngester(store, eng, opts...)
}

func TestIngest_StoresRecord(t *testing.T) {
	// WHAT: A valid upload is parsed, stored and retrievable by ID.
	// WHY: The stored record is what GET /api/syllabi/{id} serves.
	ing := newTestIngester(t)
	ctx := context.Background()

	res, err := ing.Ingest(ctx, "eco101.pdf", pdfOf(economics), "University of Toronto")
	if err != nil {
		t.Fatal(err)
	}
	if res.Deduplicated {
		t.Error("first upload reported as deduplicated")
	}
	if res.Record.CourseCode != "ECO101H1" {
		t.Errorf("course code = %q", res.Record.CourseCode)
	}
	if len(res.SHA256) != 64 || res.File == nil || !res.File.HasEOF {
		t.Errorf("file info = %+v sha=%q", res.File, res.SHA256)
	}

	got, err := ing.Store.Get(ctx, res.ID)
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.Record.Instructor.Email != "alan.brooks@utoronto.ca" {
		t.Errorf("stored email = %q", got.Record.Instructor.Email)
	}
	if got.Filename != "eco101.pdf" || got.Institution != "University of Toronto" || got.CreatedAt == "" {
		t.Errorf("stored metadata = %+v", got)
	}
}

func TestIngest_Deduplicates(t *testing.T) {
	// WHAT: Same bytes and institution return the stored record; another institution parses again.
	// WHY: Study-group suggestions depend on the institution.
	ing := newTestIngester(t)
	ctx := context.Background()
	data := pdfOf(economics)

	first, err := ing.Ingest(ctx, "a.pdf", data, "UofT")
	if err != nil {
		t.Fatal(err)
	}
	second, err := ing.Ingest(ctx, "renamed.pdf", data, "UofT")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Deduplicated || second.ID != first.ID {
		t.Errorf("second = %+v, want dedup of %s", second, first.ID)
	}

	other, err := ing.Ingest(ctx, "a.pdf", data, "McGill")
	if err != nil {
		t.Fatal(err)
	}
	if other.Deduplicated || other.ID == first.ID {
		t.Errorf("other institution should parse anew: %+v", other)
	}
	if !strings.Contains(strings.Join(other.Record.RelatedResources.StudyGroups, "|"), "McGill") {
		t.Errorf("study groups = %v", other.Record.RelatedResources.StudyGroups)
	}
}

func TestIngest_DefaultInstitution(t *testing.T) {
	ing := newTestIngester(t, WithInstitution("Queen's University"))
	res, err := ing.Ingest(context.Background(), "x.pdf", pdfOf(economics), "")
	if err != nil {
		t.Fatal(err)
	}
	sy, _ := ing.Store.Get(context.Background(), res.ID)
	if sy.Institution != "Queen's University" {
		t.Errorf("institution = %q", sy.Institution)
	}
}

func TestIngest_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data []byte
		max  int64
		want error
	}{
		{"too large", "big.pdf", pdfOf(economics), 16, ErrSizeExceeded},
		{"wrong extension", "notes.docx", pdfOf(economics), 0, ErrUnsupportedType},
		{"no magic", "fake.pdf", []byte("hello world, definitely not a pdf"), 0, ErrUnsupportedType},
		{"unreadable", "broken.pdf", []byte("%PDF-1.7 garbage"), 0, docpipe.ErrUnreadable},
		{"insufficient text", "thin.pdf", pdfOf("Syllabus"), 0, docpipe.ErrInsufficientText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.max > 0 {
				opts = append(opts, WithMaxBytes(tt.max))
			}
			ing := newTestIngester(t, opts...)
			_, err := ing.Ingest(context.Background(), tt.file, tt.data, "")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			list, _ := ing.Store.List(context.Background(), "", 0, 0)
			if len(list) != 0 {
				t.Errorf("failed ingest stored %d rows", len(list))
			}
		})
	}
}

func TestIngest_Sanitizes(t *testing.T) {
	// WHAT: Markup in the text layer is stripped before storage.
	// WHY: Records are rendered by browser clients.
	ing := newTestIngester(t)
	text := strings.Replace(economics, "Dr. Alan Brooks", "<b>Dr. Alan Brooks</b>", 1)
	res, err := ing.Ingest(context.Background(), "x.pdf", pdfOf(text), "")
	if err != nil {
		t.Fatal(err)
	}
	if strings.ContainsAny(res.Record.Instructor.Name, "<>") {
		t.Errorf("instructor name = %q", res.Record.Instructor.Name)
	}
}

func TestPreflight(t *testing.T) {
	info, err := Preflight("dir/Syllabus.PDF", pdfOf(economics), 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "Syllabus.PDF" || info.MIME != "application/pdf" || !info.HasEOF {
		t.Errorf("info = %+v", info)
	}

	info, err = Preflight("cut.pdf", []byte(pdfHeader+"truncated"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if info.HasEOF {
		t.Error("truncated file reported a trailer")
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain text", "Plain text"},
		{"<script>alert(1)</script>Intro", "Intro"},
		{"<i>Calculus</i>: Early Transcendentals", "Calculus: Early Transcendentals"},
		{"Q&A sessions", "Q&A sessions"},
		{"x < y", "x < y"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	rec := &syllabus.Record{
		CourseName:       "<em>Intro</em> to Go",
		GradingBreakdown: []syllabus.GradingComponent{{Component: "<b>Final</b>", Percentage: 100}},
		CourseDetails:    syllabus.CourseDetails{Prerequisites: []string{"<u>CSC108</u>"}},
	}
	Sanitize(rec)
	if rec.CourseName != "Intro to Go" || rec.GradingBreakdown[0].Component != "Final" || rec.CourseDetails.Prerequisites[0] != "CSC108" {
		t.Errorf("sanitized = %+v", rec)
	}
}

func TestSanitize_MarkupOnlyFields(t *testing.T) {
	// WHAT: A field holding nothing but markup gets its not-found value back.
	// WHY: Stored records never carry an empty string where a sentinel is expected.
	rec := &syllabus.Record{
		CourseCode: "<br>",
		CourseName: "<script>alert(1)</script>",
		Instructor: syllabus.Instructor{Name: "<b></b>", Email: "a@b.edu", OfficeHours: "<i> </i>", Office: "BA 1"},
		Schedule:   syllabus.Schedule{Days: []string{}, Time: "<span></span>", Location: "Room 5"},
		Textbooks:  []syllabus.Textbook{{Title: "<img src=x>", Author: "Ann"}, {Title: "Calculus", Author: "<em></em>"}},
		CourseDetails: syllabus.CourseDetails{
			Description:   "<div></div>",
			Prerequisites: []string{"<p></p>", "CSC108"},
		},
	}
	Sanitize(rec)

	tests := []struct {
		field, got, want string
	}{
		{"course code", rec.CourseCode, syllabus.CourseCodeNotFound},
		{"course name", rec.CourseName, syllabus.CourseNameNotFound},
		{"instructor", rec.Instructor.Name, syllabus.InstructorNotFound},
		{"email", rec.Instructor.Email, "a@b.edu"},
		{"office hours", rec.Instructor.OfficeHours, syllabus.OfficeHoursNotFound},
		{"time", rec.Schedule.Time, syllabus.TimeNotFound},
		{"location", rec.Schedule.Location, "Room 5"},
		{"description", rec.CourseDetails.Description, syllabus.DescriptionNotFound},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.field, tt.got, tt.want)
		}
	}
	if len(rec.Textbooks) != 1 || rec.Textbooks[0].Author != syllabus.AuthorNotSpecified {
		t.Errorf("textbooks = %+v", rec.Textbooks)
	}
	if len(rec.CourseDetails.Prerequisites) != 1 || rec.CourseDetails.Prerequisites[0] != "CSC108" {
		t.Errorf("prerequisites = %q", rec.CourseDetails.Prerequisites)
	}
}
