// CLAUDE:SUMMARY Syllabus engine: text reconstruction followed by field extraction, insights and resource mapping.
// Package syllabus turns a syllabus PDF into a fully populated Record.
//
// Parsing is a forward pipeline: docpipe rebuilds reading-order text, a set
// of independent rule-based extractors fill the record fields, then insights
// and related resources are derived from the record. Field extractors never
// fail: a field that cannot be found carries its sentinel or default. The
// only errors are those of docpipe (unreadable document, insufficient text).
//
// Usage:
//
//	eng := syllabus.New(syllabus.Config{})
//	rec, err := eng.Parse(ctx, data, "University of Toronto")
package syllabus

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/syllabus/docpipe"
)

// Engine parses syllabi. It is immutable after New and safe for concurrent use.
type Engine struct {
	cfg    Config
	pipe   *docpipe.Pipeline
	logger *slog.Logger
}

// New creates an Engine. Text extraction backends are taken from cfg.Docpipe.
func New(cfg Config) *Engine {
	cfg.defaults()
	return &Engine{
		cfg:    cfg,
		pipe:   docpipe.New(cfg.Docpipe),
		logger: cfg.Logger,
	}
}

// Pipeline exposes the underlying text reconstruction pipeline.
func (e *Engine) Pipeline() *docpipe.Pipeline { return e.pipe }

// Parse extracts the text layer of data and builds the record. institution
// only feeds the study-group templates of the related resources.
// Errors match docpipe.ErrUnreadable or docpipe.ErrInsufficientText.
func (e *Engine) Parse(ctx context.Context, data []byte, institution string) (*Record, error) {
	doc, err := e.pipe.Extract(ctx, data)
	if err != nil {
		return nil, err
	}
	rec := e.Analyze(doc, institution)
	e.logger.Debug("syllabus parsed",
		"backend", doc.Backend,
		"pages", doc.Pages,
		"course_code", rec.CourseCode,
		"textbooks", len(rec.Textbooks),
		"grading_components", len(rec.GradingBreakdown),
	)
	return rec, nil
}

// Analyze runs the field extractors over an already reconstructed document.
func (e *Engine) Analyze(doc *docpipe.Document, institution string) *Record {
	src := newSource(doc)

	code, name := extractCourse(src)
	rec := &Record{
		CourseCode:       code,
		CourseName:       name,
		Instructor:       extractInstructor(src),
		Schedule:         extractSchedule(src),
		Textbooks:        extractTextbooks(src, e.cfg.TextbookSegmentCap),
		GradingBreakdown: extractGrading(src),
		Links:            extractLinks(src),
		CourseDetails:    extractDetails(src),
	}
	rec.AIInsights = generateInsights(rec, src)
	rec.RelatedResources = MapResources(rec.CourseCode, institution)
	return rec
}

// AnalyzeText is Analyze over plain text, one line per newline.
func (e *Engine) AnalyzeText(text, institution string) *Record {
	doc := &docpipe.Document{FullText: text}
	for _, l := range splitLines(text) {
		doc.Lines = append(doc.Lines, docpipe.Line{Text: l, Page: 1})
	}
	return e.Analyze(doc, institution)
}
