package ingest

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/hazyhaar/syllabus/syllabus"
)

// textPolicy strips every tag. Records are plain text served as JSON and
// rendered by browser clients, so markup carried by the PDF text layer is
// removed before storage.
var textPolicy = bluemonday.StrictPolicy()

func cleanText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// cleanOr cleans s and falls back to sentinel when nothing but markup was left.
func cleanOr(s, sentinel string) string {
	if c := cleanText(s); c != "" {
		return c
	}
	return sentinel
}

// cleanAll cleans list and drops entries left empty.
func cleanAll(list []string) []string {
	out := list[:0]
	for _, s := range list {
		if c := cleanText(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Sanitize strips markup from every free-text field of rec in place.
// Fields that carry a not-found sentinel get it back when stripping leaves
// them empty. URLs are left alone: links only ever hold http(s) matches or "#".
func Sanitize(rec *syllabus.Record) {
	rec.CourseCode = cleanOr(rec.CourseCode, syllabus.CourseCodeNotFound)
	rec.CourseName = cleanOr(rec.CourseName, syllabus.CourseNameNotFound)

	in := &rec.Instructor
	in.Name = cleanOr(in.Name, syllabus.InstructorNotFound)
	in.Email = cleanOr(in.Email, syllabus.EmailNotFound)
	in.OfficeHours = cleanOr(in.OfficeHours, syllabus.OfficeHoursNotFound)
	in.Office = cleanOr(in.Office, syllabus.OfficeNotFound)
	in.Phone = cleanText(in.Phone)

	rec.Schedule.Time = cleanOr(rec.Schedule.Time, syllabus.TimeNotFound)
	rec.Schedule.Location = cleanOr(rec.Schedule.Location, syllabus.LocationNotFound)

	books := rec.Textbooks[:0]
	for _, tb := range rec.Textbooks {
		if tb.Title = cleanText(tb.Title); tb.Title == "" {
			continue
		}
		tb.Author = cleanOr(tb.Author, syllabus.AuthorNotSpecified)
		tb.Edition = cleanText(tb.Edition)
		books = append(books, tb)
	}
	rec.Textbooks = books
	for i := range rec.GradingBreakdown {
		rec.GradingBreakdown[i].Component = cleanText(rec.GradingBreakdown[i].Component)
	}
	for i := range rec.Links {
		rec.Links[i].Name = cleanText(rec.Links[i].Name)
	}

	d := &rec.CourseDetails
	d.Description = cleanOr(d.Description, syllabus.DescriptionNotFound)
	d.Prerequisites = cleanAll(d.Prerequisites)
	d.LearningObjectives = cleanAll(d.LearningObjectives)

	rec.AIInsights.KeyTopics = cleanAll(rec.AIInsights.KeyTopics)
}
