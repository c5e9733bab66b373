package syllabus

import (
	"regexp"
	"strings"
)

var (
	// "Course: ECE 212", "Course Code ECE212H1"
	codeWithCourseRe = regexp.MustCompile(`\b(?i:course)(?:\s+(?i:code|number|no\.?))?\s*[:#]?\s*([A-Z]{2,4})[\s-]?(\d{3})((?:[A-Z]\d)?[A-Z]?)\b`)
	codeStrictRe     = regexp.MustCompile(`\b([A-Z]{2,4})[\s-]?(\d{3})((?:[A-Z]\d)?[A-Z]?)\b`)
	codeLooseRe      = regexp.MustCompile(`(?i)\b([a-z]{2,4})[\s-]?(\d{3})\b`)

	// a leading course code on a title line, e.g. "ECE212: Circuit Analysis"
	leadingCodeRe = regexp.MustCompile(`^(?i:course\s*(?:code)?\s*:?\s*)?[A-Za-z]{2,4}[\s-]?\d{3}(?:[A-Z]\d)?[A-Z]?\b\s*[:\-–|]?\s*`)
	courseTitleRe = regexp.MustCompile(`(?i)^course\s+(?:title|name)\s*:\s*(.+)$`)
	fieldLabelRe  = regexp.MustCompile(`(?i)^(?:instructor|professor|lecturer|e-?mail|office|phone|tel|time|location|room|term|semester|credits?|prerequisites?|date|website|ta)\b`)
	nameStopRe    = regexp.MustCompile(`(?i)\b(?:instructor|professor|lecturer|taught\s+by|credits?|semester|term|fall|winter|spring|summer|syllabus|office|e-?mail)\b`)
)

// words that are never a subject prefix
var codeDenylist = map[string]bool{
	"WEEK": true, "ROOM": true, "PAGE": true, "UNIT": true, "TERM": true,
	"PART": true, "FALL": true, "YEAR": true, "LAB": true, "HW": true,
	"PG": true, "PP": true, "NO": true, "CH": true, "SEC": true, "RM": true,
	"BOX": true, "EXT": true, "FAX": true, "TEL": true, "ISBN": true,
}

var courseKeywords = []string{
	"introduction", "intro to", "principles", "fundamentals", "foundations",
	"advanced", "topics in", "theory", "analysis", "methods", "design",
	"survey of", "seminar", "elements of", "applied",
}

var subjectKeywords = []string{
	"calculus", "algebra", "mathematics", "statistics", "physics", "chemistry",
	"biology", "computer", "programming", "engineering", "economics",
	"psychology", "circuit", "history", "philosophy", "literature", "writing",
	"software", "algorithms", "accounting", "finance", "marketing",
	"sociology", "anthropology", "linguistics", "electronics", "data",
}

type codeMatch struct {
	code string
	end  int // byte offset in the flat text just past the match
}

// extractCourse returns the course code and name, or their sentinels.
func extractCourse(src *source) (string, string) {
	cm, found := firstMatch(src,
		codeStrategy(codeWithCourseRe),
		codeStrategy(codeStrictRe),
		codeStrategy(codeLooseRe),
	)
	code := CourseCodeNotFound
	if found {
		code = cm.code
	}

	name, ok := firstMatch(src,
		titleLabelName,
		keywordLineName,
		func(src *source) (string, bool) { return nameAfterCode(src, cm, found) },
	)
	return code, orElse(name, ok, CourseNameNotFound)
}

// codeStrategy binds the first non-denylisted match of re in the flat text.
func codeStrategy(re *regexp.Regexp) strategy[codeMatch] {
	return func(src *source) (codeMatch, bool) {
		for _, m := range re.FindAllStringSubmatchIndex(src.flat, -1) {
			letters := strings.ToUpper(src.flat[m[2]:m[3]])
			if codeDenylist[letters] {
				continue
			}
			code := letters + src.flat[m[4]:m[5]]
			if len(m) > 6 && m[6] >= 0 {
				code += strings.ToUpper(src.flat[m[6]:m[7]])
			}
			return codeMatch{code: code, end: m[1]}, true
		}
		return codeMatch{}, false
	}
}

func titleLabelName(src *source) (string, bool) {
	return lineValue(src.lines, courseTitleRe, cleanCourseName)
}

// keywordLineName scans the first ten lines for a title-like line.
func keywordLineName(src *source) (string, bool) {
	n := min(len(src.lines), 10)
	for _, line := range src.lines[:n] {
		if fieldLabelRe.MatchString(line) {
			continue
		}
		rest := leadingCodeRe.ReplaceAllString(line, "")
		lower := strings.ToLower(rest)
		if !containsAny(lower, courseKeywords...) && !containsAny(lower, subjectKeywords...) {
			continue
		}
		if name, ok := cleanCourseName(rest); ok {
			return name, true
		}
	}
	return "", false
}

// nameAfterCode takes the text following the code in the flat text.
func nameAfterCode(src *source, cm codeMatch, found bool) (string, bool) {
	if !found {
		return "", false
	}
	rest := src.flat[cm.end:]
	rest = strings.TrimLeft(rest, " :-–|")
	rest = truncateRunes(rest, 100)
	return cleanCourseName(rest)
}

func cleanCourseName(s string) (string, bool) {
	s = cutAt(s, nameStopRe)
	s = trimPunct(s)
	if n := runeLen(s); n < 3 || n > 100 {
		return "", false
	}
	if !strings.ContainsFunc(s, isLetter) {
		return "", false
	}
	return s, true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
