package syllabus

import (
	"regexp"
	"strconv"
	"strings"
)

const sectionHeadings = `co-?requisites?|exclusions?|instructor|professor|taught\s+by|office\s+hours|e-?mail|course\s+description|learning\s+objectives|learning\s+outcomes|course\s+objectives|required\s+(?:textbooks?|texts?|readings?|materials)|textbooks?|grading|evaluation|assessment|schedule|prerequisites?`

const (
	defaultCredits    = 3
	descriptionMaxLen = 300
)

var (
	creditsLabelRe  = regexp.MustCompile(`(?i)\b(?:credits?|credit\s+hours?|units?)\s*:\s*(\d{1,2}(?:\.\d+)?)\b`)
	creditsInlineRe = regexp.MustCompile(`(?i)(?:^|[^.\d])(\d{1,2}(?:\.\d+)?)\s*-?\s*(?:credit|unit|hour)s?\b`)

	prereqRe      = regexp.MustCompile(`(?i)\b(?:prerequisites?|pre-requisites?|prereqs?)\s*[:\-–]?\s*(.*)`)
	descriptionRe = regexp.MustCompile(`(?i)\b(?:course\s+description|course\s+overview|description|overview|about\s+this\s+course)\s*[:\-–]?\s*(.*)`)
	objectivesRe  = regexp.MustCompile(`(?i)\b(?:learning\s+objectives|learning\s+outcomes|course\s+objectives|course\s+outcomes|objectives|outcomes)\s*[:\-–]?\s*(.*)`)

	// next section heading in flattened text
	sectionStopRe = regexp.MustCompile(`(?i)\b(?:` + sectionHeadings + `)\b|\b(?:credits?|units?)\s*:`)
	// a line that opens another section
	headingLineRe = regexp.MustCompile(`(?i)^(?:(?:` + sectionHeadings + `)\b|(?:credits?|units?)\s*:)|:$`)

	noneRe        = regexp.MustCompile(`(?i)^(?:none|n/?a|no\s+prerequisites?|nil)\b`)
	prereqSplitRe = regexp.MustCompile(`\s*(?:[,;&]|\band\b)\s*`)
	objSplitRe    = regexp.MustCompile(`[.;•]\s*|\s\d\)\s|\s\d\.\s`)
	objLeadRe     = regexp.MustCompile(`(?i)^.*\b(?:able\s+to|will|should)\s*:\s*`)
)

func extractDetails(src *source) CourseDetails {
	credits, ok := firstMatch(src,
		creditsFrom(creditsLabelRe),
		creditsFrom(creditsInlineRe),
	)
	return CourseDetails{
		Credits:            orElse(credits, ok, defaultCredits),
		Prerequisites:      extractPrerequisites(src),
		Description:        extractDescription(src),
		LearningObjectives: extractObjectives(src),
	}
}

// creditsFrom accepts the first whole number of credits in [1,12].
func creditsFrom(re *regexp.Regexp) strategy[int] {
	return func(src *source) (int, bool) {
		for _, m := range re.FindAllStringSubmatch(src.flat, -1) {
			f, err := strconv.ParseFloat(m[1], 64)
			if err != nil || f != float64(int(f)) {
				continue
			}
			if n := int(f); n >= 1 && n <= 12 {
				return n, true
			}
		}
		return 0, false
	}
}

// sectionValue returns the labeled section body, cut at the next heading.
// Lines are tried first; the flattened text covers labels the line split
// separated from their body. With follow unset only one line is read: the
// label line, or the next one when the label stands alone.
func sectionValue(src *source, re *regexp.Regexp, maxLen int, follow bool) (string, bool) {
	if body, ok := lineSection(src.lines, re, maxLen, follow); ok {
		return body, true
	}
	for _, m := range re.FindAllStringSubmatch(src.flat, -1) {
		body := truncateRunes(m[1], maxLen*2)
		body = trimPunct(cutAt(body, sectionStopRe))
		if body != "" {
			return body, true
		}
	}
	return "", false
}

func lineSection(lines []string, re *regexp.Regexp, maxLen int, follow bool) (string, bool) {
	for i, l := range lines {
		m := re.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		body := trimPunct(m[1])
		if cut := trimPunct(cutAt(body, sectionStopRe)); cut != body {
			body = cut
		} else {
			for _, next := range lines[i+1:] {
				if (!follow && body != "") || runeLen(body) >= maxLen*2 || headingLineRe.MatchString(next) {
					break
				}
				cut := trimPunct(cutAt(next, sectionStopRe))
				body = strings.TrimSpace(body + " " + cut)
				if cut != trimPunct(next) {
					break
				}
			}
		}
		if runeLen(body) >= 3 {
			return truncateRunes(body, maxLen*2), true
		}
	}
	return "", false
}

func extractPrerequisites(src *source) []string {
	out := []string{}
	body, ok := sectionValue(src, prereqRe, 200, false)
	if !ok || noneRe.MatchString(body) {
		return out
	}
	// prerequisites rarely run past the first sentence
	if i := strings.Index(body, ". "); i > 0 {
		body = body[:i]
	}
	for _, p := range prereqSplitRe.Split(body, -1) {
		p = trimPunct(p)
		if runeLen(p) <= 2 {
			continue
		}
		out = append(out, p)
		if len(out) == MaxPrerequisites {
			break
		}
	}
	return out
}

func extractDescription(src *source) string {
	body, ok := sectionValue(src, descriptionRe, descriptionMaxLen, true)
	if !ok || runeLen(body) < 10 {
		return DescriptionNotFound
	}
	return truncateRunes(body, descriptionMaxLen)
}

func extractObjectives(src *source) []string {
	out := []string{}
	body, ok := sectionValue(src, objectivesRe, 600, true)
	if !ok {
		return out
	}
	body = objLeadRe.ReplaceAllString(body, "")
	for _, o := range objSplitRe.Split(body, -1) {
		o = trimPunct(o)
		if runeLen(o) <= 10 {
			continue
		}
		out = append(out, o)
		if len(out) == MaxLearningObjectives {
			break
		}
	}
	return out
}
