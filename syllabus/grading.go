package syllabus

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// gradingSectionCap bounds the characters scanned after a grading trigger.
const gradingSectionCap = 800

// component name: one to four words; later words may be small numbers ("Quiz 1")
const componentName = `([A-Za-z][A-Za-z&/'\-]*(?:\s+(?:[A-Za-z][A-Za-z&/'\-]*|\d{1,2})){0,3})`

// component name after a percentage: words only, so "25% Quizzes 25% Labs"
// does not read "Quizzes 25" as one name
const componentWords = `([A-Za-z][A-Za-z&/'\-]*(?:\s+[A-Za-z][A-Za-z&/'\-]*){0,3})`

const (
	// separators between a name and its weight
	nameSep  = `(?:\s*[:=\-–(]\s*|\.{2,}\s*|\s+)`
	worthSep = `(?:\s*[:=\-–(]\s*|\s+(?i:is\s+worth|worth|counts?\s+for|accounts?\s+for)\s+|\s+)`
	weight   = `(\d{1,3}(?:\.\d+)?)`
)

var (
	gradingTriggerRe = regexp.MustCompile(`(?i)\b(?:grading|evaluation|assessment|breakdown|marking\s+scheme|grade\s+distribution)\b`)

	gradingVariants = []*regexp.Regexp{
		// Assignments: 20%   Midterm Exam (30%)
		regexp.MustCompile(`\b` + componentName + nameSep + weight + `\s*%`),
		// 20% Assignments   30% - Midterm
		regexp.MustCompile(weight + `\s*%\s*(?:[:\-–]\s*)?(?:(?i:for|of|on)\s+)?` + componentWords),
		// Final exam is worth 35 percent
		regexp.MustCompile(`\b` + componentName + worthSep + weight + `\s*(?i:percent)\b`),
		// Project: 25 points
		regexp.MustCompile(`\b` + componentName + worthSep + weight + `\s*(?i:pts?|points?)\b`),
	}
	// variants whose percentage precedes the name
	percentFirst = map[int]bool{1: true}
)

// words trimmed from the front and back of a captured component name
var componentNoise = map[string]bool{
	"grading": true, "grade": true, "grades": true, "breakdown": true,
	"evaluation": true, "assessment": true, "assessments": true, "scheme": true,
	"marking": true, "distribution": true, "policy": true, "the": true,
	"and": true, "of": true, "course": true, "components": true,
	"component": true, "weight": true, "weighting": true, "is": true,
	"are": true, "will": true, "be": true, "based": true, "on": true, "as": true,
	"follows": true, "your": true, "worth": true, "counts": true, "count": true,
	"for": true, "accounts": true, "a": true, "an": true, "with": true,
	"composed": true, "consists": true, "consist": true, "determined": true,
	"calculated": true, "weighted": true, "by": true, "in": true, "this": true,
}

var defaultGrading = []GradingComponent{
	{Component: "Assignments", Percentage: 30, Description: describeComponent("Assignments")},
	{Component: "Midterm Exam", Percentage: 30, Description: describeComponent("Midterm Exam")},
	{Component: "Final Exam", Percentage: 35, Description: describeComponent("Final Exam")},
	{Component: "Participation", Percentage: 5, Description: describeComponent("Participation")},
}

// DefaultGrading returns a copy of the breakdown used when none can be validated.
func DefaultGrading() []GradingComponent {
	out := make([]GradingComponent, len(defaultGrading))
	copy(out, defaultGrading)
	return out
}

// extractGrading scans grading sections (or the whole text when no section
// is introduced) and validates the total. Sections are read line by line
// first, then as flattened text for entries split across lines. A breakdown
// whose sum is more than 10 points away from 100 is replaced by
// DefaultGrading.
func extractGrading(src *source) []GradingComponent {
	for _, sections := range [][]*source{gradingLineSections(src.lines), gradingFlatSections(src.flat)} {
		if comps := mergeSections(sections); validGrading(comps) {
			return comps
		}
	}
	return DefaultGrading()
}

// gradingLineSections starts one section at every line holding a trigger.
func gradingLineSections(lines []string) []*source {
	var out []*source
	for i, l := range lines {
		if !gradingTriggerRe.MatchString(l) {
			continue
		}
		var sec []string
		n := 0
		for _, s := range lines[i:] {
			if n >= gradingSectionCap {
				break
			}
			sec = append(sec, s)
			n += len(s) + 1
		}
		out = append(out, &source{lines: sec})
	}
	if len(out) == 0 && len(lines) > 0 {
		out = append(out, &source{lines: lines})
	}
	return out
}

func gradingFlatSections(flat string) []*source {
	var out []*source
	for _, loc := range gradingTriggerRe.FindAllStringIndex(flat, -1) {
		out = append(out, &source{flat: flat[loc[0]:min(loc[0]+gradingSectionCap, len(flat))]})
	}
	if len(out) == 0 {
		out = append(out, &source{flat: flat})
	}
	return out
}

func mergeSections(sections []*source) []GradingComponent {
	comps := []GradingComponent{}
	names := newOrderedSet()
	for _, sec := range sections {
		for _, c := range bestVariant(sec) {
			if len(comps) == MaxGradingComponents {
				break
			}
			if names.Add(strings.ToLower(c.Component)) {
				comps = append(comps, c)
			}
		}
	}
	return comps
}

// bestVariant returns the first variant whose breakdown validates on its
// own, or the first plausible one when none does.
func bestVariant(sec *source) []GradingComponent {
	var first []GradingComponent
	for _, s := range gradingStrategies() {
		found, ok := s(sec)
		if !ok {
			continue
		}
		if validGrading(found) {
			return found
		}
		if first == nil {
			first = found
		}
	}
	return first
}

func gradingStrategies() []strategy[[]GradingComponent] {
	out := make([]strategy[[]GradingComponent], len(gradingVariants))
	for i, re := range gradingVariants {
		out[i] = variantStrategy(re, percentFirst[i])
	}
	return out
}

// variantStrategy collects the distinct accepted components of one pattern
// variant, matching each line when the source has lines and the flattened
// text otherwise.
func variantStrategy(re *regexp.Regexp, pctFirst bool) strategy[[]GradingComponent] {
	return func(src *source) ([]GradingComponent, bool) {
		texts := src.lines
		if len(texts) == 0 {
			texts = []string{src.flat}
		}
		var comps []GradingComponent
		names := newOrderedSet()
		for _, text := range texts {
			for _, m := range re.FindAllStringSubmatch(text, -1) {
				name, num := m[1], m[2]
				if pctFirst {
					name, num = m[2], m[1]
				}
				pct, err := strconv.ParseFloat(num, 64)
				if err != nil || pct <= 0 || pct > 100 {
					continue
				}
				name, ok := cleanComponent(name)
				if !ok || !names.Add(strings.ToLower(name)) || len(comps) == MaxGradingComponents {
					continue
				}
				comps = append(comps, GradingComponent{
					Component:   name,
					Percentage:  pct,
					Description: describeComponent(name),
				})
			}
		}
		return comps, len(comps) > 0
	}
}

func cleanComponent(s string) (string, bool) {
	words := strings.Fields(s)
	for len(words) > 0 && componentNoise[strings.ToLower(words[0])] {
		words = words[1:]
	}
	for len(words) > 0 && componentNoise[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	name := trimPunct(strings.Join(words, " "))
	if n := runeLen(name); n < 3 || n > 50 {
		return "", false
	}
	if strings.Contains(strings.ToLower(name), "total") {
		return "", false
	}
	return strings.ToUpper(name[:1]) + name[1:], true
}

func validGrading(comps []GradingComponent) bool {
	if len(comps) == 0 {
		return false
	}
	return math.Abs(gradingSum(comps)-100) <= 10
}

func gradingSum(comps []GradingComponent) float64 {
	var sum float64
	for _, c := range comps {
		sum += c.Percentage
	}
	return sum
}

// describeComponent attaches a canned description by keyword.
func describeComponent(name string) string {
	lower := strings.ToLower(name)
	switch {
	case containsAny(lower, "exam", "midterm", "final", "test"):
		return "Examination covering lecture and reading material"
	case containsAny(lower, "assignment", "homework", "problem set"):
		return "Regular assignments reinforcing lecture concepts"
	case containsAny(lower, "project"):
		return "Applied project work, often with milestones"
	case containsAny(lower, "participation", "attendance"):
		return "Active participation in lectures and discussions"
	case containsAny(lower, "quiz"):
		return "Short quizzes on recent material"
	case containsAny(lower, "lab"):
		return "Laboratory work and reports"
	case containsAny(lower, "essay", "paper", "report", "writing"):
		return "Written work assessed on argument and clarity"
	case containsAny(lower, "presentation"):
		return "Oral presentation to the class"
	}
	return ""
}
