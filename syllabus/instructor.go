package syllabus

import (
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	instructorLineRe = regexp.MustCompile(`(?i)^(?:course\s+)?(?:instructor|professor|lecturer|faculty|teacher)(?:\s*\(s\))?\s*(?:name)?\s*[:\-–]\s*(.+)$`)
	taughtByRe       = regexp.MustCompile(`\b(?i:taught\s+by|instructor\s*:|professor\s*:|lecturer\s*:)\s*((?:(?:Dr|Prof|Mr|Ms|Mrs)\.?\s+)?[A-Z][A-Za-z.]*(?:\s+[A-Z][A-Za-z.]*){0,3})`)
	// next field label inside a captured value
	contactLabelRe = regexp.MustCompile(`(?i)\b(?:e-?mail|office|phone|tel|telephone|hours|contact|website|room|location|section|lecture)\b|\S+@\S+`)
	personNameRe   = regexp.MustCompile(`^[A-Za-z][A-Za-z .,]*$`)

	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	officeHoursRe = regexp.MustCompile(`(?i)\boffice\s+hours?\s*[:\-–]?\s*(.+)`)
	officeRe      = regexp.MustCompile(`(?i)\boffice(?:\s+(?:location|room|address))?\s*:\s*(.+)`)
	phoneRe       = regexp.MustCompile(`(?i)\b(?:phone|tel(?:ephone)?)\s*[:.]?\s*(\+?\(?\d[\d\s().\-]{6,18}\d)`)

	// labels that end an office-hours value
	hoursStopRe = regexp.MustCompile(`(?i)\b(?:e-?mail|phone|tel|location|room\s*:|office\s*(?:location|room)?\s*:|teaching\s+assistant|course\s+description)|\S+@\S+`)
	// labels that end an office value
	officeStopRe = regexp.MustCompile(`(?i)\b(?:e-?mail|phone|tel|office\s+hours|hours)\b|\S+@\S+`)
)

var nameTitles = map[string]bool{"dr": true, "prof": true, "professor": true, "mr": true, "ms": true, "mrs": true, "phd": true}

func extractInstructor(src *source) Instructor {
	name, ok := firstMatch(src, instructorFromLines, taughtByFromLines, instructorFromFlat)
	ins := Instructor{Name: orElse(name, ok, InstructorNotFound)}
	ins.Email = pickEmail(src.flat, name)

	hours, ok := firstMatch(src,
		func(src *source) (string, bool) { return lineValue(src.lines, officeHoursRe, cleanOfficeHours) },
		func(src *source) (string, bool) { return flatValue(src.flat, officeHoursRe, cleanOfficeHours) },
	)
	ins.OfficeHours = orElse(hours, ok, OfficeHoursNotFound)

	office, ok := firstMatch(src,
		func(src *source) (string, bool) { return lineValue(src.lines, officeRe, cleanOffice) },
		func(src *source) (string, bool) { return flatValue(src.flat, officeRe, cleanOffice) },
	)
	ins.Office = orElse(office, ok, OfficeNotFound)

	if m := phoneRe.FindStringSubmatch(src.flat); m != nil {
		ins.Phone = strings.TrimSpace(m[1])
	}
	return ins
}

func instructorFromLines(src *source) (string, bool) {
	return lineValue(src.lines, instructorLineRe, cleanPersonName)
}

// taughtByFromLines reads a taught-by name without crossing a line break.
func taughtByFromLines(src *source) (string, bool) {
	return lineValue(src.lines, taughtByRe, cleanPersonName)
}

func instructorFromFlat(src *source) (string, bool) {
	return flatValue(src.flat, taughtByRe, cleanPersonName)
}

// flatValue tries every match of re over the flattened text.
func flatValue(flat string, re *regexp.Regexp, clean func(string) (string, bool)) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(flat, -1) {
		if v, ok := clean(m[1]); ok {
			return v, true
		}
	}
	return "", false
}

func cleanPersonName(s string) (string, bool) {
	s = trimPunct(cutAt(s, contactLabelRe))
	if n := runeLen(s); n < 3 || n > 50 {
		return "", false
	}
	if !personNameRe.MatchString(s) {
		return "", false
	}
	return s, true
}

func cleanOfficeHours(s string) (string, bool) {
	s = trimPunct(cutAt(s, hoursStopRe))
	if runeLen(s) > 100 {
		if i := strings.Index(s, ". "); i > 0 {
			s = s[:i]
		}
	}
	if n := runeLen(s); n < 5 || n > 100 {
		return "", false
	}
	return s, true
}

func cleanOffice(s string) (string, bool) {
	s = trimPunct(cutAt(s, officeStopRe))
	if n := runeLen(s); n < 2 || n > 30 {
		return "", false
	}
	return s, true
}

// pickEmail prefers an address containing a token of the instructor name
// (+2) and an institutional domain (+1). Ties go to the first address seen.
func pickEmail(flat, name string) string {
	tokens := nameTokens(name)
	seen := newOrderedSet()
	best, bestScore := "", -1
	for _, addr := range emailRe.FindAllString(flat, -1) {
		addr = strings.TrimRight(addr, ".")
		if !seen.Add(strings.ToLower(addr)) {
			continue
		}
		lower := strings.ToLower(addr)
		score := 0
		for _, t := range tokens {
			if strings.Contains(lower, t) {
				score += 2
				break
			}
		}
		if isInstitutionalDomain(lower[strings.LastIndexByte(lower, '@')+1:]) {
			score++
		}
		if score > bestScore {
			best, bestScore = addr, score
		}
	}
	if best == "" {
		return EmailNotFound
	}
	return best
}

func nameTokens(name string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool { return !isLetter(r) }) {
		if len(f) >= 3 && !nameTitles[f] {
			out = append(out, f)
		}
	}
	return out
}

// isInstitutionalDomain reports whether domain sits under an academic
// public suffix: edu, edu.xx or ac.xx.
func isInstitutionalDomain(domain string) bool {
	suffix, _ := publicsuffix.PublicSuffix(domain)
	if suffix == "edu" || strings.HasPrefix(suffix, "edu.") || strings.HasPrefix(suffix, "ac.") {
		return true
	}
	// suffixes absent from the list fall back to the last labels
	return strings.HasSuffix(domain, ".edu") || strings.Contains(domain, ".edu.") || strings.Contains(domain, ".ac.")
}
