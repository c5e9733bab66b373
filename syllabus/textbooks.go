package syllabus

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	textbookTriggerRe = regexp.MustCompile(`(?i)\b(?:required|textbooks?|readings?|materials|course\s+texts?)\b`)
	titleByAuthorRe   = regexp.MustCompile(`([A-Z"“][A-Za-z0-9:,'’&"”\- ]{2,150}?)\s+by\s+([A-Z][A-Za-z.'’\-]*(?:(?:\s*,\s*|\s+and\s+|\s*&\s*|\s+)[A-Z][A-Za-z.'’\-]*){0,5})`)
	titlePrefixRes    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:the\s+)?(?:required|recommended|optional|primary|main)\s+(?:course\s+)?(?:textbooks?|texts?|books?|readings?)\s+(?:is|are|will\s+be)\s*:?\s*`),
		regexp.MustCompile(`(?i)^(?:(?:required|recommended|optional|course)\s+)*(?:textbooks?|texts?|books?|readings?|materials)(?:\s*\((?:required|optional)\))?\s*[:\-–]\s*`),
		regexp.MustCompile(`(?i)^(?:required|recommended|optional|primary)\s*[:\-–]\s*`),
	}
	authorStopRe  = regexp.MustCompile(`(?i)\b(?:isbn|edition|ed\.|required|optional|recommended|publisher|published|available|pearson|wiley|mcgraw|cengage|press)\b`)
	editionRe     = regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)|first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\s+(?:ed\.|edition)`)
	isbnRe        = regexp.MustCompile(`(?i)\bISBN(?:-1[03])?\s*:?\s*([0-9][0-9\- ]{8,16}[0-9Xx])`)
	requiredRe    = regexp.MustCompile(`(?i)\b(?:required|mandatory)\b`)
	textbookLabel = regexp.MustCompile(`(?i)\btextbook\s*:\s*([^.;]{3,150})`)
	fallbackStop  = regexp.MustCompile(`(?i)\b(?:isbn|grading|evaluation|assessment|instructor|office|schedule|edition)\b`)
)

var baseFreeAlternatives = []string{"University Library Reserve", "Open Textbook Library", "Internet Archive"}

// extractTextbooks scans bounded segments after each trigger word for
// "Title by Author" pairs. Results keep extraction order, deduplicated by
// title, at most MaxTextbooks.
func extractTextbooks(src *source, segmentCap int) []Textbook {
	books := []Textbook{}
	titles := newOrderedSet()
	flat := src.flat

	for _, loc := range textbookTriggerRe.FindAllStringIndex(flat, -1) {
		start := loc[0]
		end := min(start+segmentCap, len(flat))
		for end < len(flat) && !utf8.RuneStart(flat[end]) {
			end--
		}
		seg := flat[start:end]

		matches := titleByAuthorRe.FindAllStringSubmatchIndex(seg, -1)
		for i, m := range matches {
			title := cleanTitle(seg[m[2]:m[3]])
			author := cleanAuthor(seg[m[4]:m[5]])
			if title == "" || author == "" {
				continue
			}
			if !titles.Add(strings.ToLower(title)) {
				continue
			}

			// remainder runs to the next pair or the end of the segment
			restEnd := len(seg)
			if i+1 < len(matches) {
				restEnd = matches[i+1][0]
			}
			rest := seg[m[5]:restEnd]

			lo := max(start+m[0]-100, 0)
			hi := min(start+m[1]+100, len(flat))
			required := requiredRe.MatchString(flat[lo:hi])

			books = append(books, enrichTextbook(title, author, rest, required))
			if len(books) == MaxTextbooks {
				return books
			}
		}
	}

	if len(books) == 0 {
		if tb, ok := labeledTextbook(flat); ok {
			books = append(books, tb)
		}
	}
	return books
}

func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	for changed := true; changed; {
		changed = false
		for _, re := range titlePrefixRes {
			if loc := re.FindStringIndex(s); loc != nil && loc[1] > 0 {
				s = strings.TrimSpace(s[loc[1]:])
				changed = true
			}
		}
	}
	s = strings.Trim(s, ` "“”,:-`)
	if n := runeLen(s); n < 3 || n > 150 {
		return ""
	}
	return s
}

func cleanAuthor(s string) string {
	s = trimPunct(cutAt(s, authorStopRe))
	s = strings.TrimSuffix(strings.TrimSuffix(s, " and"), " &")
	if runeLen(s) < 2 {
		return ""
	}
	return s
}

// enrichTextbook attaches edition, ISBN, cost band, free alternatives and
// a marketplace search link.
func enrichTextbook(title, author, rest string, required bool) Textbook {
	tb := Textbook{
		Title:            title,
		Author:           author,
		Required:         required,
		EstimatedCost:    estimateCost(title, required),
		FreeAlternatives: freeAlternatives(title),
		AmazonLink:       "https://www.amazon.com/s?k=" + url.QueryEscape(title+" "+author),
		LibraryAvailable: required,
	}
	if m := editionRe.FindStringSubmatch(rest); m != nil {
		tb.Edition = m[0]
	}
	if m := isbnRe.FindStringSubmatch(rest); m != nil {
		tb.ISBN = normalizeISBN(m[1])
	}
	return tb
}

func normalizeISBN(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			b.WriteRune(r)
		}
	}
	out := strings.ToUpper(b.String())
	if len(out) != 10 && len(out) != 13 {
		return ""
	}
	return out
}

// estimateCost picks a price band from the title level and required flag.
func estimateCost(title string, required bool) string {
	lower := strings.ToLower(title)
	switch {
	case containsAny(lower, "introduction", "intro", "basic", "fundamentals", "principles", "elementary"):
		if required {
			return "$80-$150"
		}
		return "$40-$80"
	case containsAny(lower, "advanced", "graduate"):
		if required {
			return "$150-$300"
		}
		return "$80-$150"
	default:
		if required {
			return "$100-$200"
		}
		return "$50-$100"
	}
}

func freeAlternatives(title string) []string {
	lower := strings.ToLower(title)
	alts := append([]string{}, baseFreeAlternatives...)
	if containsAny(lower, "calculus", "algebra", "math", "statistics", "probability", "geometry") {
		alts = append(alts, "OpenStax Mathematics", "Paul's Online Math Notes")
	}
	if containsAny(lower, "programming", "computer", "algorithm", "software", "data structures", "python", "java") {
		alts = append(alts, "MIT OpenCourseWare", "freeCodeCamp")
	}
	if containsAny(lower, "physics", "chemistry", "biology", "science") {
		alts = append(alts, "OpenStax Science", "LibreTexts")
	}
	return alts
}

// labeledTextbook synthesizes a minimal record from a bare "Textbook:" label.
func labeledTextbook(flat string) (Textbook, bool) {
	loc := textbookLabel.FindStringSubmatchIndex(flat)
	if loc == nil {
		return Textbook{}, false
	}
	title := trimPunct(cutAt(flat[loc[2]:loc[3]], fallbackStop))
	if n := runeLen(title); n < 3 || n > 150 {
		return Textbook{}, false
	}
	lo := max(loc[0]-100, 0)
	hi := min(loc[1]+100, len(flat))
	required := requiredRe.MatchString(flat[lo:hi])
	return Textbook{
		Title:            title,
		Author:           AuthorNotSpecified,
		Required:         required,
		EstimatedCost:    "$50-$150",
		FreeAlternatives: append([]string{}, baseFreeAlternatives...),
		AmazonLink:       "https://www.amazon.com/s?k=" + url.QueryEscape(title),
		LibraryAvailable: required,
	}, true
}
