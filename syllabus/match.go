// CLAUDE:SUMMARY Extraction primitives: normalized source, first-match strategy combinator, insertion-ordered set.
package syllabus

import (
	"regexp"
	"strings"

	"github.com/hazyhaar/syllabus/docpipe"
)

// source is the input shared by every extractor: the flattened text for
// cross-line patterns and the normalized lines for line-anchored ones.
type source struct {
	flat  string
	lower string
	lines []string
}

func newSource(doc *docpipe.Document) *source {
	lines := make([]string, 0, len(doc.Lines))
	for _, l := range doc.Lines {
		if s := docpipe.NormalizeLine(l.Text); s != "" {
			lines = append(lines, s)
		}
	}
	flat := doc.Flat()
	return &source{flat: flat, lower: strings.ToLower(flat), lines: lines}
}

// sourceFromText builds a source from plain text, one line per newline.
func sourceFromText(text string) *source {
	doc := &docpipe.Document{FullText: text}
	for _, l := range splitLines(text) {
		doc.Lines = append(doc.Lines, docpipe.Line{Text: l})
	}
	return newSource(doc)
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// strategy proposes a candidate for one field. ok=false means no plausible match.
type strategy[T any] func(src *source) (T, bool)

// firstMatch evaluates strategies in order and returns the first plausible
// candidate. Later strategies are not run once one succeeds.
func firstMatch[T any](src *source, strategies ...strategy[T]) (T, bool) {
	for _, s := range strategies {
		if v, ok := s(src); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// orElse returns v when ok, fallback otherwise.
func orElse[T any](v T, ok bool, fallback T) T {
	if ok {
		return v
	}
	return fallback
}

// orderedSet is a set of strings that remembers insertion order.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

// Add inserts key and reports whether it was not present before.
func (s *orderedSet) Add(key string) bool {
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.items = append(s.items, key)
	return true
}

func (s *orderedSet) Has(key string) bool {
	_, ok := s.seen[key]
	return ok
}

func (s *orderedSet) Len() int { return len(s.items) }

// Items returns the keys in insertion order. The result is never nil.
func (s *orderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// cutAt truncates s at the first match of re.
func cutAt(s string, re *regexp.Regexp) string {
	if loc := re.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}

// lineValue returns the first capture of re on the first matching line.
func lineValue(lines []string, re *regexp.Regexp, clean func(string) (string, bool)) (string, bool) {
	for _, l := range lines {
		m := re.FindStringSubmatch(l)
		if m == nil {
			continue
		}
		if v, ok := clean(m[1]); ok {
			return v, true
		}
	}
	return "", false
}

// truncateRunes cuts s to at most n runes, preferring the last word boundary.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := string(r[:n])
	if i := strings.LastIndexByte(cut, ' '); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}

func runeLen(s string) int { return len([]rune(s)) }

func trimPunct(s string) string {
	return strings.Trim(strings.TrimSpace(s), " .,;:-–|*•")
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
