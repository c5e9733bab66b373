package syllabus

import (
	"reflect"
	"regexp"
	"testing"
)

func TestFirstMatch_Order(t *testing.T) {
	// WHAT: The first strategy that succeeds wins and later ones never run.
	// WHY: Strategy order encodes preference between pattern tiers.
	var calls []string
	mk := func(name string, ok bool) strategy[string] {
		return func(*source) (string, bool) {
			calls = append(calls, name)
			return name, ok
		}
	}

	got, ok := firstMatch(&source{}, mk("a", false), mk("b", true), mk("c", true))
	if !ok || got != "b" {
		t.Fatalf("got %q ok=%v, want b", got, ok)
	}
	if !reflect.DeepEqual(calls, []string{"a", "b"}) {
		t.Errorf("calls = %v, want [a b]", calls)
	}
}

func TestFirstMatch_NoneSucceeds(t *testing.T) {
	miss := func(*source) (int, bool) { return 42, false }
	got, ok := firstMatch(&source{}, miss, miss)
	if ok || got != 0 {
		t.Errorf("got %d ok=%v, want zero value and false", got, ok)
	}
	if v := orElse(got, ok, 7); v != 7 {
		t.Errorf("orElse = %d, want 7", v)
	}
}

func TestOrderedSet(t *testing.T) {
	// WHAT: Insertion order is kept and duplicates are rejected.
	// WHY: Days, titles and links must come out in first-seen order.
	s := newOrderedSet()
	for _, k := range []string{"Monday", "Friday", "Monday", "Wednesday"} {
		s.Add(k)
	}
	if !reflect.DeepEqual(s.Items(), []string{"Monday", "Friday", "Wednesday"}) {
		t.Errorf("items = %v", s.Items())
	}
	if s.Add("Friday") {
		t.Error("Add of existing key reported true")
	}
	if !s.Has("Wednesday") || s.Has("Sunday") {
		t.Error("Has mismatch")
	}

	items := s.Items()
	items[0] = "mutated"
	if s.Items()[0] != "Monday" {
		t.Error("Items must return a copy")
	}

	if empty := newOrderedSet().Items(); empty == nil || len(empty) != 0 {
		t.Errorf("empty set items = %#v, want non-nil empty slice", empty)
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"one two three four", 12, "one two"},
		{"éééééé", 3, "ééé"},
	}
	for _, tt := range tests {
		if got := truncateRunes(tt.in, tt.n); got != tt.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestLineValue_FirstAcceptedLine(t *testing.T) {
	re := regexp.MustCompile(`^Room: (.+)$`)
	accept := func(s string) (string, bool) { return s, len(s) > 2 }
	got, ok := lineValue([]string{"Room: A", "Other", "Room: Bahen 1180"}, re, accept)
	if !ok || got != "Bahen 1180" {
		t.Errorf("got %q ok=%v", got, ok)
	}
}

func TestSourceFromText_DropsBlankLines(t *testing.T) {
	src := sourceFromText("  First line \r\n\n\tSecond   line\n")
	if !reflect.DeepEqual(src.lines, []string{"First line", "Second line"}) {
		t.Errorf("lines = %q", src.lines)
	}
	if src.flat != "First line Second line" || src.lower != "first line second line" {
		t.Errorf("flat = %q lower = %q", src.flat, src.lower)
	}
}
