package syllabus

import (
	"regexp"
	"strings"
)

var (
	fullDayRe     = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)s?\b`)
	abbrevDayRe   = regexp.MustCompile(`\b(Mon|Tues?|Wed|Thu(?:rs?)?|Fri|Sat|Sun)\b\.?`)
	compoundDayRe = regexp.MustCompile(`\b((?:M|Tu|Th|T|W|R|F|Sa|Su){2,5})\b`)

	meetingLineRe = regexp.MustCompile(`(?i)\b(?:lectures?|class(?:es)?|meets?|meeting|schedule|tutorials?|labs?|seminars?|sections?|times?|days?)\b`)

	timeRangeRe = regexp.MustCompile(`\b(\d{1,2}:\d{2}\s*(?:[AaPp]\.?[Mm]\.?)?)\s*(?:-|–|—|to)\s*(\d{1,2}:\d{2}\s*(?:[AaPp]\.?[Mm]\.?)?)`)
	hourRangeRe = regexp.MustCompile(`\b(\d{1,2}\s*[AaPp]\.?[Mm]\.?)\s*(?:-|–|—|to)\s*(\d{1,2}\s*[AaPp]\.?[Mm]\.?)`)

	locationLabelRe = regexp.MustCompile(`(?i)\b(?:location|classroom|room|venue|lecture\s+hall|place)\s*:\s*(.+)`)
	roomRe          = regexp.MustCompile(`\b([A-Z][A-Za-z]{1,15})\s+(\d{2,4}[A-Z]?)\b`)
	courseShapeRe   = regexp.MustCompile(`^[A-Z]{2,4} \d{3}$`)
	locationStopRe  = regexp.MustCompile(`(?i)\b(?:time|days?|instructor|professor|office|e-?mail|phone|monday|tuesday|wednesday|thursday|friday)\b|\d{1,2}:\d{2}`)
)

var abbrevDays = map[string]string{
	"mon": "Monday", "tue": "Tuesday", "tues": "Tuesday", "wed": "Wednesday",
	"thu": "Thursday", "thur": "Thursday", "thurs": "Thursday", "fri": "Friday",
	"sat": "Saturday", "sun": "Sunday",
}

var compoundDays = map[string]string{
	"M": "Monday", "T": "Tuesday", "Tu": "Tuesday", "W": "Wednesday",
	"Th": "Thursday", "R": "Thursday", "F": "Friday", "Sa": "Saturday", "Su": "Sunday",
}

// first words of "Word 123" pairs that are not rooms
var roomDenylist = map[string]bool{
	"Week": true, "Weeks": true, "Chapter": true, "Chapters": true, "Unit": true,
	"Module": true, "Lecture": true, "Page": true, "Pages": true, "Section": true,
	"Fall": true, "Winter": true, "Spring": true, "Summer": true, "Term": true,
	"Year": true, "Semester": true, "Course": true, "Assignment": true, "Quiz": true,
	"Exam": true, "Midterm": true, "Final": true, "Tutorial": true, "Homework": true,
	"Problem": true, "Part": true, "Step": true, "Table": true, "Figure": true,
	"Version": true, "Edition": true, "Total": true, "Grade": true, "Level": true,
	"January": true, "February": true, "March": true, "April": true, "May": true,
	"June": true, "July": true, "August": true, "September": true, "October": true,
	"November": true, "December": true, "Jan": true, "Feb": true, "Mar": true,
	"Apr": true, "Jun": true, "Jul": true, "Aug": true, "Sep": true, "Sept": true,
	"Oct": true, "Nov": true, "Dec": true, "Monday": true, "Tuesday": true,
	"Wednesday": true, "Thursday": true, "Friday": true, "Saturday": true,
	"Sunday": true, "Mon": true, "Tue": true, "Wed": true, "Thu": true, "Fri": true,
	"ISBN": true, "Phone": true, "Ext": true, "Lab": true, "Project": true,
	"Assignments": true, "Quizzes": true, "Exams": true, "Labs": true,
	"Projects": true, "Participation": true, "Points": true,
}

func extractSchedule(src *source) Schedule {
	meeting := &source{}
	for _, l := range src.lines {
		if meetingLineRe.MatchString(l) {
			meeting.lines = append(meeting.lines, l)
		}
	}
	meeting.flat = strings.Join(meeting.lines, " ")

	days := scanDays(meeting.flat)
	if days.Len() == 0 {
		days = scanDays(src.flat)
	}

	t, ok := firstMatch(src,
		func(*source) (string, bool) { return findTime(meeting.flat) },
		func(src *source) (string, bool) { return findTime(src.flat) },
	)
	sched := Schedule{Days: days.Items(), Time: orElse(t, ok, TimeNotFound)}

	loc, ok := firstMatch(src,
		func(src *source) (string, bool) { return lineValue(src.lines, locationLabelRe, cleanLocation) },
		func(*source) (string, bool) { return findRoom(meeting.flat) },
		func(src *source) (string, bool) { return findRoom(src.flat) },
	)
	sched.Location = orElse(loc, ok, LocationNotFound)
	return sched
}

// scanDays accumulates weekdays from the three tiers in order: full names,
// capitalized abbreviations, then compound codes such as MWF or TTh.
func scanDays(text string) *orderedSet {
	days := newOrderedSet()
	for _, m := range fullDayRe.FindAllStringSubmatch(text, -1) {
		w := strings.ToLower(m[1])
		days.Add(strings.ToUpper(w[:1]) + w[1:])
	}
	for _, m := range abbrevDayRe.FindAllStringSubmatch(text, -1) {
		days.Add(abbrevDays[strings.ToLower(m[1])])
	}
	for _, m := range compoundDayRe.FindAllStringSubmatch(text, -1) {
		decoded := decodeCompoundDays(m[1])
		if len(decoded) < 2 {
			continue
		}
		for _, d := range decoded {
			days.Add(d)
		}
	}
	return days
}

// decodeCompoundDays expands a meeting code ("MWF", "TTh", "TR") into
// distinct weekday names.
func decodeCompoundDays(code string) []string {
	set := newOrderedSet()
	for i := 0; i < len(code); {
		if i+1 < len(code) {
			if d, ok := compoundDays[code[i:i+2]]; ok {
				set.Add(d)
				i += 2
				continue
			}
		}
		d, ok := compoundDays[code[i:i+1]]
		if !ok {
			return nil
		}
		set.Add(d)
		i++
	}
	return set.Items()
}

func findTime(text string) (string, bool) {
	for _, re := range []*regexp.Regexp{timeRangeRe, hourRangeRe} {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]) + " - " + strings.TrimSpace(m[2]), true
		}
	}
	return "", false
}

func cleanLocation(s string) (string, bool) {
	s = trimPunct(cutAt(s, locationStopRe))
	if n := runeLen(s); n < 2 || n > 50 {
		return "", false
	}
	return s, true
}

// findRoom looks for a building word followed by a room number ("Bahen 1180").
func findRoom(text string) (string, bool) {
	for _, m := range roomRe.FindAllStringSubmatchIndex(text, -1) {
		word := text[m[2]:m[3]]
		if roomDenylist[word] {
			continue
		}
		// "10:30", "45%" and "3.5" are not room numbers
		if m[1] < len(text) {
			next := text[m[1]]
			if next == '%' {
				continue
			}
			if strings.IndexByte(":.,/", next) >= 0 && m[1]+1 < len(text) && isDigit(text[m[1]+1]) {
				continue
			}
		}
		room := text[m[0]:m[1]]
		if courseShapeRe.MatchString(room) {
			continue
		}
		return room, true
	}
	return "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
