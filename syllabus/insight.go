// CLAUDE:SUMMARY Rule-based insights: difficulty/workload scores, canned study advice, key topics with stem dedup.
package syllabus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kljensen/snowball"
)

var (
	courseLevelRe = regexp.MustCompile(`\d{3}`)
	labRe         = regexp.MustCompile(`(?i)\blab(?:oratory|oratories|s)?\b`)
	projectRe     = regexp.MustCompile(`(?i)\bprojects?\b`)
	writingRe     = regexp.MustCompile(`(?i)\b(?:essays?|papers?|writing|written\s+reports?|thesis|research\s+reports?)\b`)
	groupRe       = regexp.MustCompile(`(?i)\b(?:group|team|teams|collaborat\w*|peer)\b`)

	topicsRe  = regexp.MustCompile(`(?i)\b(?:topics(?:\s+covered)?|chapters|modules|course\s+content|this\s+course\s+covers|covers|includes)\s*[:\-–]?\s*(.+)`)
	topicStop = regexp.MustCompile(`(?i)\b(?:grading|evaluation|assessment|textbooks?|instructor|professor|office\s+hours|prerequisites?|learning\s+objectives|schedule|policies|policy)\b`)
	topicSep  = regexp.MustCompile(`\s*(?:[,;.•]|\band\b|\s\d+[.)]\s)\s*`)
)

var stemKeywords = []string{
	"math", "calculus", "algebra", "physics", "chemistry", "biology",
	"engineering", "computer", "programming", "statistics", "science",
	"circuit", "algorithm", "electr",
}

var stemPrefixes = map[string]bool{
	"MAT": true, "MATH": true, "CSC": true, "CS": true, "ECE": true,
	"PHY": true, "PHYS": true, "CHM": true, "CHEM": true, "BIO": true,
	"STA": true, "STAT": true, "AST": true, "EEE": true, "MIE": true,
}

// courseProfile holds the boolean axes used to pick templates.
type courseProfile struct {
	stem, lab, project, writing, group bool
}

func profileOf(rec *Record, src *source) courseProfile {
	lower := src.lower + " " + strings.ToLower(rec.CourseName)
	return courseProfile{
		stem:    containsAny(lower, stemKeywords...) || stemPrefixes[subjectPrefix(rec.CourseCode)],
		lab:     labRe.MatchString(src.flat),
		project: projectRe.MatchString(src.flat),
		writing: writingRe.MatchString(src.flat),
		group:   groupRe.MatchString(src.flat),
	}
}

func generateInsights(rec *Record, src *source) Insights {
	p := profileOf(rec, src)
	difficulty := difficultyScore(rec.CourseCode, p)
	return Insights{
		StudyStrategy:     studyStrategy(p),
		ProfessorInsights: professorNote(rec.Instructor),
		CourseAdvice:      courseAdvice(p, difficulty),
		Difficulty:        difficulty,
		Workload:          workloadScore(rec, p),
		KeyTopics:         keyTopics(src),
		ExamTips:          examTips(rec.GradingBreakdown),
	}
}

// difficultyScore seeds from the course level (400+ → 5, 300s → 4,
// 200s → 3, else 2), adds one for STEM, clamps to [1,5].
func difficultyScore(code string, p courseProfile) int {
	level := 0
	if m := courseLevelRe.FindString(code); m != "" {
		level, _ = strconv.Atoi(m)
	}
	score := 2
	switch {
	case level >= 400:
		score = 5
	case level >= 300:
		score = 4
	case level >= 200:
		score = 3
	}
	if p.stem {
		score++
	}
	return clamp(score, 1, 5)
}

// workloadScore starts at 3 and adds one per lab, projects, writing,
// more than three textbooks and graded participation.
func workloadScore(rec *Record, p courseProfile) int {
	score := 3
	for _, b := range []bool{p.lab, p.project, p.writing, len(rec.Textbooks) > 3, gradesParticipation(rec.GradingBreakdown)} {
		if b {
			score++
		}
	}
	return clamp(score, 1, 5)
}

func gradesParticipation(comps []GradingComponent) bool {
	for _, c := range comps {
		if containsAny(strings.ToLower(c.Component), "participation", "attendance") {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func studyStrategy(p courseProfile) string {
	switch {
	case p.stem && p.lab:
		return "Read the lab handout before each session and keep a running log of procedures and results. Work through practice problems every week instead of saving them for exam season."
	case p.stem:
		return "Solve problems daily. Rework lecture examples without looking at the solution, then move to the textbook exercises and past assessments."
	case p.writing:
		return "Start papers early: outline, draft, then revise with feedback from office hours or the writing centre. Keep reading notes organized by theme."
	case p.project:
		return "Split the project into milestones with your own deadlines and check progress against the rubric each week."
	}
	return "Review notes within a day of each lecture, summarize each week in a page, and test yourself regularly rather than rereading."
}

func professorNote(ins Instructor) string {
	switch {
	case ins.OfficeHours != OfficeHoursNotFound:
		return fmt.Sprintf("Office hours are held %s. Bring specific questions and visit before major deadlines.", ins.OfficeHours)
	case ins.Email != EmailNotFound:
		return fmt.Sprintf("Reach the instructor at %s. Keep messages short and put the course code in the subject line.", ins.Email)
	}
	return "No contact details were found in the syllabus. Check the course website for office hours and contact policies."
}

func courseAdvice(p courseProfile, difficulty int) string {
	switch {
	case p.group:
		return "Expect collaborative work. Agree on roles, meeting times and internal deadlines with your group early."
	case difficulty >= 4:
		return "This is a demanding course. Budget extra study hours every week and do not fall behind on the readings."
	}
	return "Keep a steady weekly routine and use the first weeks to get comfortable with the course format."
}

// examTips picks a template from the exam share of the grade.
func examTips(comps []GradingComponent) string {
	var exam, total float64
	for _, c := range comps {
		total += c.Percentage
		if containsAny(strings.ToLower(c.Component), "exam", "midterm", "final", "test") {
			exam += c.Percentage
		}
	}
	switch {
	case exam == 0:
		return "No exams appear in the grading scheme. Consistent work on assignments and projects determines your grade."
	case total > 0 && exam/total > 0.6:
		return fmt.Sprintf("Exams account for %.0f%% of the grade. Start reviewing several weeks ahead and practice past papers under timed conditions.", exam/total*100)
	}
	return "The grade is balanced between exams and coursework. Keep up with assignments and use them as exam preparation."
}

var fallbackTopics = []struct {
	needle string
	topics []string
}{
	{"calculus", []string{"Limits and Continuity", "Derivatives", "Applications of Derivatives", "Integrals", "Fundamental Theorem of Calculus", "Sequences and Series"}},
	{"physics", []string{"Kinematics", "Newton's Laws", "Work and Energy", "Momentum", "Rotational Motion", "Oscillations and Waves"}},
	{"programming", []string{"Programming Fundamentals", "Data Structures", "Algorithms", "Object-Oriented Design", "Testing and Debugging", "Complexity Analysis"}},
	{"chemistry", []string{"Atomic Structure", "Chemical Bonding", "Stoichiometry", "Thermochemistry", "Chemical Equilibrium", "Acids and Bases"}},
}

var genericTopics = []string{"Core Concepts", "Foundational Theory", "Practical Applications", "Problem Solving", "Critical Analysis", "Course Review"}

// keyTopics reads labeled topic sections, deduplicating topics whose words
// share Snowball stems. Falls back to a subject-indexed list.
func keyTopics(src *source) []string {
	topics := []string{}
	stems := newOrderedSet()
	for _, m := range topicsRe.FindAllStringSubmatch(src.flat, -1) {
		body := cutAt(truncateRunes(m[1], 400), topicStop)
		for _, t := range topicSep.Split(body, -1) {
			t = trimPunct(t)
			if n := runeLen(t); n < 3 || n > 60 {
				continue
			}
			if !stems.Add(stemKey(t)) {
				continue
			}
			topics = append(topics, t)
			if len(topics) == MaxKeyTopics {
				return topics
			}
		}
	}
	if len(topics) > 0 {
		return topics
	}
	for _, f := range fallbackTopics {
		if strings.Contains(src.lower, f.needle) {
			return append([]string{}, f.topics...)
		}
	}
	return append([]string{}, genericTopics...)
}

func stemKey(topic string) string {
	words := strings.FieldsFunc(strings.ToLower(topic), func(r rune) bool { return !isLetter(r) && (r < '0' || r > '9') })
	for i, w := range words {
		if s, err := snowball.Stem(w, "english", true); err == nil {
			words[i] = s
		}
	}
	return strings.Join(words, " ")
}
