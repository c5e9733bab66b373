// CLAUDE:SUMMARY Maps a course code's subject prefix to curated clubs, video channels and online tools.
package syllabus

import (
	"fmt"
	"strings"
)

// prefix aliases for institutions that spell subjects out
var prefixAliases = map[string]string{
	"MATH": "MAT", "CS": "CSC", "COMP": "CSC", "CMPT": "CSC", "EE": "ECE",
	"ELEC": "ECE", "PHYS": "PHY", "CHEM": "CHM", "BIOL": "BIO", "ECON": "ECO",
	"PSYC": "PSY", "PSYCH": "PSY",
}

var subjectNames = map[string]string{
	"MAT": "Mathematics", "CSC": "Computer Science", "ECE": "Electrical and Computer Engineering",
	"PHY": "Physics", "CHM": "Chemistry", "BIO": "Biology", "ECO": "Economics", "PSY": "Psychology",
}

var clubTable = map[string][]string{
	"MAT": {"Mathematics Society", "Math Union", "Actuarial Science Club", "Women in Mathematics"},
	"CSC": {"Computer Science Student Union", "Hackathon Club", "Women in Computer Science", "Competitive Programming Club"},
	"ECE": {"IEEE Student Branch", "Robotics Club", "Engineering Society", "Electronics Club"},
	"PHY": {"Physics Society", "Astronomy Club", "Society of Physics Students", "Quantum Computing Club"},
	"CHM": {"Chemistry Students' Association", "ACS Student Chapter", "Green Chemistry Initiative", "Pre-Pharmacy Society"},
	"BIO": {"Biology Students' Association", "Pre-Med Society", "Ecology Club", "Genetics Society"},
	"ECO": {"Economics Students' Association", "Investment Club", "Finance Association", "Policy Debate Club"},
	"PSY": {"Psychology Students' Association", "Neuroscience Club", "Mental Health Awareness Club", "Cognitive Science Society"},
}

var youtubeTable = map[string][]string{
	"MAT": {"3Blue1Brown", "Professor Leonard", "Khan Academy", "Numberphile"},
	"CSC": {"CS50", "freeCodeCamp.org", "MIT OpenCourseWare", "Computerphile"},
	"ECE": {"ElectroBOOM", "Neso Academy", "ALL ABOUT ELECTRONICS", "EEVblog"},
	"PHY": {"Flipping Physics", "minutephysics", "Physics Girl", "MIT OpenCourseWare"},
	"CHM": {"The Organic Chemistry Tutor", "Tyler DeWitt", "Crash Course Chemistry", "Professor Dave Explains"},
	"BIO": {"Amoeba Sisters", "Crash Course Biology", "Bozeman Science", "Khan Academy"},
	"ECO": {"Marginal Revolution University", "Economics Explained", "Crash Course Economics", "Khan Academy"},
	"PSY": {"Crash Course Psychology", "SciShow Psych", "Psych2Go", "Yale Courses"},
}

var onlineTable = map[string][]string{
	"MAT": {"Wolfram Alpha", "Desmos", "Paul's Online Math Notes", "Symbolab"},
	"CSC": {"LeetCode", "GeeksforGeeks", "VisuAlgo", "Stack Overflow"},
	"ECE": {"Falstad Circuit Simulator", "All About Circuits", "LTspice", "Wolfram Alpha"},
	"PHY": {"PhET Simulations", "HyperPhysics", "The Physics Classroom", "Wolfram Alpha"},
	"CHM": {"Chemistry LibreTexts", "PubChem", "Chemguide", "PhET Simulations"},
	"BIO": {"NCBI", "BioNinja", "Biology LibreTexts", "Quizlet"},
	"ECO": {"FRED Economic Data", "Investopedia", "CORE Econ", "World Bank Open Data"},
	"PSY": {"APA PsycNet", "Simply Psychology", "Noba Project", "Google Scholar"},
}

var (
	genericClubs   = []string{"Academic Success Centre", "Peer Mentorship Program", "Student Union Study Network", "Career Development Society"}
	genericYoutube = []string{"Khan Academy", "Crash Course", "MIT OpenCourseWare", "TED-Ed"}
	genericOnline  = []string{"Google Scholar", "Quizlet", "Coursera", "Open Textbook Library"}
)

// MapResources derives related resources from a course code. Each table
// falls back to its own generic list; study groups are always templated.
func MapResources(courseCode, institution string) RelatedResources {
	prefix := subjectPrefix(courseCode)
	return RelatedResources{
		Clubs:           lookup(clubTable, prefix, genericClubs),
		YoutubeChannels: lookup(youtubeTable, prefix, genericYoutube),
		StudyGroups:     studyGroups(courseCode, prefix, institution),
		OnlineResources: lookup(onlineTable, prefix, genericOnline),
	}
}

// subjectPrefix returns the leading letters of a course code, canonicalized.
func subjectPrefix(code string) string {
	if code == "" || code == CourseCodeNotFound {
		return ""
	}
	end := strings.IndexFunc(code, func(r rune) bool { return !isLetter(r) })
	if end < 0 {
		end = len(code)
	}
	p := strings.ToUpper(code[:end])
	if alias, ok := prefixAliases[p]; ok {
		return alias
	}
	return p
}

func lookup(table map[string][]string, prefix string, fallback []string) []string {
	src, ok := table[prefix]
	if !ok {
		src = fallback
	}
	return append([]string{}, src...)
}

func studyGroups(code, prefix, institution string) []string {
	if code == "" || code == CourseCodeNotFound {
		code = "Course"
	}
	subject, ok := subjectNames[prefix]
	if !ok {
		subject = "General Studies"
	}
	if institution == "" {
		institution = "your campus"
	}
	return []string{
		fmt.Sprintf("%s Study Group", code),
		fmt.Sprintf("%s Exam Prep Sessions", code),
		fmt.Sprintf("%s Peer Tutoring at %s", subject, institution),
		fmt.Sprintf("%s Online Discussion Channel", code),
	}
}
