package syllabus

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var urlRe = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s<>"'()\[\]]+`)

// linkRule classifies a link by domain substring.
type linkRule struct {
	needles []string
	name    string
	typ     LinkType
}

var domainRules = []linkRule{
	{[]string{"canvas"}, "Canvas", LinkLMS},
	{[]string{"blackboard"}, "Blackboard", LinkLMS},
	{[]string{"quercus"}, "Quercus", LinkLMS},
	{[]string{"moodle"}, "Moodle", LinkLMS},
	{[]string{"brightspace", "d2l"}, "Brightspace", LinkLMS},
	{[]string{"github", "gitlab"}, "Code Repository", LinkResource},
	{[]string{"zoom.us", "teams.microsoft", "meet.google", "webex"}, "Virtual Classroom", LinkTool},
	{[]string{"piazza", "edstem", "discord"}, "Discussion Forum", LinkTool},
	{[]string{"gradescope", "crowdmark"}, "Assignment Submission", LinkTool},
	{[]string{"youtube", "youtu.be"}, "Video Lectures", LinkResource},
	{[]string{"library"}, "Library Resources", LinkResource},
}

// context words used when the domain is not recognized
var contextRules = []linkRule{
	{[]string{"course website", "course page", "syllabus"}, "Course Website", LinkLMS},
	{[]string{"library"}, "Library Resources", LinkResource},
	{[]string{"textbook", "reading", "notes", "slides"}, "Course Materials", LinkResource},
	{[]string{"forum", "discussion", "q&a"}, "Discussion Forum", LinkTool},
	{[]string{"submit", "submission"}, "Assignment Submission", LinkTool},
	{[]string{"office hours", "virtual", "online meeting"}, "Virtual Classroom", LinkTool},
}

// PlaceholderLinks are returned when the syllabus contains no URL.
func PlaceholderLinks() []Link {
	return []Link{
		{Name: "Course LMS", URL: "#", Type: LinkLMS},
		{Name: "Virtual Classroom", URL: "#", Type: LinkTool},
		{Name: "Library Resources", URL: "#", Type: LinkResource},
	}
}

func extractLinks(src *source) []Link {
	links := []Link{}
	seen := newOrderedSet()
	for _, loc := range urlRe.FindAllStringIndex(src.flat, -1) {
		raw := strings.TrimRight(src.flat[loc[0]:loc[1]], ".,;:!?")
		if !seen.Add(strings.ToLower(strings.TrimSuffix(raw, "/"))) {
			continue
		}
		lo := max(loc[0]-50, 0)
		hi := min(loc[1]+50, len(src.flat))
		links = append(links, classifyLink(raw, strings.ToLower(src.flat[lo:hi])))
		if len(links) == MaxLinks {
			break
		}
	}
	if len(links) == 0 {
		return PlaceholderLinks()
	}
	return links
}

func classifyLink(raw, context string) Link {
	href := raw
	if !strings.Contains(strings.ToLower(href), "://") {
		href = "https://" + href
	}
	host := ""
	if u, err := url.Parse(href); err == nil {
		host = strings.ToLower(u.Hostname())
	}
	lowerURL := strings.ToLower(href)

	for _, r := range domainRules {
		if containsAny(lowerURL, r.needles...) {
			return Link{Name: r.name, URL: href, Type: r.typ}
		}
	}
	for _, r := range contextRules {
		if containsAny(context, r.needles...) {
			return Link{Name: r.name, URL: href, Type: r.typ}
		}
	}
	return Link{Name: siteName(host), URL: href, Type: LinkOther}
}

// siteName names a link by its registrable domain ("cs.toronto.edu" → "toronto.edu").
func siteName(host string) string {
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "Course Link"
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return host
}
