// CLAUDE:SUMMARY Parsed syllabus record: course identity, instructor, schedule, textbooks, grading, links, details, insights, resources.
package syllabus

// Sentinel values returned when a field cannot be extracted.
const (
	CourseCodeNotFound  = "Course Code Not Found"
	CourseNameNotFound  = "Course Name Not Found"
	InstructorNotFound  = "Instructor Not Found"
	EmailNotFound       = "Email Not Found"
	OfficeHoursNotFound = "Office Hours Not Found"
	OfficeNotFound      = "Office Not Found"
	TimeNotFound        = "Time Not Found"
	LocationNotFound    = "Location Not Found"
	DescriptionNotFound = "Course description not found"
	AuthorNotSpecified  = "Author Not Specified"
)

// Caps on repeated fields.
const (
	MaxTextbooks          = 5
	MaxGradingComponents  = 8
	MaxLinks              = 8
	MaxPrerequisites      = 5
	MaxLearningObjectives = 5
	MaxKeyTopics          = 6
)

// Record is the complete result of parsing one syllabus. Every field is
// populated: unmatched strings carry their sentinel, slices are never nil.
type Record struct {
	CourseCode       string             `json:"courseCode"`
	CourseName       string             `json:"courseName"`
	Instructor       Instructor         `json:"instructor"`
	Schedule         Schedule           `json:"schedule"`
	Textbooks        []Textbook         `json:"textbooks"`
	GradingBreakdown []GradingComponent `json:"gradingBreakdown"`
	Links            []Link             `json:"links"`
	CourseDetails    CourseDetails      `json:"courseDetails"`
	AIInsights       Insights           `json:"aiInsights"`
	RelatedResources RelatedResources   `json:"relatedResources"`
}

type Instructor struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	OfficeHours string `json:"officeHours"`
	Office      string `json:"office"`
	Phone       string `json:"phone,omitempty"`
}

// Schedule holds the meeting pattern. Days are full weekday names in
// first-seen order without duplicates.
type Schedule struct {
	Days     []string `json:"days"`
	Time     string   `json:"time"`
	Location string   `json:"location"`
}

type Textbook struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	ISBN             string   `json:"isbn,omitempty"`
	Edition          string   `json:"edition,omitempty"`
	Required         bool     `json:"required"`
	EstimatedCost    string   `json:"estimatedCost"`
	FreeAlternatives []string `json:"freeAlternatives"`
	AmazonLink       string   `json:"amazonLink,omitempty"`
	LibraryAvailable bool     `json:"libraryAvailable"`
}

type GradingComponent struct {
	Component   string  `json:"component"`
	Percentage  float64 `json:"percentage"`
	Description string  `json:"description,omitempty"`
}

// LinkType classifies a hyperlink found in the syllabus.
type LinkType string

const (
	LinkLMS      LinkType = "lms"
	LinkResource LinkType = "resource"
	LinkTool     LinkType = "tool"
	LinkOther    LinkType = "other"
)

type Link struct {
	Name string   `json:"name"`
	URL  string   `json:"url"`
	Type LinkType `json:"type"`
}

type CourseDetails struct {
	Credits            int      `json:"credits"`
	Prerequisites      []string `json:"prerequisites"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learningObjectives"`
}

// Insights are rule-based study hints derived from the rest of the record.
// Difficulty and Workload are in [1,5].
type Insights struct {
	StudyStrategy     string   `json:"studyStrategy"`
	ProfessorInsights string   `json:"professorInsights"`
	CourseAdvice      string   `json:"courseAdvice"`
	Difficulty        int      `json:"difficulty"`
	Workload          int      `json:"workload"`
	KeyTopics         []string `json:"keyTopics"`
	ExamTips          string   `json:"examTips"`
}

type RelatedResources struct {
	Clubs           []string `json:"clubs"`
	YoutubeChannels []string `json:"youtubeChannels"`
	StudyGroups     []string `json:"studyGroups"`
	OnlineResources []string `json:"onlineResources"`
}
