package credential

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

// courseLine matches "CODE NAME CREDITS GRADE" rows, e.g. "CS101 Intro to Programming 3 A".
var courseLine = regexp.MustCompile(`^\s*([A-Za-z]{2,4}\s?\d{3,4}[A-Za-z]?)\s+(.+?)\s+(\d+(?:\.\d+)?)\s+([A-Fa-f][+-]?|\d{1,3}(?:\.\d+)?)\s*$`)

// ParseCourseLines reads course rows directly from transcript text.
func ParseCourseLines(text string) []domain.CourseRecord {
	var courses []domain.CourseRecord
	for _, line := range strings.Split(text, "\n") {
		m := courseLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		credits, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			continue
		}
		course := domain.CourseRecord{
			CourseName:    strings.TrimSpace(m[1]) + " " + strings.TrimSpace(m[2]),
			GradeReceived: m[4],
			Credits:       &credits,
		}
		if letter := strings.ToUpper(m[4]); letter[0] >= 'A' && letter[0] <= 'F' {
			course.USGrade = &letter
		}
		courses = append(courses, course)
	}
	return courses
}

// DegradedTranscriptRecord builds a record from course rows alone, used when
// the generation output could not be parsed. It returns nil when the text has
// no recognizable rows.
func DegradedTranscriptRecord(text string) *domain.CredentialRecord {
	courses := ParseCourseLines(text)
	if len(courses) == 0 {
		return nil
	}
	docType := string(domain.CategoryTranscript)
	return &domain.CredentialRecord{Courses: courses, DocumentType: &docType}
}
