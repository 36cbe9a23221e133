package domain

// CredentialRecord is the structured field set pulled from a diploma or
// transcript. Every field is optional: nil means the source did not state it.
type CredentialRecord struct {
	Name             *string        `json:"name"`
	Degree           *string        `json:"degree"`
	FieldOfStudy     *string        `json:"field_of_study"`
	University       *string        `json:"university"`
	GraduationDate   *string        `json:"graduation_date"`
	DiplomaIssueDate *string        `json:"diploma_issue_date"`
	BirthDate        *string        `json:"birth_date"`
	Birthplace       *string        `json:"birthplace"`
	Courses          []CourseRecord `json:"courses"`
	DocumentType     *string        `json:"document_type"`
}

type CourseRecord struct {
	CourseName     string   `json:"course_name"`
	GradeReceived  string   `json:"grade_received"`
	USGrade        *string  `json:"us_grade,omitempty"`
	Credits        *float64 `json:"credits,omitempty"`
	SemesterOrYear *string  `json:"semester_or_year,omitempty"`
}

// CredentialEvaluation pairs the extracted record with the equivalency narrative.
type CredentialEvaluation struct {
	Category    DocumentCategory  `json:"category"`
	Record      *CredentialRecord `json:"record"`
	Degraded    bool              `json:"degraded,omitempty"`
	Equivalency string            `json:"equivalency"`
	GPA         *float64          `json:"gpa,omitempty"`
}
