package credential

import (
	"fmt"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const fieldRules = `Rules:
- Use only information printed in the document. Never guess or invent values.
- Use null for any field the document does not state.
- Keep dates exactly as written in the document.
- Return raw JSON only: no markdown, no code fences, no commentary.`

const diplomaSchema = `{
  "name": string|null,
  "degree": string|null,
  "field_of_study": string|null,
  "university": string|null,
  "graduation_date": string|null,
  "diploma_issue_date": string|null,
  "birth_date": string|null,
  "birthplace": string|null,
  "courses": [],
  "document_type": "diploma"
}`

const transcriptSchema = `{
  "name": string|null,
  "degree": string|null,
  "field_of_study": string|null,
  "university": string|null,
  "graduation_date": string|null,
  "diploma_issue_date": string|null,
  "birth_date": string|null,
  "birthplace": string|null,
  "courses": [
    {
      "course_name": string,
      "grade_received": string,
      "us_grade": string|null,
      "credits": number|null,
      "semester_or_year": string|null
    }
  ],
  "document_type": "transcript"
}`

// FieldPrompt builds the extraction instruction for a credential category.
// Categories other than transcript use the diploma layout.
func FieldPrompt(category domain.DocumentCategory) string {
	var b strings.Builder
	if category == domain.CategoryTranscript {
		b.WriteString("You extract structured data from an academic transcript.\n")
		b.WriteString("Return one JSON object with exactly this schema:\n")
		b.WriteString(transcriptSchema)
		b.WriteString("\n\n")
		b.WriteString(fieldRules)
		b.WriteString("\n- List every course row of the transcript in \"courses\".")
		b.WriteString("\n- Set \"us_grade\" to the US letter grade (A, A-, B+, ... F) when it can be inferred from the grading scale, else null.")
		return b.String()
	}
	b.WriteString("You extract structured data from an academic diploma or degree certificate.\n")
	b.WriteString("Return one JSON object with exactly this schema:\n")
	b.WriteString(diplomaSchema)
	b.WriteString("\n\n")
	b.WriteString(fieldRules)
	return b.String()
}

// EquivalencyPrompt builds the US-equivalency instruction. A non-nil record
// is serialized into the prompt so the model reasons over extracted fields.
func EquivalencyPrompt(category domain.DocumentCategory, record *domain.CredentialRecord) string {
	var b strings.Builder
	if category == domain.CategoryTranscript {
		b.WriteString("You are a foreign credential evaluator. Using the transcript, report:\n")
		b.WriteString("1. The cumulative GPA converted to the US 4.0 scale, showing the conversion basis.\n")
		b.WriteString("2. The academic standing implied by the grades.\n")
		b.WriteString("3. The equivalent US program of study.\n")
		b.WriteString("4. Notes on grading scale or anything an evaluator should double-check.\n")
	} else {
		b.WriteString("You are a foreign credential evaluator. Write one statement naming the US-equivalent degree ")
		b.WriteString("for this credential (for example \"Bachelor of Science in Computer Science from a regionally accredited US institution\"), ")
		b.WriteString("followed by a short justification based on program length, level and field.\n")
	}
	b.WriteString("Answer in plain prose. Do not invent facts absent from the document.\n")

	if record != nil {
		b.WriteString("\nExtracted fields:\n")
		writeField(&b, "Name", record.Name)
		writeField(&b, "Degree", record.Degree)
		writeField(&b, "Field of study", record.FieldOfStudy)
		writeField(&b, "University", record.University)
		writeField(&b, "Graduation date", record.GraduationDate)
		writeField(&b, "Issue date", record.DiplomaIssueDate)
		if len(record.Courses) > 0 {
			b.WriteString("Courses:\n")
			for _, c := range record.Courses {
				fmt.Fprintf(&b, "- %s: %s", c.CourseName, c.GradeReceived)
				if c.USGrade != nil {
					fmt.Fprintf(&b, " (US %s)", *c.USGrade)
				}
				if c.Credits != nil {
					fmt.Fprintf(&b, ", %g credits", *c.Credits)
				}
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label string, v *string) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, *v)
}
