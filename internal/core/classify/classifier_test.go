package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.DocumentCategory
	}{
		{"transcript keyword", "Official Transcript of Records", domain.CategoryTranscript},
		{"gpa outranks degree", "Bachelor of Science degree\nCumulative GPA: 3.7", domain.CategoryTranscript},
		{"course rows", "CS101 Intro to Programming 3 A\nMA201 Linear Algebra 4 B+", domain.CategoryTranscript},
		{"diploma", "The University hereby confers the degree of Master of Arts", domain.CategoryDiploma},
		{"diploma rights", "with all the rights and privileges thereto", domain.CategoryDiploma},
		{"recommendation", "To whom it may concern, I strongly recommend Dr. Lee", domain.CategoryRecommendationLetter},
		{"award", "Awarded the Gold Medal for outstanding research", domain.CategoryAward},
		{"publication", "Abstract. We study graph neural networks. Smith et al.", domain.CategoryPublication},
		{"certificate", "This certificate is presented to Ana for completing the course", domain.CategoryCertificate},
		{"certificate title outranks awarded", "CERTIFICATE OF COMPLETION\nThis certificate is awarded to Jane Doe for the data course", domain.CategoryCertificate},
		{"certificate of achievement outranks recognition", "Certificate of Achievement presented to John Smith in recognition of outstanding service", domain.CategoryCertificate},
		{"certify wording", "This is to certify that Ana has successfully completed the workshop", domain.CategoryCertificate},
		{"award letter mentioning certificates", "The committee awarded Dr. Kim the annual prize and a certificate", domain.CategoryAward},
		{"generic", "Grocery list: milk, eggs", domain.CategoryGeneric},
		{"empty", "", domain.CategoryGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyIsPureAndTotal(t *testing.T) {
	inputs := []string{
		"",
		"random words",
		"TRANSCRIPT GPA 4.0",
		"Diploma of Engineering",
		"\x00\xff binary junk",
		"Certificate of award for a published journal of physics abstract",
	}
	for _, in := range inputs {
		first := Classify(in)
		assert.Equal(t, first, Classify(in), "classification must be stable for %q", in)
		assert.True(t, first.Valid(), "unknown category %q", first)
	}
}

func TestClassifyWithHintUsesFileNameOnlyForGenericText(t *testing.T) {
	assert.Equal(t, domain.CategoryDiploma, ClassifyWithHint("short scan", "diploma_john.pdf"))
	assert.Equal(t, domain.CategoryTranscript, ClassifyWithHint("GPA: 3.1", "diploma_john.pdf"))
	assert.Equal(t, domain.CategoryGeneric, ClassifyWithHint("short scan", "scan_001.pdf"))
}
