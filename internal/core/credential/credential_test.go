package credential

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/petition-assistant/internal/core/classify"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	response string
	err      error
	requests []domain.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestExtractFieldsRoundTrip(t *testing.T) {
	want := &domain.CredentialRecord{
		Name:           strPtr("Ana Souza"),
		Degree:         strPtr("Bacharel em Engenharia"),
		University:     strPtr("Universidade de São Paulo"),
		GraduationDate: strPtr("2019-12-15"),
		Courses: []domain.CourseRecord{
			{CourseName: "Calculus I", GradeReceived: "9.0", USGrade: strPtr("A"), Credits: floatPtr(4)},
			{CourseName: "Physics I", GradeReceived: "7.5", USGrade: strPtr("B")},
		},
		DocumentType: strPtr("transcript"),
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	gen := &fakeGenerator{response: "```json\n" + string(payload) + "\n```"}
	got, err := NewFieldExtractor(gen, 0, nil).ExtractFields(context.Background(), "transcript text", domain.CategoryTranscript)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.Len(t, gen.requests, 1)
	assert.Equal(t, "transcript", gen.requests[0].DocumentType)
	assert.Contains(t, gen.requests[0].Prompt, "course_name")
}

func TestExtractFieldsCoercesLooseValues(t *testing.T) {
	gen := &fakeGenerator{response: `Here you go: {"name": "Li Wei", "degree": "null", "extra": "x",
		"courses": [{"course_name": "Algebra", "grade_received": 88, "credits": "3"}, "junk"]}`}
	got, err := NewFieldExtractor(gen, 0, nil).ExtractFields(context.Background(), "text", domain.CategoryTranscript)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Li Wei", *got.Name)
	assert.Nil(t, got.Degree)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, "88", got.Courses[0].GradeReceived)
	require.NotNil(t, got.Courses[0].Credits)
	assert.InDelta(t, 3.0, *got.Courses[0].Credits, 1e-9)
}

func TestExtractFieldsUnparseableYieldsNil(t *testing.T) {
	gen := &fakeGenerator{response: "I could not read this document."}
	got, err := NewFieldExtractor(gen, 0, nil).ExtractFields(context.Background(), "text", domain.CategoryDiploma)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestExtractFieldsGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	_, err := NewFieldExtractor(gen, 0, nil).ExtractFields(context.Background(), "text", domain.CategoryDiploma)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrGeneration))
}

func TestExtractFieldsTruncatesText(t *testing.T) {
	gen := &fakeGenerator{response: `{}`}
	_, err := NewFieldExtractor(gen, 10, nil).ExtractFields(context.Background(), strings.Repeat("x", 50), domain.CategoryDiploma)
	require.NoError(t, err)
	assert.Len(t, gen.requests[0].DocumentText, 10)
}

func TestDetermineEquivalency(t *testing.T) {
	gen := &fakeGenerator{response: "Equivalent to a US Bachelor of Science."}
	r := NewEquivalencyReasoner(gen, 0, nil)
	record := &domain.CredentialRecord{
		Degree:  strPtr("Licenciatura"),
		Courses: []domain.CourseRecord{{CourseName: "Statics", GradeReceived: "15", Credits: floatPtr(6)}},
	}
	out := r.DetermineEquivalency(context.Background(), "text", domain.CategoryTranscript, record)
	assert.Equal(t, "Equivalent to a US Bachelor of Science.", out)
	assert.Contains(t, gen.requests[0].Prompt, "Degree: Licenciatura")
	assert.Contains(t, gen.requests[0].Prompt, "- Statics: 15, 6 credits")
	assert.Contains(t, gen.requests[0].Prompt, "4.0 scale")

	gen.err = errors.New("boom")
	out = r.DetermineEquivalency(context.Background(), "text", domain.CategoryDiploma, nil)
	assert.Equal(t, "Unable to determine US equivalency: boom", out)
}

func TestGradePoints(t *testing.T) {
	tests := []struct {
		grade string
		want  float64
		ok    bool
	}{
		{"A", 4.0, true},
		{"b+", 3.3, true},
		{" C- ", 1.7, true},
		{"F", 0, true},
		{"95", 4.0, true},
		{"85%", 3.0, true},
		{"3.5", 3.5, true},
		{"Pass", 0, false},
		{"", 0, false},
		{"140", 0, false},
		{"9", 0, false},
		{"8.5", 0, false},
		{"10", 0, false},
		{"5", 0, false},
		{"59", 0, false},
		{"60", 1.0, true},
	}
	for _, tc := range tests {
		got, ok := GradePoints(tc.grade)
		assert.Equal(t, tc.ok, ok, tc.grade)
		assert.InDelta(t, tc.want, got, 1e-9, tc.grade)
	}
}

func TestCalculateGPAPrefersUSGradeAndWeighsCredits(t *testing.T) {
	courses := []domain.CourseRecord{
		{CourseName: "A", GradeReceived: "60", USGrade: strPtr("A"), Credits: floatPtr(3)},
		{CourseName: "B", GradeReceived: "C", Credits: floatPtr(1)},
		{CourseName: "C", GradeReceived: "Pass"},
	}
	gpa, ok := CalculateGPA(courses)
	require.True(t, ok)
	assert.InDelta(t, (4.0*3+2.0*1)/4, gpa, 0.01)

	_, ok = CalculateGPA([]domain.CourseRecord{{CourseName: "X", GradeReceived: "Pass"}})
	assert.False(t, ok)
}

func TestCalculateGPASkipsTenPointScale(t *testing.T) {
	courses := ParseCourseLines("CS101 Programming 4 9\nMA102 Calculus 4 8.5\nPH103 Physics 3 10")
	require.Len(t, courses, 3)

	_, ok := CalculateGPA(courses)
	assert.False(t, ok)

	rec := DegradedTranscriptRecord("CS101 Programming 4 9\nMA102 Calculus 4 B")
	require.NotNil(t, rec)
	gpa, ok := CalculateGPA(rec.Courses)
	require.True(t, ok)
	assert.InDelta(t, 3.0, gpa, 0.01)
}

func TestTranscriptScenario(t *testing.T) {
	text := strings.Join([]string{
		"State University",
		"Official Transcript",
		"CS101 Intro to Programming 3 A",
		"MATH201 Calculus II 4 B+",
		"PHYS110 General Physics 4 B",
		"ENG102 Academic Writing 2 A-",
		"HIST210 World History 3 C+",
	}, "\n")

	assert.Equal(t, domain.CategoryTranscript, classify.Classify(text))

	courses := ParseCourseLines(text)
	require.Len(t, courses, 5)
	assert.Equal(t, "CS101 Intro to Programming", courses[0].CourseName)
	assert.Equal(t, "B+", *courses[1].USGrade)

	gpa, ok := CalculateGPA(courses)
	require.True(t, ok)
	want := (4.0*3 + 3.3*4 + 3.0*4 + 3.7*2 + 2.3*3) / 16
	assert.InDelta(t, want, gpa, 0.01)
}

func TestDegradedTranscriptRecord(t *testing.T) {
	assert.Nil(t, DegradedTranscriptRecord("no course rows here"))

	rec := DegradedTranscriptRecord("BIO100 Biology 3 85")
	require.NotNil(t, rec)
	assert.Equal(t, "transcript", *rec.DocumentType)
	require.Len(t, rec.Courses, 1)
	assert.Nil(t, rec.Courses[0].USGrade)
}
