package domain

import "time"

type LetterKind string

const (
	LetterExpert     LetterKind = "expert"
	LetterPetition   LetterKind = "petition"
	LetterEvaluation LetterKind = "evaluation"
)

type LetterStatus string

const (
	LetterDraft   LetterStatus = "draft"
	LetterRefined LetterStatus = "refined"
)

type Letter struct {
	ID        string       `json:"id"`
	CaseID    string       `json:"case_id,omitempty"`
	Kind      LetterKind   `json:"kind"`
	VisaType  string       `json:"visa_type,omitempty"`
	SampleID  string       `json:"sample_id,omitempty"`
	Content   string       `json:"content"`
	Status    LetterStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SampleLetter is a read-only exemplar used to ground drafting.
type SampleLetter struct {
	ID       string   `json:"id" yaml:"id"`
	VisaType string   `json:"visa_type" yaml:"visa_type"`
	Tags     []string `json:"tags" yaml:"tags"`
	Body     string   `json:"body" yaml:"body"`
}

// Person is an applicant, beneficiary or expert as referenced in a letter.
type Person struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Field        string `json:"field,omitempty"`
	Nationality  string `json:"nationality,omitempty"`
}

type EvidenceItem struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt,omitempty"`
	DocumentID string `json:"document_id,omitempty"`
}

// LetterEvidence is implemented by ExpertLetterEvidence and PetitionLetterEvidence.
type LetterEvidence interface {
	LetterKind() LetterKind
	Visa() string
	TagList() []string
}

type ExpertLetterEvidence struct {
	VisaType     string         `json:"visa_type"`
	Tags         []string       `json:"tags,omitempty"`
	Applicant    Person         `json:"applicant"`
	Expert       Person         `json:"expert"`
	Relationship string         `json:"relationship,omitempty"`
	Achievements []EvidenceItem `json:"achievements,omitempty"`
	Publications []EvidenceItem `json:"publications,omitempty"`
	Awards       []EvidenceItem `json:"awards,omitempty"`
}

func (ExpertLetterEvidence) LetterKind() LetterKind { return LetterExpert }
func (e ExpertLetterEvidence) Visa() string { return e.VisaType }
func (e ExpertLetterEvidence) TagList() []string { return e.Tags }

type PetitionLetterEvidence struct {
	VisaType     string         `json:"visa_type"`
	Tags         []string       `json:"tags,omitempty"`
	Beneficiary  Person         `json:"beneficiary"`
	Petitioner   Person         `json:"petitioner"`
	Criteria     []string       `json:"criteria,omitempty"`
	Achievements []EvidenceItem `json:"achievements,omitempty"`
	Publications []EvidenceItem `json:"publications,omitempty"`
	Awards       []EvidenceItem `json:"awards,omitempty"`
}

func (PetitionLetterEvidence) LetterKind() LetterKind { return LetterPetition }
func (e PetitionLetterEvidence) Visa() string { return e.VisaType }
func (e PetitionLetterEvidence) TagList() []string { return e.Tags }
