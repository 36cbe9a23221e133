package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Document is an uploaded evidence file and the analysis derived from it.
type Document struct {
	ID          string           `json:"id"`
	CaseID      string           `json:"case_id,omitempty"`
	Filename    string           `json:"filename"`
	MimeType    string           `json:"mime_type"`
	StoragePath string           `json:"storage_path"`
	SourceType  SourceType       `json:"source_type,omitempty"`
	Category    DocumentCategory `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Text        string           `json:"-"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
	Status      DocumentStatus   `json:"status"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// DocumentAnalysis is the result of processing one document.
type DocumentAnalysis struct {
	SourceType SourceType       `json:"source_type"`
	Category   DocumentCategory `json:"category"`
	Tags       []string         `json:"tags"`
	Summary    string           `json:"summary"`
	Text       string           `json:"-"`
	Metadata   map[string]any   `json:"metadata,omitempty"`
}

type SourceType string

const (
	SourcePDF   SourceType = "pdf"
	SourceDOCX  SourceType = "docx"
	SourceImage SourceType = "image"
	SourceHTML  SourceType = "html"
	SourceText  SourceType = "text"
)

// ExtractedDocument is the output of text extraction. A non-empty Error
// always comes with empty Text; use NewExtracted and FailedExtraction to
// build values.
type ExtractedDocument struct {
	Text       string         `json:"text"`
	Metadata   map[string]any `json:"metadata"`
	SourceType SourceType     `json:"source_type"`
	Error      string         `json:"error,omitempty"`
}

func NewExtracted(sourceType SourceType, text string, metadata map[string]any) ExtractedDocument {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return ExtractedDocument{
		Text:       text,
		Metadata:   metadata,
		SourceType: sourceType,
	}
}

func FailedExtraction(sourceType SourceType, err error) ExtractedDocument {
	msg := "extraction failed"
	if err != nil {
		msg = err.Error()
	}
	return ExtractedDocument{
		Metadata:   map[string]any{},
		SourceType: sourceType,
		Error:      msg,
	}
}

func (d ExtractedDocument) Failed() bool {
	return d.Error != ""
}

type DocumentCategory string

const (
	CategoryDiploma              DocumentCategory = "diploma"
	CategoryTranscript           DocumentCategory = "transcript"
	CategoryRecommendationLetter DocumentCategory = "recommendation_letter"
	CategoryAward                DocumentCategory = "award"
	CategoryPublication          DocumentCategory = "publication"
	CategoryCertificate          DocumentCategory = "certificate"
	CategoryGeneric              DocumentCategory = "generic"
)

func AllCategories() []DocumentCategory {
	return []DocumentCategory{
		CategoryDiploma,
		CategoryTranscript,
		CategoryRecommendationLetter,
		CategoryAward,
		CategoryPublication,
		CategoryCertificate,
		CategoryGeneric,
	}
}

func (c DocumentCategory) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Case groups the documents and letters of one petition.
type Case struct {
	ID            string    `json:"id"`
	ApplicantName string    `json:"applicant_name"`
	VisaType      string    `json:"visa_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GenerationRequest is the payload of the external text-generation service.
type GenerationRequest struct {
	DocumentType string `json:"documentType"`
	DocumentName string `json:"documentName"`
	DocumentText string `json:"documentText"`
	Prompt       string `json:"prompt"`
}

// ReprocessSummary reports a sequential batch reprocess.
type ReprocessSummary struct {
	CaseID    string            `json:"case_id"`
	Processed int               `json:"processed"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"`
}
