package domain

import (
	"fmt"
	"time"
)

type FileStatus string

const (
	FileUploaded   FileStatus = "uploaded"
	FileProcessed  FileStatus = "processed"
	FileOCR        FileStatus = "ocr"
	FileEvaluated  FileStatus = "evaluated"
	FileTranslated FileStatus = "translated"
	FileEdited     FileStatus = "edited"
	FileCompleted  FileStatus = "completed"
)

// fileStatusRank orders both lifecycles: processed and ocr share a stage,
// as do evaluated and translated.
var fileStatusRank = map[FileStatus]int{
	FileUploaded:   0,
	FileProcessed:  1,
	FileOCR:        1,
	FileEvaluated:  2,
	FileTranslated: 2,
	FileEdited:     3,
	FileCompleted:  4,
}

// CanAdvance reports whether a record in status from may move to status to.
// Repeating the current stage is allowed (e.g. editing twice).
func CanAdvance(from, to FileStatus) bool {
	fromRank, okFrom := fileStatusRank[from]
	toRank, okTo := fileStatusRank[to]
	if !okFrom || !okTo {
		return false
	}
	return toRank >= fromRank
}

func checkTransition(from, to FileStatus, allowed ...FileStatus) error {
	valid := false
	for _, s := range allowed {
		if s == to {
			valid = true
			break
		}
	}
	if !valid || !CanAdvance(from, to) {
		return WrapError(ErrInvalidInput, "advance file status", fmt.Errorf("%s -> %s", from, to))
	}
	return nil
}

// EvaluationFile tracks one credential evaluation.
type EvaluationFile struct {
	ID          string                `json:"id"`
	CaseID      string                `json:"case_id,omitempty"`
	FileName    string                `json:"file_name"`
	MimeType    string                `json:"mime_type"`
	StoragePath string                `json:"storage_path"`
	Status      FileStatus            `json:"status"`
	Text        string                `json:"text,omitempty"`
	Evaluation  *CredentialEvaluation `json:"evaluation,omitempty"`
	LetterID    string                `json:"letter_id,omitempty"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func (f *EvaluationFile) Advance(to FileStatus, now time.Time) error {
	if err := checkTransition(f.Status, to, FileUploaded, FileProcessed, FileEvaluated, FileEdited, FileCompleted); err != nil {
		return err
	}
	f.Status = to
	f.UpdatedAt = now
	return nil
}

// TranslationFile tracks one document translation.
type TranslationFile struct {
	ID             string     `json:"id"`
	CaseID         string     `json:"case_id,omitempty"`
	FileName       string     `json:"file_name"`
	MimeType       string     `json:"mime_type"`
	StoragePath    string     `json:"storage_path"`
	TargetLanguage string     `json:"target_language"`
	Status         FileStatus `json:"status"`
	Text           string     `json:"text,omitempty"`
	Translation    string     `json:"translation,omitempty"`
	Error          string     `json:"error,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (f *TranslationFile) Advance(to FileStatus, now time.Time) error {
	if err := checkTransition(f.Status, to, FileUploaded, FileOCR, FileTranslated, FileEdited, FileCompleted); err != nil {
		return err
	}
	f.Status = to
	f.UpdatedAt = now
	return nil
}
