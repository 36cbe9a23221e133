package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrCaseNotFound     = errors.New("case not found")
	ErrLetterNotFound   = errors.New("letter not found")
	ErrFileNotFound     = errors.New("tracked file not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTemporary        = errors.New("temporary failure")

	// Failure kinds of the processing pipeline.
	ErrExtraction = errors.New("extraction failure")
	ErrGeneration = errors.New("generation service failure")
	ErrParse      = errors.New("unparseable generation output")
	ErrTimeout    = errors.New("deadline exceeded")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
