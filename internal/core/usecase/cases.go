package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/letters"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

type CaseUseCase struct {
	cases   ports.CaseRepository
	docs    ports.DocumentRepository
	letters ports.LetterRepository
}

func NewCaseUseCase(cases ports.CaseRepository, docs ports.DocumentRepository, letterRepo ports.LetterRepository) *CaseUseCase {
	return &CaseUseCase{cases: cases, docs: docs, letters: letterRepo}
}

func (uc *CaseUseCase) CreateCase(ctx context.Context, applicantName, visaType string) (*domain.Case, error) {
	applicantName = strings.TrimSpace(applicantName)
	visaType = strings.TrimSpace(visaType)
	if applicantName == "" || visaType == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "create case", errors.New("applicant name and visa type are required"))
	}
	now := time.Now().UTC()
	c := &domain.Case{
		ID:            uuid.NewString(),
		ApplicantName: applicantName,
		VisaType:      letters.NormalizeVisaType(visaType),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.cases.CreateCase(ctx, c); err != nil {
		return nil, fmt.Errorf("create case: %w", err)
	}
	return c, nil
}

func (uc *CaseUseCase) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	return uc.cases.GetCase(ctx, id)
}

func (uc *CaseUseCase) ListDocuments(ctx context.Context, caseID string) ([]domain.Document, error) {
	if _, err := uc.cases.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return uc.docs.ListByCase(ctx, caseID)
}

func (uc *CaseUseCase) ListLetters(ctx context.Context, caseID string) ([]domain.Letter, error) {
	if _, err := uc.cases.GetCase(ctx, caseID); err != nil {
		return nil, err
	}
	return uc.letters.ListLettersByCase(ctx, caseID)
}
