package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/letters"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

const evidenceExcerptChars = 500

type LetterUseCase struct {
	letters   ports.LetterRepository
	cases     ports.CaseRepository
	docs      ports.DocumentRepository
	generator ports.TextGenerator
	corpus    *letters.Corpus
	selector  *letters.Selector
	composer  *letters.Composer
	logger    *slog.Logger
}

func NewLetterUseCase(
	letterRepo ports.LetterRepository,
	cases ports.CaseRepository,
	docs ports.DocumentRepository,
	generator ports.TextGenerator,
	corpus *letters.Corpus,
	logger *slog.Logger,
) *LetterUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if corpus == nil {
		corpus = letters.NewCorpus(nil)
	}
	selector := letters.NewSelector(corpus)
	return &LetterUseCase{
		letters:   letterRepo,
		cases:     cases,
		docs:      docs,
		generator: generator,
		corpus:    corpus,
		selector:  selector,
		composer:  letters.NewComposer(selector),
		logger:    logger,
	}
}

func (uc *LetterUseCase) DraftExpertLetter(ctx context.Context, caseID string, evidence domain.ExpertLetterEvidence) (*domain.Letter, error) {
	c, err := uc.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if evidence.VisaType == "" {
			evidence.VisaType = c.VisaType
		}
		if evidence.Applicant.Name == "" {
			evidence.Applicant.Name = c.ApplicantName
		}
		achievements, publications, awards, err := uc.caseEvidence(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		evidence.Achievements = append(evidence.Achievements, achievements...)
		evidence.Publications = append(evidence.Publications, publications...)
		evidence.Awards = append(evidence.Awards, awards...)
	}
	return uc.draft(ctx, caseID, evidence.Applicant.Name, evidence)
}

func (uc *LetterUseCase) DraftPetitionLetter(ctx context.Context, caseID string, evidence domain.PetitionLetterEvidence) (*domain.Letter, error) {
	c, err := uc.loadCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		if evidence.VisaType == "" {
			evidence.VisaType = c.VisaType
		}
		if evidence.Beneficiary.Name == "" {
			evidence.Beneficiary.Name = c.ApplicantName
		}
		achievements, publications, awards, err := uc.caseEvidence(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		evidence.Achievements = append(evidence.Achievements, achievements...)
		evidence.Publications = append(evidence.Publications, publications...)
		evidence.Awards = append(evidence.Awards, awards...)
	}
	return uc.draft(ctx, caseID, evidence.Beneficiary.Name, evidence)
}

func (uc *LetterUseCase) draft(ctx context.Context, caseID, subject string, evidence domain.LetterEvidence) (*domain.Letter, error) {
	op := fmt.Sprintf("draft %s letter", evidence.LetterKind())
	visaType := strings.TrimSpace(evidence.Visa())
	if visaType == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, op, errors.New("visa type is required"))
	}

	prompt, sample := uc.composer.ComposePrompt(visaType, evidence.TagList(), evidence)
	content, err := uc.generator.Generate(ctx, domain.GenerationRequest{
		DocumentType: string(evidence.LetterKind()) + "_letter",
		DocumentName: subject,
		Prompt:       prompt,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, op, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.WrapError(domain.ErrGeneration, op, errors.New("empty letter"))
	}

	now := time.Now().UTC()
	letter := &domain.Letter{
		ID:        uuid.NewString(),
		CaseID:    caseID,
		Kind:      evidence.LetterKind(),
		VisaType:  letters.NormalizeVisaType(visaType),
		Content:   content,
		Status:    domain.LetterDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if sample != nil {
		letter.SampleID = sample.ID
	}
	if err := uc.letters.CreateLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("create letter: %w", err)
	}
	uc.logger.Info("letter_drafted", "letter_id", letter.ID, "kind", string(letter.Kind), "sample_id", letter.SampleID)
	return letter, nil
}

func (uc *LetterUseCase) RefineLetter(ctx context.Context, letterID, instructions string) (*domain.Letter, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "refine letter", errors.New("instructions are required"))
	}
	letter, err := uc.letters.GetLetter(ctx, letterID)
	if err != nil {
		return nil, err
	}
	content, err := uc.generator.Generate(ctx, domain.GenerationRequest{
		DocumentType: string(letter.Kind) + "_letter",
		DocumentText: letter.Content,
		Prompt:       letters.ComposeRefinePrompt(*letter, instructions),
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "refine letter", err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.WrapError(domain.ErrGeneration, "refine letter", errors.New("empty letter"))
	}
	if err := uc.letters.UpdateLetterContent(ctx, letter.ID, content, domain.LetterRefined); err != nil {
		return nil, fmt.Errorf("update letter: %w", err)
	}
	letter.Content = content
	letter.Status = domain.LetterRefined
	letter.UpdatedAt = time.Now().UTC()
	return letter, nil
}

func (uc *LetterUseCase) GetLetter(ctx context.Context, id string) (*domain.Letter, error) {
	return uc.letters.GetLetter(ctx, id)
}

// Samples lists the whole corpus when visaType is empty, otherwise the
// samples of that visa type ranked by tag overlap.
func (uc *LetterUseCase) Samples(visaType string, tags []string) []domain.SampleLetter {
	if strings.TrimSpace(visaType) == "" {
		return uc.corpus.Samples()
	}
	return uc.selector.Rank(visaType, tags)
}

func (uc *LetterUseCase) loadCase(ctx context.Context, caseID string) (*domain.Case, error) {
	if caseID == "" {
		return nil, nil
	}
	c, err := uc.cases.GetCase(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("load case: %w", err)
	}
	return c, nil
}

// caseEvidence turns the summaries of processed case documents into evidence items.
func (uc *LetterUseCase) caseEvidence(ctx context.Context, caseID string) (achievements, publications, awards []domain.EvidenceItem, err error) {
	docs, err := uc.docs.ListByCase(ctx, caseID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list case documents: %w", err)
	}
	for _, doc := range docs {
		if doc.Status != domain.StatusReady || strings.TrimSpace(doc.Summary) == "" {
			continue
		}
		item := domain.EvidenceItem{
			Title:      doc.Filename,
			Excerpt:    prompting.Snippet(doc.Summary, evidenceExcerptChars),
			DocumentID: doc.ID,
		}
		switch doc.Category {
		case domain.CategoryPublication:
			publications = append(publications, item)
		case domain.CategoryAward:
			awards = append(awards, item)
		default:
			achievements = append(achievements, item)
		}
	}
	return achievements, publications, awards, nil
}
