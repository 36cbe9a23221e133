package letters

import (
	"fmt"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const (
	defaultApplicant   = "the applicant"
	defaultBeneficiary = "the beneficiary"
	defaultExpert      = "the expert"
	defaultPetitioner  = "the petitioner"
	defaultField       = "their field"
)

// Composer turns structured evidence into a drafting instruction, grounded on
// the best matching sample letter when one exists.
type Composer struct {
	selector *Selector
}

func NewComposer(selector *Selector) *Composer {
	return &Composer{selector: selector}
}

// ComposePrompt returns the drafting instruction and the sample it used (nil
// when no sample matched and the generic template applies).
func (c *Composer) ComposePrompt(visaType string, tags []string, evidence domain.LetterEvidence) (string, *domain.SampleLetter) {
	sample := c.selector.SelectSample(visaType, tags)
	code := NormalizeVisaType(visaType)

	var b strings.Builder
	switch ev := evidence.(type) {
	case domain.ExpertLetterEvidence:
		writeExpertIntro(&b, code, ev)
	case domain.PetitionLetterEvidence:
		writePetitionIntro(&b, code, ev)
	default:
		fmt.Fprintf(&b, "Draft a support letter for a %s visa petition.\n", code)
	}

	if sample != nil {
		b.WriteString("\nUse the following sample letter as a model for structure, tone and level of detail. ")
		b.WriteString("Do not copy its facts.\n--- SAMPLE LETTER ---\n")
		b.WriteString(strings.TrimSpace(sample.Body))
		b.WriteString("\n--- END SAMPLE ---\n")
	} else {
		b.WriteString("\nStructure: opening that identifies the writer and purpose, one section per major ")
		b.WriteString("contribution with concrete evidence, a closing recommendation.\n")
	}

	switch ev := evidence.(type) {
	case domain.ExpertLetterEvidence:
		writeItems(&b, "Achievements", ev.Achievements)
		writeItems(&b, "Publications", ev.Publications)
		writeItems(&b, "Awards", ev.Awards)
	case domain.PetitionLetterEvidence:
		if len(ev.Criteria) > 0 {
			b.WriteString("\nRegulatory criteria to address:\n")
			for _, criterion := range ev.Criteria {
				fmt.Fprintf(&b, "- %s\n", criterion)
			}
		}
		writeItems(&b, "Achievements", ev.Achievements)
		writeItems(&b, "Publications", ev.Publications)
		writeItems(&b, "Awards", ev.Awards)
	}

	b.WriteString("\nUse only the evidence above. Where a fact is missing, write a bracketed placeholder such as [DATE] instead of inventing it. ")
	b.WriteString("Return the letter text only.")
	return b.String(), sample
}

func writeExpertIntro(b *strings.Builder, code string, ev domain.ExpertLetterEvidence) {
	applicant := orDefault(ev.Applicant.Name, defaultApplicant)
	expert := orDefault(ev.Expert.Name, defaultExpert)
	fmt.Fprintf(b, "Draft an expert opinion letter supporting a %s visa petition for %s.\n", code, applicant)
	fmt.Fprintf(b, "The letter is written by %s", expert)
	if ev.Expert.Title != "" {
		fmt.Fprintf(b, ", %s", ev.Expert.Title)
	}
	if ev.Expert.Organization != "" {
		fmt.Fprintf(b, " at %s", ev.Expert.Organization)
	}
	b.WriteString(".\n")
	fmt.Fprintf(b, "Applicant field: %s.\n", orDefault(ev.Applicant.Field, defaultField))
	if ev.Relationship != "" {
		fmt.Fprintf(b, "Relationship between writer and applicant: %s.\n", ev.Relationship)
	} else {
		b.WriteString("The writer knows the applicant's work through its published record.\n")
	}
}

func writePetitionIntro(b *strings.Builder, code string, ev domain.PetitionLetterEvidence) {
	beneficiary := orDefault(ev.Beneficiary.Name, defaultBeneficiary)
	petitioner := orDefault(ev.Petitioner.Name, defaultPetitioner)
	if ev.Petitioner.Organization != "" && ev.Petitioner.Name == "" {
		petitioner = ev.Petitioner.Organization
	}
	fmt.Fprintf(b, "Draft the petition cover letter for a %s visa filed by %s on behalf of %s.\n", code, petitioner, beneficiary)
	fmt.Fprintf(b, "Beneficiary field: %s.\n", orDefault(ev.Beneficiary.Field, defaultField))
	if ev.Beneficiary.Nationality != "" {
		fmt.Fprintf(b, "Beneficiary nationality: %s.\n", ev.Beneficiary.Nationality)
	}
}

func writeItems(b *strings.Builder, heading string, items []domain.EvidenceItem) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, item := range items {
		fmt.Fprintf(b, "- %s", orDefault(item.Title, "untitled item"))
		if excerpt := strings.TrimSpace(item.Excerpt); excerpt != "" {
			fmt.Fprintf(b, ": %s", excerpt)
		}
		b.WriteString("\n")
	}
}

// ComposeRefinePrompt asks for a revision of an existing letter.
func ComposeRefinePrompt(letter domain.Letter, instructions string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Revise the following %s letter", letter.Kind)
	if letter.VisaType != "" {
		fmt.Fprintf(&b, " for a %s petition", letter.VisaType)
	}
	b.WriteString(" according to the instructions. Keep every fact that the instructions do not change ")
	b.WriteString("and return the full revised letter text only.\n\nInstructions:\n")
	b.WriteString(strings.TrimSpace(instructions))
	b.WriteString("\n\n--- CURRENT LETTER ---\n")
	b.WriteString(letter.Content)
	b.WriteString("\n--- END LETTER ---")
	return b.String()
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
