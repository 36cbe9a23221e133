// Package authenticity scores how plausible an uploaded credential looks
// from structural markers in its text.
package authenticity

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/petition-assistant/internal/core/classify"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const (
	MinTextLength   = 50
	ShortTextLength = 200

	baselineScore = 85
	minScore      = 40
	maxScore      = 99

	penaltyScreenshot    = 15
	penaltyNoSignature   = 10
	penaltyNoDate        = 8
	penaltyNoInstitution = 12
	penaltySuspicious    = 5

	FlagInsufficientText = "Insufficient text extracted to assess authenticity"
	FlagAIUnavailable    = "AI analysis unavailable"
)

var screenshotMarkers = []string{"screenshot", "screen shot", "capture"}

// categoryPhrasing is the vocabulary an authentic document of the category normally carries.
var categoryPhrasing = map[domain.DocumentCategory]*regexp.Regexp{
	domain.CategoryDiploma:     regexp.MustCompile(`(?i)\b(?:honou?rs?|rights|privileges)\b`),
	domain.CategoryTranscript:  regexp.MustCompile(`(?i)\b(?:grades?|gpa|credits?)\b`),
	domain.CategoryCertificate: regexp.MustCompile(`(?i)\b(?:completed|completion|achievement|awarded)\b`),
}

// Assess scores text and fileName with fixed penalties from a baseline and
// maps the clamped score to a verdict. It never fails.
func Assess(text, fileName string) domain.VerificationVerdict {
	trimmed := strings.TrimSpace(text)
	length := utf8.RuneCountInString(trimmed)
	category := classify.ClassifyWithHint(trimmed, fileName)
	meta := &domain.MetadataAnalysis{FileName: fileName, Category: category, TextLength: length}

	if length < MinTextLength {
		return domain.VerificationVerdict{
			Verdict:          domain.VerdictInconclusive,
			ConfidenceScore:  0,
			Flags:            []string{FlagInsufficientText},
			SuggestedAction:  "Upload a clearer scan or the original file so the document text can be read.",
			MetadataAnalysis: meta,
			ExtractedInfo:    &domain.ExtractedInfo{},
		}
	}

	f := extractFacts(trimmed)
	score := baselineScore
	var flags []string

	lowerName := strings.ToLower(fileName)
	for _, marker := range screenshotMarkers {
		if strings.Contains(lowerName, marker) {
			score -= penaltyScreenshot
			flags = append(flags, "File name suggests a screenshot rather than an original document")
			break
		}
	}
	if !f.signature {
		score -= penaltyNoSignature
		flags = append(flags, "No signature or signing authority found")
	}
	if f.issueDate == "" {
		score -= penaltyNoDate
		flags = append(flags, "No issue date found")
	}
	if f.institution == "" {
		score -= penaltyNoInstitution
		flags = append(flags, "No issuing institution found")
	}

	for _, suspicious := range suspiciousPatterns(trimmed, length, category) {
		score -= penaltySuspicious
		flags = append(flags, suspicious)
	}

	score = clamp(score)
	verdict := VerdictForScore(score)
	return domain.VerificationVerdict{
		Verdict:          verdict,
		ConfidenceScore:  score,
		Flags:            dedupe(flags),
		SuggestedAction:  suggestedAction(verdict, f.institution),
		MetadataAnalysis: meta,
		ExtractedInfo: &domain.ExtractedInfo{
			Institution:   f.institution,
			RecipientName: f.recipient,
			IssueDate:     f.issueDate,
			Credential:    f.credential,
			HasSignature:  f.signature,
		},
	}
}

func suspiciousPatterns(text string, length int, category domain.DocumentCategory) []string {
	var out []string
	if length < ShortTextLength {
		out = append(out, "Unusually little text for an official document")
	}
	if phrasing, ok := categoryPhrasing[category]; ok && !phrasing.MatchString(text) {
		out = append(out, "Missing wording typical of a "+strings.ReplaceAll(string(category), "_", " "))
	}
	if m := watermarkPattern.FindString(text); m != "" {
		out = append(out, "Watermark word found: "+strings.ToLower(m))
	}
	return out
}

// VerdictForScore maps a confidence score to the three-way verdict.
func VerdictForScore(score int) domain.Verdict {
	switch {
	case score > 85:
		return domain.VerdictLikelyAuthentic
	case score > 70:
		return domain.VerdictInconclusive
	default:
		return domain.VerdictPossiblyFake
	}
}

func clamp(score int) int {
	return max(minScore, min(maxScore, score))
}

func suggestedAction(verdict domain.Verdict, institution string) string {
	target := "the issuing institution"
	if institution != "" {
		target = institution
	}
	switch verdict {
	case domain.VerdictLikelyAuthentic:
		return "No major issues found. For critical filings, contact " + target + " to confirm the document."
	case domain.VerdictInconclusive:
		return "Request an original or certified copy and contact " + target + " to verify it."
	default:
		return "Do not rely on this document until " + target + " confirms it. Contact " + target + " directly."
	}
}

func dedupe(flags []string) []string {
	seen := make(map[string]struct{}, len(flags))
	out := make([]string, 0, len(flags))
	for _, flag := range flags {
		if _, ok := seen[flag]; ok {
			continue
		}
		seen[flag] = struct{}{}
		out = append(out, flag)
	}
	return out
}

// FallbackVerdict is the degraded verdict used when the analysis step fails.
// It depends on the file name only, so repeated calls agree.
func FallbackVerdict(fileName string) domain.VerificationVerdict {
	sum := 0
	for i := 0; i < len(fileName); i++ {
		sum += int(fileName[i])
	}
	score := 70 + sum%30
	return domain.VerificationVerdict{
		Verdict:         VerdictForScore(score),
		ConfidenceScore: score,
		Flags: []string{
			FlagAIUnavailable,
			"Score derived from file name only; manual review required",
		},
		SuggestedAction:  "Review the document manually and contact the issuing institution to verify it.",
		MetadataAnalysis: &domain.MetadataAnalysis{FileName: fileName, Category: classify.FromFileName(fileName)},
		Degraded:         true,
	}
}
