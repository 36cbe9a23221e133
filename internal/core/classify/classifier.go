// Package classify assigns a coarse document category from extracted text.
package classify

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type rule struct {
	category domain.DocumentCategory
	patterns []*regexp.Regexp
}

// Order matters: transcript markers outrank bare degree mentions, and a
// certificate title outranks the award wording certificates usually carry.
var rules = []rule{
	{
		category: domain.CategoryTranscript,
		patterns: compile(
			`\btranscript\b`,
			`\bacademic record\b`,
			`\bgrade point average\b`,
			`\bgpa\b`,
			`\bcredit hours?\b`,
			`\bsemester\s+(?:[1-9ivx]+|grades?|credits?)\b`,
			`\b(?:fall|spring|summer|winter)\s+(?:semester|term)\b`,
			`(?m)^\s*[a-z]{2,4}\s?\d{3,4}[a-z]?\s+.+\s+\d+(?:\.\d+)?\s+(?:[a-f][+-]?|\d{1,3}(?:\.\d+)?)\s*$`,
		),
	},
	{
		category: domain.CategoryDiploma,
		patterns: compile(
			`\bdiploma\b`,
			`\bdegree of\b`,
			`\bhas (?:been )?conferred\b`,
			`\b(?:bachelor|master|doctor)(?:'s)? of\b`,
			`\bwith all the (?:rights|honors|honours|privileges)\b`,
			`\bbaccalaureate\b`,
		),
	},
	{
		category: domain.CategoryRecommendationLetter,
		patterns: compile(
			`\bletter of (?:recommendation|support|reference)\b`,
			`\bto whom it may concern\b`,
			`\bi (?:highly |strongly |enthusiastically )?recommend\b`,
			`\brecommendation\b`,
		),
	},
	{
		category: domain.CategoryCertificate,
		patterns: compile(
			`\A\s*certificate\b`,
			`\bcertificate of (?:completion|achievement|participation|attendance|accomplishment|excellence|merit)\b`,
		),
	},
	{
		category: domain.CategoryAward,
		patterns: compile(
			`\baward(?:ed|s)?\b`,
			`\bprize\b`,
			`\bmedal\b`,
			`\bfellowship\b`,
			`\bin recognition of\b`,
		),
	},
	{
		category: domain.CategoryPublication,
		patterns: compile(
			`\babstract\b`,
			`\bdoi:?\s*10\.\d{4,}`,
			`\bjournal of\b`,
			`\bproceedings of\b`,
			`\bet al\.`,
			`\bissn\b`,
		),
	},
	{
		category: domain.CategoryCertificate,
		patterns: compile(
			`\bcertificate\b`,
			`\bcertif(?:y|ies) that\b`,
			`\bcertification\b`,
			`\bsuccessfully completed\b`,
		),
	},
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// Classify returns the category of the first matching rule, or generic.
func Classify(text string) domain.DocumentCategory {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				return r.category
			}
		}
	}
	return domain.CategoryGeneric
}

// ClassifyWithHint falls back to filename keywords when the text alone is generic.
func ClassifyWithHint(text, fileName string) domain.DocumentCategory {
	if category := Classify(text); category != domain.CategoryGeneric {
		return category
	}
	return FromFileName(fileName)
}

var fileNameHints = []struct {
	keyword  string
	category domain.DocumentCategory
}{
	{"transcript", domain.CategoryTranscript},
	{"marksheet", domain.CategoryTranscript},
	{"diploma", domain.CategoryDiploma},
	{"degree", domain.CategoryDiploma},
	{"recommendation", domain.CategoryRecommendationLetter},
	{"reference", domain.CategoryRecommendationLetter},
	{"award", domain.CategoryAward},
	{"publication", domain.CategoryPublication},
	{"paper", domain.CategoryPublication},
	{"certificate", domain.CategoryCertificate},
}

// FromFileName guesses the category from filename keywords only.
func FromFileName(fileName string) domain.DocumentCategory {
	base := strings.ToLower(filepath.Base(fileName))
	for _, hint := range fileNameHints {
		if strings.Contains(base, hint.keyword) {
			return hint.category
		}
	}
	return domain.CategoryGeneric
}
