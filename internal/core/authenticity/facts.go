package authenticity

import (
	"regexp"
	"strings"
)

// facts are the structural markers found in a document's text.
type facts struct {
	institution string
	recipient   string
	issueDate   string
	credential  string
	signature   bool
}

var (
	institutionPatterns = compile(
		`\b(?:[A-Z][\w&.'-]*\s+){1,5}(?:University|College|Institute|Academy|Polytechnic|School)\b`,
		`\b(?:University|College|Institute|Academy|School)\s+of\s+(?:[A-Z][\w&.'-]*\s?){1,5}`,
		`(?i)\b(?:universidad|universidade|université|universität|universita)\b[^\n]{0,60}`,
	)
	recipientPatterns = compile(
		`(?i:awarded to|presented to|conferred upon|granted to|certif(?:y|ies) that)\s+(?:(?i:mr\.?|ms\.?|mrs\.?|dr\.?)\s+)?([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){0,3})`,
		`(?i:name|student|recipient)\s*:\s*([A-Z][a-zA-Z.'-]+(?:\s+[A-Z][a-zA-Z.'-]+){0,3})`,
	)
	datePatterns = compile(
		`\b\d{4}-\d{2}-\d{2}\b`,
		`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`,
		`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}\b`,
		`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:of\s+)?(?:january|february|march|april|may|june|july|august|september|october|november|december)\s*,?\s+\d{4}\b`,
		`(?i)\b(?:dated|issued(?:\s+on)?|date of issue)\s*:?\s*[^\n]{0,20}\d{4}\b`,
	)
	credentialPatterns = compile(
		`(?i)\b(?:bachelor|master|doctor)(?:'s)?\s+of\s+[a-z]+(?:\s+(?:in|of)\s+[a-z]+)?`,
		`(?i)\bcertificate\s+(?:of|in)\s+[a-z]+(?:\s+[a-z]+){0,3}`,
		`\b(?:Ph\.?D|M\.?Sc|B\.?Sc|MBA|B\.?Eng|M\.?Eng|LL\.?B|LL\.?M)\b`,
	)
	signaturePatterns = compile(
		`(?i)\bsign(?:ed|ature)\b`,
		`(?i)\b(?:registrar|dean|rector|chancellor|president|director)\b`,
		`(?m)^\s*/s/`,
		`_{5,}`,
	)
	watermarkPattern = regexp.MustCompile(`(?i)\b(specimen|sample|void|not valid)\b`)
)

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(expr))
	}
	return out
}

// firstMatch returns the first capture group of the first matching pattern,
// or the whole match when the pattern has no group.
func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func extractFacts(text string) facts {
	return facts{
		institution: firstMatch(institutionPatterns, text),
		recipient:   firstMatch(recipientPatterns, text),
		issueDate:   firstMatch(datePatterns, text),
		credential:  firstMatch(credentialPatterns, text),
		signature:   anyMatch(signaturePatterns, text),
	}
}
