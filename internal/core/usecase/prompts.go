package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

func summaryPrompt(category domain.DocumentCategory) string {
	return fmt.Sprintf(`You review evidence for an immigration petition. The document was classified as %q.
Return one JSON object: {"summary": string, "tags": [string]}.
- "summary": two or three sentences stating what the document proves and for whom.
- "tags": up to five short lowercase topic tags (for example "research", "awards", "media").
Use only facts from the document. Return raw JSON only.`, category)
}

type summaryResponse struct {
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

func parseSummary(raw string) (summaryResponse, error) {
	obj := prompting.ExtractJSONObject(prompting.CleanJSONBlock(raw))
	if obj == "" {
		return summaryResponse{}, domain.WrapError(domain.ErrParse, "parse summary", fmt.Errorf("no json object in response"))
	}
	var out summaryResponse
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return summaryResponse{}, domain.WrapError(domain.ErrParse, "parse summary", err)
	}
	out.Summary = strings.TrimSpace(out.Summary)
	if out.Summary == "" {
		return summaryResponse{}, domain.WrapError(domain.ErrParse, "parse summary", fmt.Errorf("empty summary"))
	}
	out.Tags = normalizeTags(out.Tags)
	return out, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

const analysisPrompt = `You check credentials submitted with immigration petitions for signs of forgery.
Return one JSON object:
{"narrative": string, "institution": string|null, "recipientName": string|null, "issueDate": string|null, "credential": string|null, "flags": [string]}
- "narrative": a short assessment of layout, wording and internal consistency.
- "flags": concrete inconsistencies only; use [] when none.
Use only what the document text shows. Return raw JSON only.`

type analysisResponse struct {
	Narrative     string   `json:"narrative"`
	Institution   *string  `json:"institution"`
	RecipientName *string  `json:"recipientName"`
	IssueDate     *string  `json:"issueDate"`
	Credential    *string  `json:"credential"`
	Flags         []string `json:"flags"`
}

func parseAnalysis(raw string) (analysisResponse, error) {
	obj := prompting.ExtractJSONObject(prompting.CleanJSONBlock(raw))
	if obj == "" {
		return analysisResponse{}, domain.WrapError(domain.ErrParse, "parse analysis", fmt.Errorf("no json object in response"))
	}
	var out analysisResponse
	if err := json.Unmarshal([]byte(obj), &out); err != nil {
		return analysisResponse{}, domain.WrapError(domain.ErrParse, "parse analysis", err)
	}
	return out, nil
}

func translationPrompt(targetLanguage string) string {
	return fmt.Sprintf(`Translate the document text into %s.
Keep names, numbers, dates and official titles exact; keep the line structure.
Mark illegible passages as [illegible]. Return only the translated text.`, targetLanguage)
}
