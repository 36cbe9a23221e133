package domain

type Verdict string

const (
	VerdictLikelyAuthentic Verdict = "Likely Authentic"
	VerdictPossiblyFake    Verdict = "Possibly Fake"
	VerdictInconclusive    Verdict = "Inconclusive"
)

type VerificationVerdict struct {
	Verdict          Verdict           `json:"verdict"`
	ConfidenceScore  int               `json:"confidenceScore"`
	Flags            []string          `json:"flags"`
	SuggestedAction  string            `json:"suggestedAction"`
	MetadataAnalysis *MetadataAnalysis `json:"metadataAnalysis,omitempty"`
	ExtractedInfo    *ExtractedInfo    `json:"extractedInfo,omitempty"`
	Degraded         bool              `json:"degraded,omitempty"`
}

type MetadataAnalysis struct {
	FileName   string           `json:"fileName"`
	SourceType SourceType       `json:"sourceType,omitempty"`
	Category   DocumentCategory `json:"category"`
	TextLength int              `json:"textLength"`
	Narrative  string           `json:"narrative,omitempty"`
}

type ExtractedInfo struct {
	Institution   string `json:"institution,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
	IssueDate     string `json:"issueDate,omitempty"`
	Credential    string `json:"credential,omitempty"`
	HasSignature  bool   `json:"hasSignature"`
}
