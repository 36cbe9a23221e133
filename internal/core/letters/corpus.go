package letters

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed samples.yaml
var defaultCorpus []byte

type corpusFile struct {
	Samples []domain.SampleLetter `yaml:"samples"`
}

// Corpus is the read-only, ordered set of sample letters. Order is the
// default priority when selection scores tie.
type Corpus struct {
	samples []domain.SampleLetter
}

func NewCorpus(samples []domain.SampleLetter) *Corpus {
	out := make([]domain.SampleLetter, len(samples))
	copy(out, samples)
	return &Corpus{samples: out}
}

// LoadCorpus reads a YAML corpus from path, or the embedded corpus when path is empty.
func LoadCorpus(path string) (*Corpus, error) {
	data := defaultCorpus
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read sample corpus: %w", err)
		}
		data = b
	}
	return ParseCorpus(data)
}

func ParseCorpus(data []byte) (*Corpus, error) {
	var file corpusFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse sample corpus: %w", err)
	}
	seen := make(map[string]struct{}, len(file.Samples))
	for i, s := range file.Samples {
		if strings.TrimSpace(s.ID) == "" || strings.TrimSpace(s.VisaType) == "" {
			return nil, fmt.Errorf("parse sample corpus: entry %d needs id and visa_type", i)
		}
		if strings.TrimSpace(s.Body) == "" {
			return nil, fmt.Errorf("parse sample corpus: sample %q has empty body", s.ID)
		}
		if _, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("parse sample corpus: duplicate sample id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return NewCorpus(file.Samples), nil
}

func (c *Corpus) Len() int {
	return len(c.samples)
}

// Samples returns a copy of the corpus in order.
func (c *Corpus) Samples() []domain.SampleLetter {
	return NewCorpus(c.samples).samples
}
