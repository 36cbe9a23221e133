package letters

import (
	"sort"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type Selector struct {
	corpus *Corpus
}

func NewSelector(corpus *Corpus) *Selector {
	if corpus == nil {
		corpus = NewCorpus(nil)
	}
	return &Selector{corpus: corpus}
}

// SelectSample returns the best sample for the visa type, or nil when none
// exists. Without tags the first sample in corpus order wins; with tags the
// sample sharing the most distinct tags wins, ties resolved by corpus order.
func (s *Selector) SelectSample(visaType string, tags []string) *domain.SampleLetter {
	ranked := s.Rank(visaType, tags)
	if len(ranked) == 0 {
		return nil
	}
	best := ranked[0]
	return &best
}

// Rank lists the samples of a visa type ordered by tag overlap.
func (s *Selector) Rank(visaType string, tags []string) []domain.SampleLetter {
	want := NormalizeVisaType(visaType)
	wanted := tagSet(tags)

	type scored struct {
		sample domain.SampleLetter
		score  int
	}
	var candidates []scored
	for _, sample := range s.corpus.samples {
		if NormalizeVisaType(sample.VisaType) != want {
			continue
		}
		candidates = append(candidates, scored{sample: sample, score: overlap(wanted, sample.Tags)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]domain.SampleLetter, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.sample)
	}
	return out
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func overlap(wanted map[string]struct{}, tags []string) int {
	if len(wanted) == 0 {
		return 0
	}
	score := 0
	for t := range tagSet(tags) {
		if _, ok := wanted[t]; ok {
			score++
		}
	}
	return score
}
