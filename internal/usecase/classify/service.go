// Package classify assigns a content category to normalized text via
// weighted marker signals.
package classify

import (
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

// Default scoring constants.
const (
	// DefaultMinScore is the aggregate below which classification falls
	// back to General.
	DefaultMinScore = 2.0
	// scoreSaturation is the aggregate treated as full confidence.
	scoreSaturation = 6.0
)

// Service classifies normalized text. Classification is pure, total, and
// deterministic: every input resolves to exactly one category with a
// confidence in [0,1], and identical inputs yield identical outputs.
type Service struct {
	minScore float64
}

// New creates a classifier.
func New() *Service {
	return &Service{minScore: DefaultMinScore}
}

// WithMinScore overrides the General fallback threshold.
func (s *Service) WithMinScore(minScore float64) *Service {
	if minScore > 0 {
		s.minScore = minScore
	}
	return s
}

// Classify scores every category's markers against the text and returns
// the winner. Ties break in fixed priority order (Code > ResearchPaper >
// BusinessDocument > General); aggregates below the threshold resolve to
// General. Empty input is valid and resolves to General.
func (s *Service) Classify(n *text.Normalized, raw string) (category.Category, float64) {
	if n.IsEmpty() {
		return category.General, 1.0
	}

	v := newDocView(n, raw)

	best := category.General
	bestScore := 0.0
	for _, cat := range category.All() {
		signals, ok := signalTable[cat]
		if !ok {
			continue
		}
		var score float64
		for _, sig := range signals {
			if sig.match(v) {
				score += sig.weight
			}
		}
		// Strictly-greater keeps the earlier (higher priority) category on ties.
		if score > bestScore {
			best = cat
			bestScore = score
		}
	}

	if bestScore < s.minScore {
		// Competing near-threshold signals lower the fallback confidence.
		return category.General, clamp01(1.0 - bestScore/scoreSaturation)
	}
	return best, clamp01(bestScore / scoreSaturation)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
