// Package analyze produces analysis artifacts from normalized text,
// parameterized by category and mode.
package analyze

import (
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

// Default analysis constants.
const (
	// DefaultSummaryLength is the number of sentences in an extractive summary.
	DefaultSummaryLength = 4
	MinSummaryLength     = 3
	MaxSummaryLength     = 5
	// DefaultWordsPerMinute is the reading speed used for reading time.
	DefaultWordsPerMinute = 200
	// maxKeyPoints caps the key point list.
	maxKeyPoints = 5
	// topWordCount caps the word frequency artifact.
	topWordCount = 10
)

// Options are the per-call knobs recognized by the analyzer. Zero values
// take the service defaults.
type Options struct {
	SummaryLength  int
	WordsPerMinute int
}

// Service produces analysis results. All computation is pure and bounded
// by input size; identical inputs always yield identical artifacts.
type Service struct {
	summaryLength  int
	wordsPerMinute int
	now            func() time.Time
}

// New creates an analyzer with default settings.
func New() *Service {
	return &Service{
		summaryLength:  DefaultSummaryLength,
		wordsPerMinute: DefaultWordsPerMinute,
		now:            time.Now,
	}
}

// WithDefaults overrides the service-level defaults.
func (s *Service) WithDefaults(summaryLength, wordsPerMinute int) *Service {
	if summaryLength > 0 {
		s.summaryLength = clampSummary(summaryLength)
	}
	if wordsPerMinute > 0 {
		s.wordsPerMinute = wordsPerMinute
	}
	return s
}

// WithClock overrides the timestamp source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Analyze produces the artifacts for one mode. Empty input is valid and
// yields an explicit empty result with zeroed statistics, never an error.
func (s *Service) Analyze(
	docID string, n *text.Normalized,
	cat category.Category, confidence float64,
	mode analysis.Mode, opts Options,
) (analysis.Result, error) {
	if !mode.IsValid() {
		return analysis.Result{}, fmt.Errorf("%w: %q (valid: summary, key_points, statistics, format_clean, comprehensive)",
			domain.ErrInvalidMode, mode)
	}
	if opts.WordsPerMinute < 0 || opts.SummaryLength < 0 {
		return analysis.Result{}, fmt.Errorf("%w: analysis options must be non-negative", domain.ErrInvalidInput)
	}

	summaryLen := s.summaryLength
	if opts.SummaryLength > 0 {
		summaryLen = clampSummary(opts.SummaryLength)
	}
	wpm := s.wordsPerMinute
	if opts.WordsPerMinute > 0 {
		wpm = opts.WordsPerMinute
	}

	if n.IsEmpty() {
		return s.emptyResult(docID, mode, cat, confidence), nil
	}

	st := strategyFor(cat)
	freq, maxFreq := wordFrequency(n.Tokens())
	scored := scoreSentences(n.Sentences(), freq, maxFreq, st)
	stats := s.stats(n, wpm)

	artifacts := map[analysis.Artifact]string{}
	switch mode {
	case analysis.Summary:
		artifacts[analysis.ArtifactSummary] = summarize(scored, summaryLen)
	case analysis.KeyPoints:
		artifacts[analysis.ArtifactKeyPoints] = keyPoints(scored)
	case analysis.Statistics:
		artifacts[analysis.ArtifactStatistics] = renderStats(stats)
		artifacts[analysis.ArtifactStructure] = renderStructure(n)
	case analysis.FormatClean:
		artifacts[analysis.ArtifactCleaned] = renderCleaned(n.Raw())
	case analysis.Comprehensive:
		artifacts[analysis.ArtifactSummary] = summarize(scored, summaryLen)
		artifacts[analysis.ArtifactKeyPoints] = keyPoints(scored)
		artifacts[analysis.ArtifactStatistics] = renderStats(stats)
		artifacts[analysis.ArtifactStructure] = renderStructure(n)
		artifacts[analysis.ArtifactWordFrequency] = renderWordFrequency(freq)
	}

	// Typed stats ride along for every mode; only the artifact surface
	// varies by mode.
	return analysis.NewResult(docID, mode, artifacts, stats, cat, confidence, s.now()), nil
}

// emptyResult is the explicit outcome for empty documents: zeroed
// statistics, empty summary and key points.
func (s *Service) emptyResult(
	docID string, mode analysis.Mode, cat category.Category, confidence float64,
) analysis.Result {
	artifacts := map[analysis.Artifact]string{}
	switch mode {
	case analysis.Summary:
		artifacts[analysis.ArtifactSummary] = ""
	case analysis.KeyPoints:
		artifacts[analysis.ArtifactKeyPoints] = ""
	case analysis.Statistics:
		artifacts[analysis.ArtifactStatistics] = renderStats(analysis.Stats{})
		artifacts[analysis.ArtifactStructure] = ""
	case analysis.FormatClean:
		artifacts[analysis.ArtifactCleaned] = ""
	case analysis.Comprehensive:
		artifacts[analysis.ArtifactSummary] = ""
		artifacts[analysis.ArtifactKeyPoints] = ""
		artifacts[analysis.ArtifactStatistics] = renderStats(analysis.Stats{})
		artifacts[analysis.ArtifactStructure] = ""
		artifacts[analysis.ArtifactWordFrequency] = ""
	}
	return analysis.NewResult(docID, mode, artifacts, analysis.Stats{}, cat, confidence, s.now())
}

func (s *Service) stats(n *text.Normalized, wpm int) analysis.Stats {
	words := n.WordCount()
	minutes := 0
	if words > 0 {
		minutes = (words + wpm - 1) / wpm // round up
	}
	return analysis.Stats{
		Words:          words,
		Chars:          n.CharCount(),
		Sentences:      len(n.Sentences()),
		Paragraphs:     len(n.Paragraphs()),
		ReadingMinutes: minutes,
	}
}

func summarize(scored []scoredSentence, n int) string {
	return strings.Join(topSentences(scored, n), " ")
}

// keyPoints reduces the highest signal sentences to short bullet phrases.
func keyPoints(scored []scoredSentence) string {
	sentences := topSentences(scored, maxKeyPoints)
	points := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if p := reduceToPhrase(s); p != "" {
			points = append(points, "- "+p)
		}
	}
	return strings.Join(points, "\n")
}

func renderStats(st analysis.Stats) string {
	return fmt.Sprintf(
		"%d words, %d characters, %d sentences, %d paragraphs, ~%d min read",
		st.Words, st.Chars, st.Sentences, st.Paragraphs, st.ReadingMinutes,
	)
}

// renderStructure describes paragraph shape and density.
func renderStructure(n *text.Normalized) string {
	paragraphs := len(n.Paragraphs())
	if paragraphs == 0 {
		return ""
	}
	avg := float64(n.WordCount()) / float64(paragraphs)
	density := "low"
	switch {
	case avg > 50:
		density = "high"
	case avg > 20:
		density = "medium"
	}
	return fmt.Sprintf("%d paragraphs, %.1f words per paragraph on average, %s density", paragraphs, avg, density)
}

// renderCleaned strips blank lines and leading/trailing whitespace from
// every line, reporting the original and cleaned line counts.
func renderCleaned(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	header := fmt.Sprintf("%d lines cleaned to %d", len(lines), len(cleaned))
	if len(cleaned) == 0 {
		return header
	}
	return header + "\n\n" + strings.Join(cleaned, "\n")
}

func renderWordFrequency(freq map[string]int) string {
	words := topWords(freq, topWordCount)
	lines := make([]string, 0, len(words))
	for _, w := range words {
		lines = append(lines, fmt.Sprintf("%s: %d", w, freq[w]))
	}
	return strings.Join(lines, "\n")
}

func clampSummary(n int) int {
	if n < MinSummaryLength {
		return MinSummaryLength
	}
	if n > MaxSummaryLength {
		return MaxSummaryLength
	}
	return n
}
