package analyze

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

const articleSample = `The migration project is the most important effort this quarter.
It moves the billing system to the new platform. The old platform has
reached end of life. Costs have doubled in two years.

The key result is a significant reduction in operating costs. Engineering
estimates six weeks of work. The main risk is data loss during cutover.
A full rehearsal is planned before the final switch.`

func analyzeSample(t *testing.T, raw string, mode analysis.Mode, opts Options) analysis.Result {
	t.Helper()
	n := text.Normalize(raw)
	res, err := New().Analyze("doc1", &n, category.General, 0.8, mode, opts)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return res
}

func TestAnalyzeSummary(t *testing.T) {
	res := analyzeSample(t, articleSample, analysis.Summary, Options{})

	summary, ok := res.Artifact(analysis.ArtifactSummary)
	if !ok || summary == "" {
		t.Fatal("summary artifact missing or empty")
	}
	sentences := strings.Count(summary, ".")
	if sentences > DefaultSummaryLength {
		t.Errorf("summary has %d sentences, want at most %d", sentences, DefaultSummaryLength)
	}
	// Position bias plus the "important" cue should keep the opening sentence.
	if !strings.Contains(summary, "migration project") {
		t.Errorf("summary dropped the highest signal sentence: %q", summary)
	}
	if _, ok := res.Artifact(analysis.ArtifactKeyPoints); ok {
		t.Error("summary mode must not emit key points")
	}
}

func TestAnalyzeKeyPoints(t *testing.T) {
	res := analyzeSample(t, articleSample, analysis.KeyPoints, Options{})

	points, ok := res.Artifact(analysis.ArtifactKeyPoints)
	if !ok || points == "" {
		t.Fatal("key points artifact missing or empty")
	}
	lines := strings.Split(points, "\n")
	if len(lines) > 5 {
		t.Errorf("key points has %d entries, want at most 5", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "- ") {
			t.Errorf("key point %q not bullet formatted", l)
		}
		if len(strings.Fields(l)) > maxPhraseWords+1 {
			t.Errorf("key point %q too long", l)
		}
	}
}

func TestAnalyzeStatistics(t *testing.T) {
	res := analyzeSample(t, "One two three four five. Six seven.", analysis.Statistics, Options{})

	st := res.Stats()
	if st.Words != 7 {
		t.Errorf("Words = %d, want 7", st.Words)
	}
	if st.Sentences != 2 {
		t.Errorf("Sentences = %d, want 2", st.Sentences)
	}
	if st.Paragraphs != 1 {
		t.Errorf("Paragraphs = %d, want 1", st.Paragraphs)
	}
	if st.ReadingMinutes != 1 {
		t.Errorf("ReadingMinutes = %d, want 1 (rounded up)", st.ReadingMinutes)
	}
	if _, ok := res.Artifact(analysis.ArtifactStatistics); !ok {
		t.Error("statistics artifact missing")
	}
}

func TestReadingTimeRoundsUp(t *testing.T) {
	raw := strings.Repeat("word ", 201)
	res := analyzeSample(t, raw, analysis.Statistics, Options{WordsPerMinute: 200})
	if got := res.Stats().ReadingMinutes; got != 2 {
		t.Errorf("ReadingMinutes = %d, want 2", got)
	}
}

func TestAnalyzeComprehensive(t *testing.T) {
	res := analyzeSample(t, articleSample, analysis.Comprehensive, Options{})

	for _, kind := range []analysis.Artifact{
		analysis.ArtifactSummary,
		analysis.ArtifactKeyPoints,
		analysis.ArtifactStatistics,
		analysis.ArtifactStructure,
		analysis.ArtifactWordFrequency,
	} {
		if _, ok := res.Artifact(kind); !ok {
			t.Errorf("comprehensive result missing %q artifact", kind)
		}
	}
	if res.Category() != category.General || res.Confidence() != 0.8 {
		t.Errorf("result carries (%q, %v), want (general, 0.8)", res.Category(), res.Confidence())
	}
}

// The artifact shape must be identical across categories so callers never
// branch on category.
func TestUniformArtifactShape(t *testing.T) {
	n := text.Normalize(articleSample)
	svc := New()

	var shapes [][]analysis.Artifact
	for _, cat := range category.All() {
		res, err := svc.Analyze("", &n, cat, 0.5, analysis.Comprehensive, Options{})
		if err != nil {
			t.Fatalf("Analyze(%q) error = %v", cat, err)
		}
		kinds := make([]analysis.Artifact, 0, len(res.Artifacts()))
		for k := range res.Artifacts() {
			kinds = append(kinds, k)
		}
		shapes = append(shapes, kinds)
	}
	for i := 1; i < len(shapes); i++ {
		if len(shapes[i]) != len(shapes[0]) {
			t.Errorf("artifact count differs across categories: %d vs %d", len(shapes[i]), len(shapes[0]))
		}
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	n := text.Normalize("")
	res, err := New().Analyze("", &n, category.General, 1.0, analysis.Comprehensive, Options{})
	if err != nil {
		t.Fatalf("Analyze(\"\") error = %v, want nil", err)
	}
	if !res.Empty() {
		t.Error("Empty() = false for empty input")
	}
	if res.Stats() != (analysis.Stats{}) {
		t.Errorf("Stats() = %+v, want zeroed", res.Stats())
	}
	if summary, _ := res.Artifact(analysis.ArtifactSummary); summary != "" {
		t.Errorf("summary = %q, want empty", summary)
	}
	if points, _ := res.Artifact(analysis.ArtifactKeyPoints); points != "" {
		t.Errorf("key points = %q, want empty", points)
	}
}

func TestAnalyzeInvalidMode(t *testing.T) {
	n := text.Normalize("some text")
	_, err := New().Analyze("", &n, category.General, 1.0, "outline", Options{})
	if !errors.Is(err, domain.ErrInvalidMode) {
		t.Errorf("error = %v, want ErrInvalidMode", err)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	n := text.Normalize(articleSample)
	svc := New()

	a, err := svc.Analyze("doc1", &n, category.BusinessDocument, 0.7, analysis.Comprehensive, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	b, err := svc.Analyze("doc1", &n, category.BusinessDocument, 0.7, analysis.Comprehensive, Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !reflect.DeepEqual(a.Artifacts(), b.Artifacts()) {
		t.Error("artifacts differ across identical calls")
	}
	if a.Stats() != b.Stats() {
		t.Error("statistics differ across identical calls")
	}
}

func TestSummaryLengthOption(t *testing.T) {
	res := analyzeSample(t, articleSample, analysis.Summary, Options{SummaryLength: 3})
	summary, _ := res.Artifact(analysis.ArtifactSummary)
	if got := strings.Count(summary, "."); got > 3 {
		t.Errorf("summary has %d sentences, want at most 3", got)
	}
}

func TestAnalyzeFormatClean(t *testing.T) {
	raw := "  first line  \n\n\n\tsecond line\t\n"
	res := analyzeSample(t, raw, analysis.FormatClean, Options{})

	cleaned, ok := res.Artifact(analysis.ArtifactCleaned)
	if !ok {
		t.Fatal("cleaned artifact missing")
	}
	want := "5 lines cleaned to 2\n\nfirst line\nsecond line"
	if cleaned != want {
		t.Errorf("cleaned = %q, want %q", cleaned, want)
	}
}
