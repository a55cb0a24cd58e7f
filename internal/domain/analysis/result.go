package analysis

import (
	"time"

	"github.com/kailas-cloud/docsense/internal/domain/category"
)

// Artifact identifies one kind of generated analysis output.
type Artifact string

// Artifact kind constants.
const (
	ArtifactSummary       Artifact = "summary"
	ArtifactKeyPoints     Artifact = "key_points"
	ArtifactStatistics    Artifact = "statistics"
	ArtifactStructure     Artifact = "structure"
	ArtifactWordFrequency Artifact = "word_frequency"
	ArtifactCleaned       Artifact = "cleaned"
)

// Stats holds the numeric document statistics. Recomputing on the same
// text always yields identical values.
type Stats struct {
	Words          int
	Chars          int
	Sentences      int
	Paragraphs     int
	ReadingMinutes int
}

// Result is one analysis outcome. The artifact shape is uniform across
// categories so callers never branch on category.
type Result struct {
	documentID  string
	mode        Mode
	artifacts   map[Artifact]string
	stats       Stats
	category    category.Category
	confidence  float64
	generatedAt time.Time
}

// NewResult creates an analysis result.
func NewResult(
	documentID string, mode Mode, artifacts map[Artifact]string,
	stats Stats, cat category.Category, confidence float64,
	generatedAt time.Time,
) Result {
	if artifacts == nil {
		artifacts = map[Artifact]string{}
	}
	return Result{
		documentID:  documentID,
		mode:        mode,
		artifacts:   artifacts,
		stats:       stats,
		category:    cat,
		confidence:  confidence,
		generatedAt: generatedAt,
	}
}

// DocumentID returns the analyzed document id ("" for direct text analysis).
func (r *Result) DocumentID() string { return r.documentID }

// Mode returns the requested analysis mode.
func (r *Result) Mode() Mode { return r.mode }

// Artifacts returns the generated artifacts by kind.
func (r *Result) Artifacts() map[Artifact]string { return r.artifacts }

// Artifact returns one artifact by kind.
func (r *Result) Artifact(kind Artifact) (string, bool) {
	v, ok := r.artifacts[kind]
	return v, ok
}

// Stats returns the numeric statistics (zero value for modes without them).
func (r *Result) Stats() Stats { return r.stats }

// Category returns the document category the analysis was run under.
func (r *Result) Category() category.Category { return r.category }

// Confidence returns the classification confidence in [0,1].
func (r *Result) Confidence() float64 { return r.confidence }

// GeneratedAt returns the generation timestamp.
func (r *Result) GeneratedAt() time.Time { return r.generatedAt }

// Empty reports whether the result came from an empty document.
func (r *Result) Empty() bool { return r.stats.Words == 0 }
