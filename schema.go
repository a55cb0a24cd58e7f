package docsense

import "time"

// Document categories assigned by classification.
const (
	CategoryCode             = "code"
	CategoryResearchPaper    = "research_paper"
	CategoryBusinessDocument = "business_document"
	CategoryGeneral          = "general"
)

// Analysis modes accepted by Analyze and AnalyzeText.
const (
	ModeSummary       = "summary"
	ModeKeyPoints     = "key_points"
	ModeStatistics    = "statistics"
	ModeFormatClean   = "format_clean"
	ModeComprehensive = "comprehensive"
)

// Document is a stored session document.
type Document struct {
	ID         string
	Filename   string
	Category   string
	Confidence float64
	UploadedAt time.Time
	Content    string
}

// Stats holds the numeric statistics of an analyzed text.
type Stats struct {
	Words          int
	Chars          int
	Sentences      int
	Paragraphs     int
	ReadingMinutes int
}

// Analysis is the outcome of one analysis run. Artifacts are keyed by
// kind: summary, key_points, statistics, structure, word_frequency, cleaned.
type Analysis struct {
	DocumentID  string
	Mode        string
	Artifacts   map[string]string
	Stats       Stats
	Category    string
	Confidence  float64
	GeneratedAt time.Time
}

// Hit is a single search match with rune offsets into the document.
type Hit struct {
	Start   int
	End     int
	Context string
	Score   float64
}

// SearchParams tunes a Search call. Zero values take the client defaults.
type SearchParams struct {
	Query         string
	CaseSensitive bool
	ContextChars  int
	MaxHits       int
}

// FallbackResult is the always-usable answer produced by HandleFallback.
// Either Analysis is populated (Analyzed true) or Guidance explains what
// the caller should send instead.
type FallbackResult struct {
	Kind     string
	Analyzed bool
	Analysis Analysis
	Guidance string
}
