package search

// Hit is a single ranked match of a query within a document.
type Hit struct {
	documentID string
	start      int
	end        int
	context    string
	score      float64
}

// NewHit creates a search hit. Start and end are rune offsets into the
// document text; context is the surrounding window clipped at document
// boundaries.
func NewHit(documentID string, start, end int, context string, score float64) Hit {
	return Hit{documentID: documentID, start: start, end: end, context: context, score: score}
}

// DocumentID returns the matched document id ("" for direct text search).
func (h *Hit) DocumentID() string { return h.documentID }

// Start returns the match start offset.
func (h *Hit) Start() int { return h.start }

// End returns the match end offset (exclusive).
func (h *Hit) End() int { return h.end }

// Context returns the text surrounding the match.
func (h *Hit) Context() string { return h.context }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }
