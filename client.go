// Package docsense is an in-process document analysis engine: it
// classifies, summarizes and searches plain-text documents stored in
// per-user sessions keyed by phone number.
package docsense

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/document"
	"github.com/kailas-cloud/docsense/internal/domain/phone"
	domsearch "github.com/kailas-cloud/docsense/internal/domain/search"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	sessionrepo "github.com/kailas-cloud/docsense/internal/repository/session"
	analyzeuc "github.com/kailas-cloud/docsense/internal/usecase/analyze"
	classifyuc "github.com/kailas-cloud/docsense/internal/usecase/classify"
	fallbackuc "github.com/kailas-cloud/docsense/internal/usecase/fallback"
	searchuc "github.com/kailas-cloud/docsense/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/docsense/internal/usecase/session"
)

// Client is the docsense SDK entry point. It is safe for concurrent use.
type Client struct {
	store        *sessionrepo.Store
	sessions     *sessionuc.Service
	analyzer     *analyzeuc.Service
	classifier   *classifyuc.Service
	searcher     *searchuc.Service
	fallback     *fallbackuc.Service
	contextChars int
	maxHits      int
	ownerNumber  string
}

// New creates a docsense Client with an in-memory session store.
func New(opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	classifier := classifyuc.New()
	if cfg.classifyMinScore > 0 {
		classifier = classifier.WithMinScore(cfg.classifyMinScore)
	}

	analyzer := analyzeuc.New()
	if cfg.summaryLength > 0 || cfg.wordsPerMinute > 0 {
		analyzer = analyzer.WithDefaults(cfg.summaryLength, cfg.wordsPerMinute)
	}

	store := sessionrepo.New()
	if cfg.maxDocsPerUser > 0 {
		var policy sessionrepo.Policy = sessionrepo.EvictOldest{}
		if cfg.rejectWhenFull {
			policy = sessionrepo.RejectNew{}
		}
		store = store.WithLimit(cfg.maxDocsPerUser, policy)
	}

	sessions := sessionuc.New(store, classifier)
	fallback := fallbackuc.New(classifier, analyzer, cfg.logger)

	return &Client{
		store:        store,
		sessions:     sessions,
		analyzer:     analyzer,
		classifier:   classifier,
		searcher:     searchuc.New(),
		fallback:     fallback,
		contextChars: cfg.contextChars,
		maxHits:      cfg.maxHits,
		ownerNumber:  cfg.ownerNumber,
	}
}

// Upload stores a new document in the caller's session and classifies it.
func (c *Client) Upload(ctx context.Context, phoneNumber, filename, content string) (Document, error) {
	doc, err := c.sessions.Upload(ctx, phoneNumber, filename, content)
	if err != nil {
		return Document{}, err
	}
	return documentFromDomain(&doc), nil
}

// Document retrieves one stored document by id.
func (c *Client) Document(ctx context.Context, phoneNumber, documentID string) (Document, error) {
	doc, err := c.sessions.Get(ctx, phoneNumber, documentID)
	if err != nil {
		return Document{}, err
	}
	return documentFromDomain(&doc), nil
}

// Documents lists the session's documents ordered by upload time.
func (c *Client) Documents(ctx context.Context, phoneNumber string) ([]Document, error) {
	docs, err := c.sessions.List(ctx, phoneNumber)
	if err != nil {
		return nil, err
	}
	out := make([]Document, len(docs))
	for i := range docs {
		out[i] = documentFromDomain(&docs[i])
	}
	return out, nil
}

// ClearSession removes every document in the session. Clearing an
// unknown session is not an error.
func (c *Client) ClearSession(ctx context.Context, phoneNumber string) error {
	return c.sessions.Clear(ctx, phoneNumber)
}

// Reprocess re-runs classification on a stored document and updates its
// category in place.
func (c *Client) Reprocess(ctx context.Context, phoneNumber, documentID string) (Document, error) {
	doc, err := c.sessions.Reprocess(ctx, phoneNumber, documentID)
	if err != nil {
		return Document{}, err
	}
	return documentFromDomain(&doc), nil
}

// Analyze runs one analysis mode over a stored document. An empty
// documentID selects the session's most recent upload; an empty mode
// means comprehensive.
func (c *Client) Analyze(ctx context.Context, phoneNumber, documentID, mode string) (Analysis, error) {
	var doc document.Document
	var err error
	if documentID == "" {
		doc, err = c.sessions.Latest(ctx, phoneNumber)
	} else {
		doc, err = c.sessions.Get(ctx, phoneNumber, documentID)
	}
	if err != nil {
		return Analysis{}, err
	}

	normalized := text.Normalize(doc.RawText())
	result, err := c.analyzer.Analyze(
		doc.ID(), &normalized, doc.Category(), doc.Confidence(),
		resolveMode(mode), analyzeuc.Options{},
	)
	if err != nil {
		return Analysis{}, err
	}
	return analysisFromDomain(&result), nil
}

// AnalyzeText classifies and analyzes inline text without touching any
// session.
func (c *Client) AnalyzeText(_ context.Context, content, mode string) (Analysis, error) {
	normalized := text.Normalize(content)
	cat, confidence := c.classifier.Classify(&normalized, content)

	result, err := c.analyzer.Analyze(
		"", &normalized, cat, confidence,
		resolveMode(mode), analyzeuc.Options{},
	)
	if err != nil {
		return Analysis{}, err
	}
	return analysisFromDomain(&result), nil
}

// Classify assigns a category and confidence to inline text.
func (c *Client) Classify(_ context.Context, content string) (string, float64) {
	normalized := text.Normalize(content)
	cat, confidence := c.classifier.Classify(&normalized, content)
	return string(cat), confidence
}

// Search finds matches of a query inside a stored document. An empty
// documentID selects the session's most recent upload.
func (c *Client) Search(ctx context.Context, phoneNumber, documentID string, params SearchParams) ([]Hit, error) {
	var doc document.Document
	var err error
	if documentID == "" {
		doc, err = c.sessions.Latest(ctx, phoneNumber)
	} else {
		doc, err = c.sessions.Get(ctx, phoneNumber, documentID)
	}
	if err != nil {
		return nil, err
	}

	contextChars := params.ContextChars
	if contextChars <= 0 {
		contextChars = c.contextChars
	}
	maxHits := params.MaxHits
	if maxHits <= 0 {
		maxHits = c.maxHits
	}

	query, err := domsearch.NewRequest(params.Query, params.CaseSensitive, contextChars, maxHits)
	if err != nil {
		return nil, err
	}

	hits := c.searcher.Search(doc.ID(), doc.RawText(), &query)
	out := make([]Hit, len(hits))
	for i := range hits {
		out[i] = Hit{
			Start:   hits[i].Start(),
			End:     hits[i].End(),
			Context: hits[i].Context(),
			Score:   hits[i].Score(),
		}
	}
	return out, nil
}

// HandleFallback resolves an arbitrary raw payload into a usable answer.
// It never fails: unrecoverable input produces guidance instead.
func (c *Client) HandleFallback(ctx context.Context, raw []byte) FallbackResult {
	outcome := c.fallback.Handle(ctx, raw)
	res := FallbackResult{
		Kind:     string(outcome.Kind),
		Analyzed: outcome.Analyzed,
		Guidance: outcome.Guidance,
	}
	if outcome.Analyzed {
		res.Analysis = analysisFromDomain(&outcome.Analysis)
	}
	return res
}

// OwnerNumber returns the configured owner phone number in normalized
// digit form.
func (c *Client) OwnerNumber() (string, error) {
	return phone.Normalize(c.ownerNumber)
}

// Ping checks the session store.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

func resolveMode(mode string) analysis.Mode {
	if mode == "" {
		return analysis.Comprehensive
	}
	return analysis.Mode(mode)
}

func documentFromDomain(doc *document.Document) Document {
	return Document{
		ID:         doc.ID(),
		Filename:   doc.Name(),
		Category:   string(doc.Category()),
		Confidence: doc.Confidence(),
		UploadedAt: doc.UploadedAt(),
		Content:    doc.RawText(),
	}
}

func analysisFromDomain(r *analysis.Result) Analysis {
	artifacts := make(map[string]string, len(r.Artifacts()))
	for k, v := range r.Artifacts() {
		artifacts[string(k)] = v
	}
	st := r.Stats()
	return Analysis{
		DocumentID: r.DocumentID(),
		Mode:       string(r.Mode()),
		Artifacts:  artifacts,
		Stats: Stats{
			Words:          st.Words,
			Chars:          st.Chars,
			Sentences:      st.Sentences,
			Paragraphs:     st.Paragraphs,
			ReadingMinutes: st.ReadingMinutes,
		},
		Category:    string(r.Category()),
		Confidence:  r.Confidence(),
		GeneratedAt: r.GeneratedAt(),
	}
}
