package docsense

import "go.uber.org/zap"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	summaryLength    int
	wordsPerMinute   int
	contextChars     int
	maxHits          int
	classifyMinScore float64
	maxDocsPerUser   int
	rejectWhenFull   bool
	ownerNumber      string
	logger           *zap.Logger
}

// WithSummaryLength sets the default number of sentences per summary
// (clamped to 3..5).
func WithSummaryLength(n int) Option {
	return func(c *clientConfig) { c.summaryLength = n }
}

// WithWordsPerMinute sets the reading speed used for reading time estimates.
func WithWordsPerMinute(wpm int) Option {
	return func(c *clientConfig) { c.wordsPerMinute = wpm }
}

// WithContextChars sets the default context window around search matches.
func WithContextChars(n int) Option {
	return func(c *clientConfig) { c.contextChars = n }
}

// WithMaxHits sets the default cap on returned search matches.
func WithMaxHits(n int) Option {
	return func(c *clientConfig) { c.maxHits = n }
}

// WithClassifyMinScore sets the score below which classification falls
// back to the general category.
func WithClassifyMinScore(score float64) Option {
	return func(c *clientConfig) { c.classifyMinScore = score }
}

// WithMaxDocumentsPerUser bounds each session. When the bound is reached
// the oldest document is evicted unless WithRejectWhenFull is also set.
func WithMaxDocumentsPerUser(n int) Option {
	return func(c *clientConfig) { c.maxDocsPerUser = n }
}

// WithRejectWhenFull makes a full session reject new uploads instead of
// evicting the oldest document.
func WithRejectWhenFull() Option {
	return func(c *clientConfig) { c.rejectWhenFull = true }
}

// WithOwnerNumber sets the owner phone number reported by OwnerNumber.
func WithOwnerNumber(number string) Option {
	return func(c *clientConfig) { c.ownerNumber = number }
}

// WithLogger enables structured logging for client operations.
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}
