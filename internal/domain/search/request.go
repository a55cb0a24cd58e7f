// Package search defines the search request and hit value objects.
package search

import (
	"fmt"

	"github.com/kailas-cloud/docsense/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length.
	MaxQueryLength = 1024
	// DefaultContextChars is the context window on each side of a match.
	DefaultContextChars = 50
	MaxContextChars     = 500
	// DefaultMaxHits caps the returned hits.
	DefaultMaxHits = 10
	MaxHits        = 100
)

// Request is a validated search query.
type Request struct {
	query         string
	caseSensitive bool
	contextChars  int
	maxHits       int
}

// NewRequest validates and normalizes search parameters.
// Defaults: case-insensitive, 50 context chars, 10 hits.
func NewRequest(query string, caseSensitive bool, contextChars, maxHits int) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidInput, MaxQueryLength)
	}
	if contextChars <= 0 {
		contextChars = DefaultContextChars
	}
	if contextChars > MaxContextChars {
		contextChars = MaxContextChars
	}
	if maxHits <= 0 {
		maxHits = DefaultMaxHits
	}
	if maxHits > MaxHits {
		maxHits = MaxHits
	}
	return Request{
		query:         query,
		caseSensitive: caseSensitive,
		contextChars:  contextChars,
		maxHits:       maxHits,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// CaseSensitive reports whether matching is case sensitive.
func (r *Request) CaseSensitive() bool { return r.caseSensitive }

// ContextChars returns the context window size per side.
func (r *Request) ContextChars() int { return r.contextChars }

// MaxHits returns the hit cap.
func (r *Request) MaxHits() int { return r.maxHits }
