// Package session implements the in-memory session store: one partition
// per normalized user id, holding that user's documents.
package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/document"
)

// Policy decides which document to drop when a session is at its limit.
type Policy interface {
	// Victim returns the id of the document to evict, or "" to reject
	// the incoming document instead. docs are sorted oldest first.
	Victim(docs []document.Document) string
}

// EvictOldest drops the least recently uploaded document.
type EvictOldest struct{}

// Victim returns the oldest document id.
func (EvictOldest) Victim(docs []document.Document) string {
	if len(docs) == 0 {
		return ""
	}
	return docs[0].ID()
}

// RejectNew refuses uploads into a full session.
type RejectNew struct{}

// Victim always rejects.
func (RejectNew) Victim([]document.Document) string { return "" }

// partition is one user's session state. Its lock serializes that user's
// mutations while leaving other users fully parallel. cleared marks a
// partition retired by Clear: writers that resolved it before the clear
// must re-resolve instead of mutating the orphan.
type partition struct {
	mu           sync.RWMutex
	docs         map[string]document.Document
	lastActivity time.Time
	cleared      bool
}

// Store is the in-memory session store. The store-level lock guards only
// partition lookup and creation; document operations run under the
// per-user partition lock.
type Store struct {
	mu         sync.RWMutex
	partitions map[string]*partition
	maxDocs    int
	policy     Policy
}

// New creates an unbounded session store.
func New() *Store {
	return &Store{partitions: make(map[string]*partition)}
}

// WithLimit bounds documents per user. Policy defaults to EvictOldest.
func (s *Store) WithLimit(maxDocs int, policy Policy) *Store {
	s.maxDocs = maxDocs
	if policy == nil {
		policy = EvictOldest{}
	}
	s.policy = policy
	return s
}

// Put stores a document in its owner's partition, creating the partition
// lazily. A full partition either evicts per policy or rejects with
// ErrSessionFull. Duplicate ids fail with ErrAlreadyExists.
func (s *Store) Put(_ context.Context, doc document.Document) error {
	p := s.lockPartition(doc.Owner())
	defer p.mu.Unlock()

	if _, ok := p.docs[doc.ID()]; ok {
		return fmt.Errorf("document %s: %w", doc.ID(), domain.ErrAlreadyExists)
	}
	if s.maxDocs > 0 && len(p.docs) >= s.maxDocs {
		victim := s.policy.Victim(sortedDocs(p.docs))
		if victim == "" {
			return fmt.Errorf("session %s: %w", doc.Owner(), domain.ErrSessionFull)
		}
		delete(p.docs, victim)
	}

	p.docs[doc.ID()] = doc
	p.lastActivity = time.Now()
	return nil
}

// Get returns one document. Unknown user or id fails with NotFound kinds.
func (s *Store) Get(_ context.Context, userID, docID string) (document.Document, error) {
	p := s.partition(userID, false)
	if p == nil {
		return document.Document{}, fmt.Errorf("session %s: %w", userID, domain.ErrSessionNotFound)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	doc, ok := p.docs[docID]
	if !ok {
		return document.Document{}, fmt.Errorf("document %s: %w", docID, domain.ErrDocumentNotFound)
	}
	return doc, nil
}

// List returns the user's documents, oldest first. An unknown user yields
// an empty list, not an error.
func (s *Store) List(_ context.Context, userID string) ([]document.Document, error) {
	p := s.partition(userID, false)
	if p == nil {
		return nil, nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return sortedDocs(p.docs), nil
}

// Replace swaps a stored document for a reprocessed copy.
func (s *Store) Replace(_ context.Context, doc document.Document) error {
	p := s.partition(doc.Owner(), false)
	if p == nil {
		return fmt.Errorf("session %s: %w", doc.Owner(), domain.ErrSessionNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cleared {
		return fmt.Errorf("session %s: %w", doc.Owner(), domain.ErrSessionNotFound)
	}
	if _, ok := p.docs[doc.ID()]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID(), domain.ErrDocumentNotFound)
	}
	p.docs[doc.ID()] = doc
	p.lastActivity = time.Now()
	return nil
}

// Clear drops the user's partition. Clearing an absent session is a no-op.
// It does not return until in-flight writes to the partition have drained,
// so an upload that completed before the clear is always wiped and one that
// started after lands in a fresh partition.
func (s *Store) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	p := s.partitions[userID]
	delete(s.partitions, userID)
	s.mu.Unlock()

	if p == nil {
		return nil
	}
	p.mu.Lock()
	p.cleared = true
	p.mu.Unlock()
	return nil
}

// Ping reports store liveness (health checks).
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.partitions == nil {
		return fmt.Errorf("session store not initialized")
	}
	return nil
}

// LastActivity returns the partition's last mutation time (zero when the
// session does not exist).
func (s *Store) LastActivity(userID string) time.Time {
	p := s.partition(userID, false)
	if p == nil {
		return time.Time{}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastActivity
}

// lockPartition returns the user's partition with its write lock held,
// re-resolving when a concurrent Clear retired the partition between
// lookup and lock.
func (s *Store) lockPartition(userID string) *partition {
	for {
		p := s.partition(userID, true)
		p.mu.Lock()
		if !p.cleared {
			return p
		}
		p.mu.Unlock()
	}
}

// partition returns the user's partition, creating it when create is set.
func (s *Store) partition(userID string, create bool) *partition {
	s.mu.RLock()
	p := s.partitions[userID]
	s.mu.RUnlock()
	if p != nil || !create {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p = s.partitions[userID]; p == nil {
		p = &partition{docs: make(map[string]document.Document)}
		s.partitions[userID] = p
	}
	return p
}

// sortedDocs orders by upload time, id as the tiebreak, so listings are
// stable.
func sortedDocs(m map[string]document.Document) []document.Document {
	docs := make([]document.Document, 0, len(m))
	for _, d := range m {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt().Equal(docs[j].UploadedAt()) {
			return docs[i].UploadedAt().Before(docs[j].UploadedAt())
		}
		return docs[i].ID() < docs[j].ID()
	})
	return docs
}
