// Package session manages per-user document sessions keyed by normalized
// phone numbers.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/document"
	"github.com/kailas-cloud/docsense/internal/domain/phone"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

// idAttempts bounds retries when a generated document id collides.
const idAttempts = 5

// Service handles uploads and session lookups. Classification happens
// once at upload; the stored category only changes on explicit Reprocess.
type Service struct {
	repo       Repository
	classifier Classifier
	now        func() time.Time
	newID      func() string
}

// New creates a session service.
func New(repo Repository, classifier Classifier) *Service {
	return &Service{
		repo:       repo,
		classifier: classifier,
		now:        time.Now,
		newID:      shortID,
	}
}

// WithClock overrides the timestamp source (tests).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator overrides document id generation (tests).
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// Upload normalizes the user id, classifies the content, and stores a new
// document. The returned document carries its fresh session-unique id.
func (s *Service) Upload(ctx context.Context, rawUserID, filename, content string) (document.Document, error) {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return document.Document{}, err
	}

	n := text.Normalize(content)
	cat, confidence := s.classifier.Classify(&n, content)

	for attempt := 0; attempt < idAttempts; attempt++ {
		doc, err := document.New(s.newID(), userID, filename, content, cat, confidence, s.now())
		if err != nil {
			return document.Document{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err)
		}
		err = s.repo.Put(ctx, doc)
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		if err != nil {
			return document.Document{}, fmt.Errorf("store document: %w", err)
		}
		return doc, nil
	}
	return document.Document{}, fmt.Errorf("store document: exhausted %d id attempts: %w", idAttempts, domain.ErrAlreadyExists)
}

// Get returns one of the user's documents.
func (s *Service) Get(ctx context.Context, rawUserID, docID string) (document.Document, error) {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return document.Document{}, err
	}
	doc, err := s.repo.Get(ctx, userID, docID)
	if err != nil {
		return document.Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Latest returns the user's most recently uploaded document.
func (s *Service) Latest(ctx context.Context, rawUserID string) (document.Document, error) {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return document.Document{}, err
	}
	docs, err := s.repo.List(ctx, userID)
	if err != nil {
		return document.Document{}, fmt.Errorf("list documents: %w", err)
	}
	if len(docs) == 0 {
		return document.Document{}, fmt.Errorf("session %s: %w", userID, domain.ErrSessionNotFound)
	}
	return docs[len(docs)-1], nil
}

// List returns the user's documents, oldest first.
func (s *Service) List(ctx context.Context, rawUserID string) ([]document.Document, error) {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Clear drops the user's session and every document in it.
func (s *Service) Clear(ctx context.Context, rawUserID string) error {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return err
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Reprocess re-runs classification on a stored document's unchanged raw
// text and stores the fresh category.
func (s *Service) Reprocess(ctx context.Context, rawUserID, docID string) (document.Document, error) {
	userID, err := phone.Normalize(rawUserID)
	if err != nil {
		return document.Document{}, err
	}
	doc, err := s.repo.Get(ctx, userID, docID)
	if err != nil {
		return document.Document{}, fmt.Errorf("get document: %w", err)
	}

	n := text.Normalize(doc.RawText())
	cat, confidence := s.classifier.Classify(&n, doc.RawText())
	updated := doc.WithClassification(cat, confidence)

	if err := s.repo.Replace(ctx, updated); err != nil {
		return document.Document{}, fmt.Errorf("replace document: %w", err)
	}
	return updated, nil
}

// shortID returns an 8-char document id.
func shortID() string {
	return uuid.NewString()[:8]
}
