package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrSessionNotFound signals a user with no uploaded documents.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidInput signals a malformed request value (user id, query, config).
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidMode signals an unknown analysis mode.
	ErrInvalidMode = errors.New("invalid analysis mode")
	// ErrAlreadyExists signals a duplicate document id within a session.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSessionFull signals a session at its document limit under a
	// rejecting eviction policy.
	ErrSessionFull = errors.New("session document limit reached")
)
