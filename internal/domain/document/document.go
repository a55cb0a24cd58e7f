// Package document defines the stored document aggregate.
package document

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/docsense/internal/domain/category"
)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 1 << 20 // 1MB of extracted text

// Document is a stored user document (immutable value object). The raw
// text never changes after upload; reprocessing produces new analysis
// artifacts, not new text.
type Document struct {
	id         string
	owner      string
	name       string
	rawText    string
	category   category.Category
	confidence float64
	uploadedAt time.Time
}

// New validates and creates a Document. Owner must already be a
// normalized user id; category assignment happens at classification time.
func New(
	id, owner, name, rawText string,
	cat category.Category, confidence float64,
	uploadedAt time.Time,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document id is required")
	}
	if owner == "" {
		return Document{}, fmt.Errorf("document owner is required")
	}
	if len(rawText) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if !cat.IsValid() {
		return Document{}, fmt.Errorf("invalid category %q", cat)
	}
	return Document{
		id:         id,
		owner:      owner,
		name:       name,
		rawText:    rawText,
		category:   cat,
		confidence: confidence,
		uploadedAt: uploadedAt,
	}, nil
}

// ID returns the document identifier (unique within its session).
func (d *Document) ID() string { return d.id }

// Owner returns the normalized user id owning the document.
func (d *Document) Owner() string { return d.owner }

// Name returns the optional original filename.
func (d *Document) Name() string { return d.name }

// RawText returns the extracted document text.
func (d *Document) RawText() string { return d.rawText }

// Category returns the category assigned at classification time.
func (d *Document) Category() category.Category { return d.category }

// Confidence returns the classification confidence in [0,1].
func (d *Document) Confidence() float64 { return d.confidence }

// UploadedAt returns the upload timestamp.
func (d *Document) UploadedAt() time.Time { return d.uploadedAt }

// WithClassification returns a copy carrying a fresh category and
// confidence (explicit reprocess only).
func (d *Document) WithClassification(cat category.Category, confidence float64) Document {
	c := *d
	c.category = cat
	c.confidence = confidence
	return c
}

// Preview returns the first n runes of the raw text, with an ellipsis
// when truncated.
func (d *Document) Preview(n int) string {
	runes := []rune(d.rawText)
	if len(runes) <= n {
		return d.rawText
	}
	return string(runes[:n]) + "..."
}
