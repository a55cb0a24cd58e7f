package session

import (
	"context"

	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/document"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

// Repository defines the storage contract for session partitions. User
// ids passed in are already normalized.
type Repository interface {
	Put(ctx context.Context, doc document.Document) error
	Get(ctx context.Context, userID, docID string) (document.Document, error)
	List(ctx context.Context, userID string) ([]document.Document, error)
	Replace(ctx context.Context, doc document.Document) error
	Clear(ctx context.Context, userID string) error
}

// Classifier assigns a category to normalized text.
type Classifier interface {
	Classify(n *text.Normalized, raw string) (category.Category, float64)
}
