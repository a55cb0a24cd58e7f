// Package category defines the coarse content classification of a document.
package category

// Category is the detected content type of a document.
type Category string

// Category constants, in tie-break priority order.
const (
	Code             Category = "code"
	ResearchPaper    Category = "research_paper"
	BusinessDocument Category = "business_document"
	// General is the fallback when no stronger signal is found.
	General Category = "general"
)

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	return c == Code || c == ResearchPaper || c == BusinessDocument || c == General
}

// Priority returns the tie-break rank of the category (lower wins).
func (c Category) Priority() int {
	switch c {
	case Code:
		return 0
	case ResearchPaper:
		return 1
	case BusinessDocument:
		return 2
	default:
		return 3
	}
}

// All returns every category in priority order.
func All() []Category {
	return []Category{Code, ResearchPaper, BusinessDocument, General}
}
