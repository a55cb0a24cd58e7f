package rest

import (
	"time"

	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/document"
	domsearch "github.com/kailas-cloud/docsense/internal/domain/search"
	fallbackuc "github.com/kailas-cloud/docsense/internal/usecase/fallback"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest       = "bad_request"
	codeValidationFailed = "validation_failed"
	codeNotFound         = "not_found"
	codeDocumentNotFound = "document_not_found"
	codeSessionNotFound  = "session_not_found"
	codeAlreadyExists    = "already_exists"
	codeSessionFull      = "session_full"
	codeInternalError    = "internal_error"
)

// previewChars is how much document text rides along in responses.
const previewChars = 500

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type uploadRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type analyzeRequest struct {
	Mode           string `json:"mode,omitempty"`
	SummaryLength  int    `json:"summary_length,omitempty"`
	WordsPerMinute int    `json:"words_per_minute,omitempty"`
}

type analyzeTextRequest struct {
	Content        string `json:"content"`
	Mode           string `json:"mode,omitempty"`
	SummaryLength  int    `json:"summary_length,omitempty"`
	WordsPerMinute int    `json:"words_per_minute,omitempty"`
}

type contentRequest struct {
	Content string `json:"content"`
}

type searchRequest struct {
	Query         string `json:"query"`
	CaseSensitive bool   `json:"case_sensitive,omitempty"`
	ContextChars  int    `json:"context_chars,omitempty"`
	MaxHits       int    `json:"max_hits,omitempty"`
}

type documentResponse struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Category   string    `json:"category"`
	Confidence float64   `json:"confidence"`
	UploadedAt time.Time `json:"uploaded_at"`
	Preview    string    `json:"preview"`
}

type documentListResponse struct {
	Documents []documentResponse `json:"documents"`
	Total     int                `json:"total"`
}

type statsResponse struct {
	Words          int `json:"words"`
	Chars          int `json:"chars"`
	Sentences      int `json:"sentences"`
	Paragraphs     int `json:"paragraphs"`
	ReadingMinutes int `json:"reading_minutes"`
}

type analysisResponse struct {
	DocumentID  string            `json:"document_id,omitempty"`
	Mode        string            `json:"mode"`
	Artifacts   map[string]string `json:"artifacts"`
	Stats       statsResponse     `json:"stats"`
	Category    string            `json:"category"`
	Confidence  float64           `json:"confidence"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type classifyResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type hitResponse struct {
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Context string  `json:"context"`
	Score   float64 `json:"score"`
}

type searchResponse struct {
	DocumentID string        `json:"document_id"`
	Query      string        `json:"query"`
	Hits       []hitResponse `json:"hits"`
	Total      int           `json:"total"`
}

type fallbackResponse struct {
	Kind     string            `json:"kind"`
	Analyzed bool              `json:"analyzed"`
	Analysis *analysisResponse `json:"analysis,omitempty"`
	Guidance string            `json:"guidance,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func documentToResponse(doc *document.Document) documentResponse {
	return documentResponse{
		ID:         doc.ID(),
		Filename:   doc.Name(),
		Category:   string(doc.Category()),
		Confidence: doc.Confidence(),
		UploadedAt: doc.UploadedAt().UTC(),
		Preview:    doc.Preview(previewChars),
	}
}

func analysisToResponse(r *analysis.Result) analysisResponse {
	artifacts := make(map[string]string, len(r.Artifacts()))
	for k, v := range r.Artifacts() {
		artifacts[string(k)] = v
	}
	st := r.Stats()
	return analysisResponse{
		DocumentID: r.DocumentID(),
		Mode:       string(r.Mode()),
		Artifacts:  artifacts,
		Stats: statsResponse{
			Words:          st.Words,
			Chars:          st.Chars,
			Sentences:      st.Sentences,
			Paragraphs:     st.Paragraphs,
			ReadingMinutes: st.ReadingMinutes,
		},
		Category:    string(r.Category()),
		Confidence:  r.Confidence(),
		GeneratedAt: r.GeneratedAt().UTC(),
	}
}

func searchToResponse(docID, query string, hits []domsearch.Hit) searchResponse {
	items := make([]hitResponse, len(hits))
	for i := range hits {
		items[i] = hitResponse{
			Start:   hits[i].Start(),
			End:     hits[i].End(),
			Context: hits[i].Context(),
			Score:   hits[i].Score(),
		}
	}
	return searchResponse{
		DocumentID: docID,
		Query:      query,
		Hits:       items,
		Total:      len(items),
	}
}

func fallbackToResponse(out fallbackuc.Outcome) fallbackResponse {
	resp := fallbackResponse{
		Kind:     string(out.Kind),
		Analyzed: out.Analyzed,
		Guidance: out.Guidance,
	}
	if out.Analyzed {
		a := analysisToResponse(&out.Analysis)
		resp.Analysis = &a
	}
	return resp
}
