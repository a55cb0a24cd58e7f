package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/document"
	"github.com/kailas-cloud/docsense/internal/domain/phone"
	domsearch "github.com/kailas-cloud/docsense/internal/domain/search"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	"github.com/kailas-cloud/docsense/internal/metrics"
	analyzeuc "github.com/kailas-cloud/docsense/internal/usecase/analyze"
)

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	PhoneNumber string `json:"phone_number" jsonschema:"the user's phone number identifying the session"`
	Filename    string `json:"filename" jsonschema:"name of the uploaded document"`
	Content     string `json:"content" jsonschema:"the full document text"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message"`
}

// ProcessInput is the input schema for the process_document tool.
type ProcessInput struct {
	PhoneNumber string `json:"phone_number,omitempty" jsonschema:"the user's phone number identifying the session"`
	DocumentID  string `json:"document_id,omitempty" jsonschema:"document to process; the most recent upload when omitted"`
	Operation   string `json:"operation,omitempty" jsonschema:"analysis mode: summary, key_points, statistics, format_clean or comprehensive (default)"`
	Content     string `json:"content,omitempty" jsonschema:"inline text to analyze when no stored document is referenced"`
}

// StatsOutput carries the numeric document statistics.
type StatsOutput struct {
	Words          int `json:"words"`
	Chars          int `json:"chars"`
	Sentences      int `json:"sentences"`
	Paragraphs     int `json:"paragraphs"`
	ReadingMinutes int `json:"reading_minutes"`
}

// ProcessOutput is the output schema for the process_document tool.
// Either the analysis fields or Guidance is populated, never both.
type ProcessOutput struct {
	DocumentID string            `json:"document_id,omitempty"`
	Mode       string            `json:"mode,omitempty"`
	Artifacts  map[string]string `json:"artifacts,omitempty"`
	Stats      *StatsOutput      `json:"stats,omitempty"`
	Category   string            `json:"category,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Guidance   string            `json:"guidance,omitempty"`
}

// SearchInput is the input schema for the search_document tool.
type SearchInput struct {
	PhoneNumber   string `json:"phone_number" jsonschema:"the user's phone number identifying the session"`
	DocumentID    string `json:"document_id,omitempty" jsonschema:"document to search; the most recent upload when omitted"`
	Query         string `json:"query" jsonschema:"text to find in the document"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"match case exactly (default false)"`
	ContextChars  int    `json:"context_chars,omitempty" jsonschema:"characters of context around each match (default 50)"`
	MaxHits       int    `json:"max_hits,omitempty" jsonschema:"maximum matches to return (default 10)"`
}

// HitOutput represents a single search match.
type HitOutput struct {
	Start   int     `json:"start"`
	End     int     `json:"end"`
	Context string  `json:"context"`
	Score   float64 `json:"score"`
}

// SearchOutput is the output schema for the search_document tool.
type SearchOutput struct {
	DocumentID string      `json:"document_id"`
	Query      string      `json:"query"`
	Hits       []HitOutput `json:"hits"`
	Total      int         `json:"total"`
}

// ValidateOutput is the output schema for the validate tool.
type ValidateOutput struct {
	PhoneNumber string `json:"phone_number"`
}

// ToolInfo describes one available tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ListToolsOutput is the output schema for the list_available_tools tool.
type ListToolsOutput struct {
	Tools []ToolInfo `json:"tools"`
}

// toolDescriptions doubles as the source for list_available_tools.
var toolDescriptions = []ToolInfo{
	{Name: "upload_document", Description: "Upload a document into the caller's session and classify it"},
	{Name: "process_document", Description: "Analyze a stored document or inline text (summary, key points, statistics, format cleanup)"},
	{Name: "search_document", Description: "Search a stored document for a text query with surrounding context"},
	{Name: "validate", Description: "Return the owner's phone number in normalized digit form"},
	{Name: "list_available_tools", Description: "List every tool this server provides"},
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: toolDescriptions[0].Description,
	}, s.handleUpload)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_document",
		Description: toolDescriptions[1].Description,
	}, s.handleProcess)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_document",
		Description: toolDescriptions[2].Description,
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate",
		Description: toolDescriptions[3].Description,
	}, s.handleValidate)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_available_tools",
		Description: toolDescriptions[4].Description,
	}, s.handleListTools)
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	doc, err := s.sessions.Upload(ctx, input.PhoneNumber, input.Filename, input.Content)
	if err != nil {
		return nil, UploadOutput{}, err
	}

	metrics.DocumentsUploaded.WithLabelValues(string(doc.Category())).Inc()

	return nil, UploadOutput{
		DocumentID: doc.ID(),
		Filename:   doc.Name(),
		Category:   string(doc.Category()),
		Confidence: doc.Confidence(),
		Message: fmt.Sprintf("Document %q stored as %s (category: %s)",
			doc.Name(), doc.ID(), doc.Category()),
	}, nil
}

// handleProcess analyzes a stored document. When the session lookup fails
// or no document is referenced, the raw arguments go through the fallback
// coordinator so the caller always receives a usable answer.
func (s *Server) handleProcess(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ProcessInput,
) (*mcp.CallToolResult, ProcessOutput, error) {
	if input.PhoneNumber != "" {
		doc, err := s.lookupDocument(ctx, input.PhoneNumber, input.DocumentID)
		if err == nil {
			return s.analyzeStored(&doc, input.Operation)
		}
		s.logger.Debug("process lookup failed, delegating to fallback", zap.Error(err))
	}

	outcome := s.fallback.Handle(ctx, req.Params.Arguments)
	metrics.FallbacksTotal.WithLabelValues(string(outcome.Kind)).Inc()

	if !outcome.Analyzed {
		return nil, ProcessOutput{Guidance: outcome.Guidance}, nil
	}
	return nil, analysisToOutput(&outcome.Analysis), nil
}

func (s *Server) analyzeStored(doc *document.Document, operation string) (*mcp.CallToolResult, ProcessOutput, error) {
	mode := analysis.Mode(operation)
	if operation == "" {
		mode = analysis.Comprehensive
	}

	normalized := text.Normalize(doc.RawText())
	result, err := s.analyzer.Analyze(
		doc.ID(), &normalized, doc.Category(), doc.Confidence(),
		mode, analyzeuc.Options{},
	)
	if err != nil {
		return nil, ProcessOutput{}, err
	}

	metrics.AnalysesTotal.WithLabelValues(string(mode)).Inc()
	return nil, analysisToOutput(&result), nil
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	doc, err := s.lookupDocument(ctx, input.PhoneNumber, input.DocumentID)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	contextChars := input.ContextChars
	if contextChars <= 0 {
		contextChars = s.searchContextChars
	}
	maxHits := input.MaxHits
	if maxHits <= 0 {
		maxHits = s.searchMaxHits
	}
	query, err := domsearch.NewRequest(input.Query, input.CaseSensitive, contextChars, maxHits)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	hits := s.searcher.Search(doc.ID(), doc.RawText(), &query)

	outcome := "miss"
	if len(hits) > 0 {
		outcome = "hit"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	out := SearchOutput{
		DocumentID: doc.ID(),
		Query:      input.Query,
		Hits:       make([]HitOutput, len(hits)),
		Total:      len(hits),
	}
	for i := range hits {
		out.Hits[i] = HitOutput{
			Start:   hits[i].Start(),
			End:     hits[i].End(),
			Context: hits[i].Context(),
			Score:   hits[i].Score(),
		}
	}
	return nil, out, nil
}

func (s *Server) handleValidate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ValidateOutput, error) {
	if s.ownerNumber == "" {
		return nil, ValidateOutput{}, errors.New("owner number is not configured")
	}
	digits, err := phone.Normalize(s.ownerNumber)
	if err != nil {
		return nil, ValidateOutput{}, fmt.Errorf("configured owner number is invalid: %w", err)
	}
	return nil, ValidateOutput{PhoneNumber: digits}, nil
}

func (s *Server) handleListTools(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListToolsOutput, error) {
	return nil, ListToolsOutput{Tools: toolDescriptions}, nil
}

// lookupDocument resolves a document reference: an explicit id, or the
// session's most recent upload when the id is empty.
func (s *Server) lookupDocument(ctx context.Context, phoneNumber, docID string) (document.Document, error) {
	if docID != "" {
		return s.sessions.Get(ctx, phoneNumber, docID)
	}
	return s.sessions.Latest(ctx, phoneNumber)
}

func analysisToOutput(r *analysis.Result) ProcessOutput {
	artifacts := make(map[string]string, len(r.Artifacts()))
	for k, v := range r.Artifacts() {
		artifacts[string(k)] = v
	}
	st := r.Stats()
	return ProcessOutput{
		DocumentID: r.DocumentID(),
		Mode:       string(r.Mode()),
		Artifacts:  artifacts,
		Stats: &StatsOutput{
			Words:          st.Words,
			Chars:          st.Chars,
			Sentences:      st.Sentences,
			Paragraphs:     st.Paragraphs,
			ReadingMinutes: st.ReadingMinutes,
		},
		Category:   string(r.Category()),
		Confidence: r.Confidence(),
	}
}
