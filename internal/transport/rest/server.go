// Package rest exposes the document engine over a chi HTTP API.
package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsense/internal/domain"
	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	domsearch "github.com/kailas-cloud/docsense/internal/domain/search"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	"github.com/kailas-cloud/docsense/internal/metrics"
	analyzeuc "github.com/kailas-cloud/docsense/internal/usecase/analyze"
	classifyuc "github.com/kailas-cloud/docsense/internal/usecase/classify"
	fallbackuc "github.com/kailas-cloud/docsense/internal/usecase/fallback"
	healthuc "github.com/kailas-cloud/docsense/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsense/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/docsense/internal/usecase/session"
)

// maxBodySize bounds inbound request bodies (documents are capped at 1 MiB,
// leave headroom for the JSON envelope).
const maxBodySize = 2 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the use case services into HTTP handlers.
type Server struct {
	sessions      *sessionuc.Service
	analyzer      *analyzeuc.Service
	classifier    *classifyuc.Service
	searcher      *searchuc.Service
	fallback      *fallbackuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler

	searchContextChars int
	searchMaxHits      int
}

// NewServer creates an HTTP API server.
func NewServer(
	sessions *sessionuc.Service,
	analyzer *analyzeuc.Service,
	classifier *classifyuc.Service,
	searcher *searchuc.Service,
	fallback *fallbackuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		sessions:   sessions,
		analyzer:   analyzer,
		classifier: classifier,
		searcher:   searcher,
		fallback:   fallback,
		health:     health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, codeDocumentNotFound),
		sentinelHandler(domain.ErrSessionNotFound, http.StatusNotFound, codeSessionNotFound),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidMode, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrSessionFull, http.StatusConflict, codeSessionFull),
	}
	return s
}

// WithSearchDefaults sets the context size and hit cap applied when a
// search request leaves them unset.
func (s *Server) WithSearchDefaults(contextChars, maxHits int) *Server {
	s.searchContextChars = contextChars
	s.searchMaxHits = maxHits
	return s
}

// Routes registers all API routes on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Route("/sessions/{userID}", func(r chi.Router) {
		r.Delete("/", s.clearSession)
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.uploadDocument)
			r.Get("/", s.listDocuments)
			r.Route("/{documentID}", func(r chi.Router) {
				r.Get("/", s.getDocument)
				r.Post("/reprocess", s.reprocessDocument)
				r.Post("/analyze", s.analyzeDocument)
				r.Post("/search", s.searchDocument)
			})
		})
	})
	r.Post("/classify", s.classifyText)
	r.Post("/analyze", s.analyzeText)
	r.Post("/fallback", s.handleFallback)
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metricsHandler)
}

// uploadDocument handles POST /sessions/{userID}/documents.
func (s *Server) uploadDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req uploadRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Content == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "content is required")
		return
	}

	doc, err := s.sessions.Upload(r.Context(), userID, req.Filename, req.Content)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.DocumentsUploaded.WithLabelValues(string(doc.Category())).Inc()
	writeJSON(w, http.StatusCreated, documentToResponse(&doc))
}

// listDocuments handles GET /sessions/{userID}/documents.
func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	docs, err := s.sessions.List(r.Context(), userID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]documentResponse, len(docs))
	for i := range docs {
		items[i] = documentToResponse(&docs[i])
	}
	writeJSON(w, http.StatusOK, documentListResponse{Documents: items, Total: len(items)})
}

// getDocument handles GET /sessions/{userID}/documents/{documentID}.
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	docID := chi.URLParam(r, "documentID")

	doc, err := s.sessions.Get(r.Context(), userID, docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// clearSession handles DELETE /sessions/{userID}.
func (s *Server) clearSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := s.sessions.Clear(r.Context(), userID); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// reprocessDocument handles POST /sessions/{userID}/documents/{documentID}/reprocess.
func (s *Server) reprocessDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	docID := chi.URLParam(r, "documentID")

	doc, err := s.sessions.Reprocess(r.Context(), userID, docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(&doc))
}

// analyzeDocument handles POST /sessions/{userID}/documents/{documentID}/analyze.
func (s *Server) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	docID := chi.URLParam(r, "documentID")

	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := s.sessions.Get(r.Context(), userID, docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	mode := resolveMode(req.Mode)
	normalized := text.Normalize(doc.RawText())
	result, err := s.analyzer.Analyze(
		doc.ID(), &normalized, doc.Category(), doc.Confidence(),
		mode, analyzeuc.Options{SummaryLength: req.SummaryLength, WordsPerMinute: req.WordsPerMinute},
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.AnalysesTotal.WithLabelValues(string(mode)).Inc()
	writeJSON(w, http.StatusOK, analysisToResponse(&result))
}

// searchDocument handles POST /sessions/{userID}/documents/{documentID}/search.
func (s *Server) searchDocument(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	docID := chi.URLParam(r, "documentID")

	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := s.sessions.Get(r.Context(), userID, docID)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	contextChars := req.ContextChars
	if contextChars <= 0 {
		contextChars = s.searchContextChars
	}
	maxHits := req.MaxHits
	if maxHits <= 0 {
		maxHits = s.searchMaxHits
	}
	query, err := domsearch.NewRequest(req.Query, req.CaseSensitive, contextChars, maxHits)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits := s.searcher.Search(doc.ID(), doc.RawText(), &query)

	outcome := "miss"
	if len(hits) > 0 {
		outcome = "hit"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	writeJSON(w, http.StatusOK, searchToResponse(doc.ID(), req.Query, hits))
}

// classifyText handles POST /classify. It classifies inline text without
// touching any session.
func (s *Server) classifyText(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !s.decode(w, r, &req) {
		return
	}

	normalized := text.Normalize(req.Content)
	cat, confidence := s.classifier.Classify(&normalized, req.Content)

	writeJSON(w, http.StatusOK, classifyResponse{
		Category:   string(cat),
		Confidence: confidence,
	})
}

// analyzeText handles POST /analyze. It analyzes inline text without
// touching any session; the response carries no document id.
func (s *Server) analyzeText(w http.ResponseWriter, r *http.Request) {
	var req analyzeTextRequest
	if !s.decode(w, r, &req) {
		return
	}

	mode := resolveMode(req.Mode)
	normalized := text.Normalize(req.Content)
	cat, confidence := s.classifier.Classify(&normalized, req.Content)

	result, err := s.analyzer.Analyze(
		"", &normalized, cat, confidence,
		mode, analyzeuc.Options{SummaryLength: req.SummaryLength, WordsPerMinute: req.WordsPerMinute},
	)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	metrics.AnalysesTotal.WithLabelValues(string(mode)).Inc()
	writeJSON(w, http.StatusOK, analysisToResponse(&result))
}

// handleFallback handles POST /fallback. The body is passed through
// verbatim; the coordinator never fails.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "request body too large")
		return
	}

	outcome := s.fallback.Handle(r.Context(), raw)
	metrics.FallbacksTotal.WithLabelValues(string(outcome.Kind)).Inc()

	writeJSON(w, http.StatusOK, fallbackToResponse(outcome))
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// metricsHandler handles GET /metrics.
func (s *Server) metricsHandler(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decode reads a JSON body into dst, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func readBody(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodySize)
	defer func() { _ = r.Body.Close() }()
	return io.ReadAll(r.Body)
}

// resolveMode maps a request mode string to a valid analysis mode,
// defaulting to comprehensive when absent. Invalid values pass through
// so the analyzer can reject them with a precise message.
func resolveMode(raw string) analysis.Mode {
	if raw == "" {
		return analysis.Comprehensive
	}
	return analysis.Mode(raw)
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrDocumentNotFound,
		domain.ErrSessionNotFound,
		domain.ErrNotFound,
		domain.ErrInvalidMode,
		domain.ErrInvalidInput,
		domain.ErrAlreadyExists,
		domain.ErrSessionFull,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
