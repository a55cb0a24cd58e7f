// Package fallback guarantees a usable response when normal processing
// fails or a request arrives in an unexpected shape.
package fallback

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/request"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	"github.com/kailas-cloud/docsense/internal/usecase/analyze"
)

// Classifier assigns a category to normalized text.
type Classifier interface {
	Classify(n *text.Normalized, raw string) (category.Category, float64)
}

// Analyzer produces analysis artifacts.
type Analyzer interface {
	Analyze(
		docID string, n *text.Normalized,
		cat category.Category, confidence float64,
		mode analysis.Mode, opts analyze.Options,
	) (analysis.Result, error)
}

// Outcome is the coordinator's result. It is always well formed: either
// a direct analysis of recovered text, or structured guidance.
type Outcome struct {
	Kind     request.Kind
	Analyzed bool
	Analysis analysis.Result
	Guidance string
}

// Guidance templates. They describe the expected input shape and never
// leak internal failure detail.
const (
	guidanceUnknown = "No document reference or text content was found in the request. " +
		"Either upload a document first (phone_number, filename, content), " +
		"or include the text to analyze directly under a \"content\" field."
	guidanceAnalyze = "The referenced document could not be processed. " +
		"Check the document id against your session's document list, " +
		"or paste the text directly under a \"content\" field for immediate analysis."
	guidanceSearch = "The search request carried no searchable text. " +
		"Upload a document first, or include both \"query\" and \"content\" fields."
)

// Service is the fallback coordinator.
type Service struct {
	classifier Classifier
	analyzer   Analyzer
	logger     *zap.Logger
}

// New creates a fallback coordinator. logger may be nil.
func New(classifier Classifier, analyzer Analyzer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{classifier: classifier, analyzer: analyzer, logger: logger}
}

// Handle resolves a raw payload and always produces a usable outcome.
// It never returns an error and never propagates a panic.
func (s *Service) Handle(ctx context.Context, raw []byte) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("fallback handler panicked", zap.Any("panic", r))
			out = Outcome{Kind: request.KindUnknown, Guidance: guidanceUnknown}
		}
	}()

	in := request.Parse(raw)
	out.Kind = in.Kind()

	// Any recovered text gets analyzed directly, whatever shape the
	// request arrived in.
	if content := in.Content(); content != "" {
		return s.analyzeDirect(ctx, in, content)
	}

	switch in.Kind() {
	case request.KindAnalyze:
		out.Guidance = guidanceAnalyze
	case request.KindSearch:
		out.Guidance = guidanceSearch
	default:
		out.Guidance = guidanceUnknown
	}
	return out
}

func (s *Service) analyzeDirect(_ context.Context, in request.Inbound, content string) Outcome {
	n := text.Normalize(content)
	cat, confidence := s.classifier.Classify(&n, content)

	mode := analysis.Mode(in.Mode())
	if !mode.IsValid() {
		mode = analysis.Comprehensive
	}

	res, err := s.analyzer.Analyze("", &n, cat, confidence, mode, analyze.Options{})
	if err != nil {
		// The analyzer only fails on invalid mode/options, both already
		// defaulted above; guidance is still the safe answer.
		s.logger.Warn("direct analysis failed", zap.Error(err))
		return Outcome{Kind: in.Kind(), Guidance: guidanceUnknown}
	}

	return Outcome{Kind: in.Kind(), Analyzed: true, Analysis: res}
}
