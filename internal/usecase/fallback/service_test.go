package fallback

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/docsense/internal/domain/analysis"
	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/request"
	"github.com/kailas-cloud/docsense/internal/domain/text"
	"github.com/kailas-cloud/docsense/internal/usecase/analyze"
)

// --- Mocks ---

type mockClassifier struct{}

func (mockClassifier) Classify(_ *text.Normalized, _ string) (category.Category, float64) {
	return category.General, 0.5
}

type mockAnalyzer struct {
	lastMode analysis.Mode
	err      error
}

func (m *mockAnalyzer) Analyze(
	docID string, _ *text.Normalized,
	cat category.Category, confidence float64,
	mode analysis.Mode, _ analyze.Options,
) (analysis.Result, error) {
	m.lastMode = mode
	if m.err != nil {
		return analysis.Result{}, m.err
	}
	return analysis.NewResult(docID, mode, map[analysis.Artifact]string{
		analysis.ArtifactSummary: "mock summary",
	}, analysis.Stats{Words: 2}, cat, confidence, time.Unix(0, 0)), nil
}

type panickyAnalyzer struct{}

func (panickyAnalyzer) Analyze(
	string, *text.Normalized, category.Category, float64, analysis.Mode, analyze.Options,
) (analysis.Result, error) {
	panic("boom")
}

// --- Tests ---

func TestHandleRawText(t *testing.T) {
	an := &mockAnalyzer{}
	svc := New(mockClassifier{}, an, nil)

	out := svc.Handle(context.Background(), []byte(`{"content": "some pasted document text"}`))
	if !out.Analyzed {
		t.Fatalf("Analyzed = false, guidance = %q", out.Guidance)
	}
	if out.Kind != request.KindRawText {
		t.Errorf("Kind = %q, want raw_text", out.Kind)
	}
	if an.lastMode != analysis.Comprehensive {
		t.Errorf("mode = %q, want comprehensive default", an.lastMode)
	}
	if s, _ := out.Analysis.Artifact(analysis.ArtifactSummary); s != "mock summary" {
		t.Errorf("summary artifact = %q", s)
	}
}

func TestHandleRespectsRequestedMode(t *testing.T) {
	an := &mockAnalyzer{}
	svc := New(mockClassifier{}, an, nil)

	svc.Handle(context.Background(), []byte(`{"content": "text here", "operation": "summary"}`))
	if an.lastMode != analysis.Summary {
		t.Errorf("mode = %q, want summary", an.lastMode)
	}
}

func TestHandleMalformedRequest(t *testing.T) {
	svc := New(mockClassifier{}, &mockAnalyzer{}, nil)

	// Missing both document id and raw text: structured guidance, no failure.
	out := svc.Handle(context.Background(), []byte(`{"phone_number": "15551234567"}`))
	if out.Analyzed {
		t.Error("Analyzed = true for malformed request")
	}
	if out.Guidance == "" {
		t.Error("Guidance empty, want expected-shape description")
	}
}

func TestHandleGuidanceByKind(t *testing.T) {
	svc := New(mockClassifier{}, &mockAnalyzer{}, nil)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"analyze without content", `{"document_id": "a1b2", "operation": "summary"}`, guidanceAnalyze},
		{"search without content", `{"query": "needle"}`, guidanceSearch},
		{"nothing at all", `{}`, guidanceUnknown},
		{"empty payload", ``, guidanceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := svc.Handle(context.Background(), []byte(tt.raw))
			if out.Guidance != tt.want {
				t.Errorf("Guidance = %q, want %q", out.Guidance, tt.want)
			}
		})
	}
}

func TestHandleNonJSONPayload(t *testing.T) {
	svc := New(mockClassifier{}, &mockAnalyzer{}, nil)

	out := svc.Handle(context.Background(), []byte("just some plain text pasted in"))
	if !out.Analyzed {
		t.Errorf("Analyzed = false for plain text payload, guidance = %q", out.Guidance)
	}
}

func TestHandleNeverPanics(t *testing.T) {
	svc := New(mockClassifier{}, panickyAnalyzer{}, nil)

	out := svc.Handle(context.Background(), []byte(`{"content": "text that reaches the analyzer"}`))
	if out.Analyzed {
		t.Error("Analyzed = true from a panicking analyzer")
	}
	if out.Guidance == "" {
		t.Error("Guidance empty after recovered panic")
	}
}

func TestHandleFailedDispatchWithContent(t *testing.T) {
	an := &mockAnalyzer{}
	svc := New(mockClassifier{}, an, nil)

	long := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 3)
	tests := []struct {
		name string
		raw  string
		kind request.Kind
	}{
		{"search payload carrying text", `{"query": "needle", "content": "` + long + `"}`, request.KindSearch},
		{"analyze payload carrying text", `{"document_id": "deadbeef", "content": "` + long + `"}`, request.KindAnalyze},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := svc.Handle(context.Background(), []byte(tt.raw))
			if !out.Analyzed {
				t.Fatalf("Analyzed = false, guidance = %q; want direct analysis of carried text", out.Guidance)
			}
			if out.Kind != tt.kind {
				t.Errorf("Kind = %q, want %q", out.Kind, tt.kind)
			}
		})
	}
}
