package request

import (
	"strings"
	"testing"
)

func TestParseVariants(t *testing.T) {
	longText := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 3)

	tests := []struct {
		name     string
		raw      string
		wantKind Kind
	}{
		{
			name:     "search",
			raw:      `{"phone_number": "+15551234567", "search_query": "cat"}`,
			wantKind: KindSearch,
		},
		{
			name:     "upload",
			raw:      `{"phone_number": "15551234567", "filename": "notes.txt", "content": "hello world"}`,
			wantKind: KindUpload,
		},
		{
			name:     "analyze by document id",
			raw:      `{"document_id": "a1b2c3d4", "operation": "summary"}`,
			wantKind: KindAnalyze,
		},
		{
			name:     "raw text under known key",
			raw:      `{"text": "some loose document content"}`,
			wantKind: KindRawText,
		},
		{
			name:     "raw text under unknown key",
			raw:      `{"payload": {"blob": "` + longText + `"}}`,
			wantKind: KindRawText,
		},
		{
			name:     "not json at all",
			raw:      "plain text pasted straight in",
			wantKind: KindRawText,
		},
		{
			name:     "nothing usable",
			raw:      `{"phone_number": "15551234567"}`,
			wantKind: KindUnknown,
		},
		{
			name:     "empty payload",
			raw:      "",
			wantKind: KindUnknown,
		},
		{
			name:     "short strings not mistaken for text",
			raw:      `{"foo": "bar", "id": "x9"}`,
			wantKind: KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Parse([]byte(tt.raw))
			if in.Kind() != tt.wantKind {
				t.Errorf("Parse(%q).Kind() = %q, want %q", tt.raw, in.Kind(), tt.wantKind)
			}
		})
	}
}

func TestParseFields(t *testing.T) {
	in := Parse([]byte(`{"phone_number": "+1 555", "doc_id": "a1b2", "query": "needle"}`))
	if in.Kind() != KindSearch {
		t.Fatalf("Kind() = %q, want search", in.Kind())
	}
	if in.UserID() != "+1 555" {
		t.Errorf("UserID() = %q (must stay unnormalized at parse time)", in.UserID())
	}
	if in.DocumentID() != "a1b2" || in.Query() != "needle" {
		t.Errorf("fields = (%q, %q)", in.DocumentID(), in.Query())
	}
}

func TestParseRecoversLongestText(t *testing.T) {
	long := strings.Repeat("alpha beta gamma delta epsilon ", 4)
	in := Parse([]byte(`{"a": "` + long + `", "b": "short"}`))
	if in.Kind() != KindRawText {
		t.Fatalf("Kind() = %q, want raw_text", in.Kind())
	}
	if in.Content() != strings.TrimSpace(long) {
		t.Errorf("Content() = %q", in.Content())
	}
}

func TestParseCarriesContentOnAllVariants(t *testing.T) {
	long := strings.Repeat("gamma delta epsilon zeta eta theta ", 3)

	search := Parse([]byte(`{"query": "needle", "content": "` + long + `"}`))
	if search.Kind() != KindSearch {
		t.Fatalf("Kind() = %q, want search", search.Kind())
	}
	if search.Content() != strings.TrimSpace(long) {
		t.Errorf("search Content() = %q, want recovered text carried along", search.Content())
	}

	analyzeIn := Parse([]byte(`{"document_id": "a1b2c3d4", "content": "` + long + `"}`))
	if analyzeIn.Kind() != KindAnalyze {
		t.Fatalf("Kind() = %q, want analyze", analyzeIn.Kind())
	}
	if analyzeIn.Content() != strings.TrimSpace(long) {
		t.Errorf("analyze Content() = %q, want recovered text carried along", analyzeIn.Content())
	}
}

func TestParseTieBreaksEqualLengthText(t *testing.T) {
	a := "aaaa " + strings.Repeat("x", 40)
	b := "bbbb " + strings.Repeat("x", 40)
	in := Parse([]byte(`{"k1": "` + b + `", "k2": "` + a + `"}`))
	if in.Content() != a {
		t.Errorf("Content() = %q, want lexicographically smaller of equal-length candidates", in.Content())
	}
}
