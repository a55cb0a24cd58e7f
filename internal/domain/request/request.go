// Package request models the loosely-shaped inbound payload as a tagged
// variant, resolved once at the boundary instead of probing shapes at
// every handler.
package request

import (
	"encoding/json"
	"strings"
)

// Kind tags the resolved request variant.
type Kind string

// Request variants.
const (
	KindUpload  Kind = "upload"
	KindAnalyze Kind = "analyze"
	KindSearch  Kind = "search"
	// KindRawText carries loose text with no document reference.
	KindRawText Kind = "raw_text"
	KindUnknown Kind = "unknown"
)

// textKeys are payload fields checked, in order, when recovering loose
// text content.
var textKeys = []string{"content", "text", "raw_text", "document_data", "body", "message"}

// Inbound is a resolved inbound request.
type Inbound struct {
	kind       Kind
	userID     string
	documentID string
	content    string
	query      string
	mode       string
	filename   string
}

// NewUpload creates an upload variant.
func NewUpload(userID, filename, content string) Inbound {
	return Inbound{kind: KindUpload, userID: userID, filename: filename, content: content}
}

// NewAnalyze creates an analyze variant.
func NewAnalyze(userID, documentID, mode string) Inbound {
	return Inbound{kind: KindAnalyze, userID: userID, documentID: documentID, mode: mode}
}

// NewSearch creates a search variant.
func NewSearch(userID, documentID, query string) Inbound {
	return Inbound{kind: KindSearch, userID: userID, documentID: documentID, query: query}
}

// NewRawText creates a raw text variant.
func NewRawText(content string) Inbound {
	return Inbound{kind: KindRawText, content: content}
}

// Parse resolves a raw payload into exactly one variant. It never fails:
// payloads that match no known shape resolve to Unknown (or RawText when
// any usable text can be recovered).
func Parse(raw []byte) Inbound {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		// Not JSON at all; the payload itself may be the document text.
		if s := strings.TrimSpace(string(raw)); s != "" {
			return NewRawText(s)
		}
		return Inbound{kind: KindUnknown}
	}

	userID := stringField(m, "phone_number", "user_id", "user")
	docID := stringField(m, "document_id", "doc_id")
	query := stringField(m, "query", "search_query")
	mode := stringField(m, "operation", "mode")
	filename := stringField(m, "filename")
	content := stringField(m, textKeys...)
	if content == "" {
		content = longestString(m)
	}

	// Every variant carries any recovered content so a failed dispatch can
	// still fall back to analyzing the text directly.
	switch {
	case query != "":
		return Inbound{kind: KindSearch, userID: userID, documentID: docID, query: query, content: content}
	case content != "" && filename != "":
		return NewUpload(userID, filename, content)
	case docID != "" || (mode != "" && content == ""):
		return Inbound{kind: KindAnalyze, userID: userID, documentID: docID, mode: mode, content: content}
	case content != "":
		return Inbound{kind: KindRawText, userID: userID, content: content, mode: mode}
	default:
		return Inbound{kind: KindUnknown, userID: userID}
	}
}

// Kind returns the resolved variant tag.
func (i *Inbound) Kind() Kind { return i.kind }

// UserID returns the raw (unnormalized) user identifier, if any.
func (i *Inbound) UserID() string { return i.userID }

// DocumentID returns the referenced document id, if any.
func (i *Inbound) DocumentID() string { return i.documentID }

// Content returns any recovered text content.
func (i *Inbound) Content() string { return i.content }

// Query returns the search query, if any.
func (i *Inbound) Query() string { return i.query }

// Mode returns the requested analysis operation, if any.
func (i *Inbound) Mode() string { return i.mode }

// Filename returns the upload filename, if any.
func (i *Inbound) Filename() string { return i.filename }

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok {
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// minRecoverableLen keeps short identifiers from being mistaken for
// document text during recovery.
const minRecoverableLen = 40

// longestString scans all string values (one level of nesting deep) for
// the longest one that plausibly is document text. Equal-length candidates
// tie-break lexicographically so recovery does not depend on map order.
func longestString(m map[string]any) string {
	best := ""
	var scan func(v any)
	scan = func(v any) {
		switch t := v.(type) {
		case string:
			s := strings.TrimSpace(t)
			if len(s) < minRecoverableLen {
				return
			}
			if len(s) > len(best) || (len(s) == len(best) && s < best) {
				best = s
			}
		case map[string]any:
			for _, inner := range t {
				if _, nested := inner.(map[string]any); nested {
					continue
				}
				scan(inner)
			}
		case []any:
			for _, inner := range t {
				scan(inner)
			}
		}
	}
	for _, v := range m {
		scan(v)
	}
	return best
}
