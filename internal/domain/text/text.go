// Package text segments raw document text into paragraphs, sentences,
// and tokens. All functions are pure; empty input yields empty output.
package text

import (
	"strings"
	"unicode"
)

// Normalized is the segmented form of a raw document (immutable value object).
type Normalized struct {
	raw        string
	paragraphs []string
	sentences  []string
	tokens     []string
	charCount  int
	wordCount  int
}

// Normalize segments raw text. Whitespace-only input produces all-empty
// collections, never an error.
func Normalize(raw string) Normalized {
	n := Normalized{
		raw:        raw,
		paragraphs: splitParagraphs(raw),
		sentences:  splitSentences(raw),
		tokens:     tokenize(raw),
	}
	if strings.TrimSpace(raw) != "" {
		n.charCount = len([]rune(raw))
	}
	n.wordCount = len(n.tokens)
	return n
}

// Raw returns the original unsegmented text.
func (n *Normalized) Raw() string { return n.raw }

// Paragraphs returns the blank-line separated paragraphs, in order.
func (n *Normalized) Paragraphs() []string { return n.paragraphs }

// Sentences returns the detected sentences, in order.
func (n *Normalized) Sentences() []string { return n.sentences }

// Tokens returns the whitespace-delimited tokens with edge punctuation
// stripped, in order.
func (n *Normalized) Tokens() []string { return n.tokens }

// CharCount returns the rune count of the raw text (0 for whitespace-only input).
func (n *Normalized) CharCount() int { return n.charCount }

// WordCount returns the token count.
func (n *Normalized) WordCount() int { return n.wordCount }

// IsEmpty reports whether the input carried no usable text.
func (n *Normalized) IsEmpty() bool { return n.wordCount == 0 }

// splitParagraphs splits on blank-line boundaries. Lines containing only
// whitespace count as blank.
func splitParagraphs(raw string) []string {
	var paragraphs []string
	var current []string

	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, "\n"))
			current = current[:0]
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t\r"))
	}
	flush()
	return paragraphs
}

// splitSentences splits on terminal punctuation (. ! ?) not followed by a
// lowercase letter. The immediate lowercase/digit guard keeps abbreviation
// interiors ("e.g") and decimals ("3.5") intact; the post-whitespace
// lowercase guard keeps abbreviation tails ("e.g. foo") intact. Uppercase
// abbreviations ("U.S. Army") still over-split, and a sentence legitimately
// starting lowercase merges into its predecessor; both are accepted
// approximations.
func splitSentences(raw string) []string {
	runes := []rune(raw)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		// Group runs of terminal punctuation ("?!", "...") into one boundary.
		if i+1 < len(runes) && isTerminal(runes[i+1]) {
			continue
		}
		if i+1 < len(runes) {
			next := runes[i+1]
			if unicode.IsLower(next) || unicode.IsDigit(next) {
				continue
			}
		}
		if r, ok := nextNonSpace(runes, i+1); ok && unicode.IsLower(r) {
			continue
		}
		if s := strings.TrimSpace(string(runes[start : i+1])); s != "" {
			sentences = append(sentences, s)
		}
		start = i + 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// tokenize splits on whitespace and strips punctuation from token edges
// only. Interior punctuation ("don't", "foo.bar") is preserved. Tokens
// that were pure punctuation are dropped.
func tokenize(raw string) []string {
	fields := strings.Fields(raw)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// nextNonSpace returns the first non-whitespace rune at or after index i.
func nextNonSpace(runes []rune, i int) (rune, bool) {
	for ; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) {
			return runes[i], true
		}
	}
	return 0, false
}
