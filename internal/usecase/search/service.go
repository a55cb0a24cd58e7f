// Package search finds query matches in document text and returns ranked
// context windows.
package search

import (
	"sort"
	"unicode"

	domsearch "github.com/kailas-cloud/docsense/internal/domain/search"
)

// scanCap bounds how many raw matches are collected before ranking, so a
// one-letter query over a large document stays cheap.
const scanCap = 1000

// proximityWords are common surrounding keywords that modestly raise a
// match's score when they appear inside its context window.
var proximityWords = map[string]bool{
	"important": true, "key": true, "main": true, "significant": true,
	"critical": true, "essential": true, "primary": true, "major": true,
	"conclusion": true, "result": true, "summary": true, "note": true,
}

// proximityBonus is added per distinct proximity word in the window.
const proximityBonus = 0.1

// maxProximityBonus caps the total bonus so position stays the primary
// differentiator.
const maxProximityBonus = 0.5

// Service runs exact substring search. Pure and deterministic: repeated
// identical calls return identical hit sequences.
type Service struct{}

// New creates a search service.
func New() *Service {
	return &Service{}
}

// Search returns hits ranked by score descending, earliest position
// ascending on ties. Zero matches is a valid result (empty slice).
// Matches do not overlap; offsets and windows are measured in runes.
func (s *Service) Search(documentID, content string, req *domsearch.Request) []domsearch.Hit {
	if content == "" {
		return nil
	}

	haystack := []rune(content)
	needle := []rune(req.Query())
	if !req.CaseSensitive() {
		haystack = lowerRunes(haystack)
		needle = lowerRunes(needle)
	}
	if len(needle) == 0 || len(needle) > len(haystack) {
		return nil
	}

	original := []rune(content)
	var hits []domsearch.Hit
	for pos := 0; pos+len(needle) <= len(haystack) && len(hits) < scanCap; {
		idx := indexRunes(haystack[pos:], needle)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(needle)

		ctxStart := start - req.ContextChars()
		if ctxStart < 0 {
			ctxStart = 0
		}
		ctxEnd := end + req.ContextChars()
		if ctxEnd > len(original) {
			ctxEnd = len(original)
		}
		window := original[ctxStart:ctxEnd]

		hits = append(hits, domsearch.NewHit(
			documentID, start, end, string(window), score(haystack[ctxStart:ctxEnd]),
		))
		pos = end
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		return hits[i].Start() < hits[j].Start()
	})

	if len(hits) > req.MaxHits() {
		hits = hits[:req.MaxHits()]
	}
	return hits
}

// score computes 1.0 plus a modest proximity bonus for cue words inside
// the (case-folded) context window.
func score(window []rune) float64 {
	bonus := 0.0
	seen := map[string]bool{}
	for _, w := range fieldsRunes(lowerRunes(window)) {
		if proximityWords[w] && !seen[w] {
			seen[w] = true
			bonus += proximityBonus
		}
	}
	if bonus > maxProximityBonus {
		bonus = maxProximityBonus
	}
	return 1.0 + bonus
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

// indexRunes is a naive substring search over rune slices.
func indexRunes(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		j := 0
		for ; j < len(needle); j++ {
			if haystack[i+j] != needle[j] {
				break
			}
		}
		if j == len(needle) {
			return i
		}
	}
	return -1
}

// fieldsRunes splits a rune window into lowercase words.
func fieldsRunes(rs []rune) []string {
	var words []string
	start := -1
	for i, r := range rs {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			words = append(words, string(rs[start:i]))
			start = -1
		}
	}
	if start >= 0 {
		words = append(words, string(rs[start:]))
	}
	return words
}
