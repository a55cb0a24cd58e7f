package analyze

import (
	"sort"
	"strings"
	"unicode"
)

// cueWords mark sentences likely to carry a document's main points.
var cueWords = map[string]bool{
	"important": true, "key": true, "main": true, "significant": true,
	"critical": true, "essential": true, "primary": true, "major": true,
	"conclusion": true, "result": true,
}

// stopWords are excluded from keyword density and word frequency.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"of": true, "to": true, "in": true, "on": true, "at": true, "for": true,
	"is": true, "are": true, "was": true, "were": true, "be": true, "been": true,
	"it": true, "its": true, "this": true, "that": true, "with": true,
	"as": true, "by": true, "from": true, "we": true, "our": true,
}

// scoredSentence pairs a sentence with its position and score.
type scoredSentence struct {
	index    int
	sentence string
	score    float64
}

// scoreSentences ranks sentences by position bias (earlier is better),
// keyword density relative to the whole document, and cue word presence,
// weighted per category strategy. Deterministic for identical input.
func scoreSentences(sentences []string, freq map[string]int, maxFreq int, st strategy) []scoredSentence {
	scored := make([]scoredSentence, len(sentences))
	for i, s := range sentences {
		scored[i] = scoredSentence{
			index:    i,
			sentence: s,
			score:    sentenceScore(i, s, freq, maxFreq, st),
		}
	}
	return scored
}

func sentenceScore(index int, sentence string, freq map[string]int, maxFreq int, st strategy) float64 {
	score := st.positionWeight / float64(1+index)

	tokens := contentTokens(sentence)
	if len(tokens) > 0 && maxFreq > 0 {
		var density float64
		var cued bool
		for _, t := range tokens {
			density += float64(freq[t]) / float64(maxFreq)
			if cueWords[t] {
				cued = true
			}
		}
		score += st.densityWeight * density / float64(len(tokens))
		if cued {
			score += st.cueWeight
		}
	}
	return score
}

// topSentences returns the n highest scoring sentences in their original
// document order. Score ties break by earlier position.
func topSentences(scored []scoredSentence, n int) []string {
	if n > len(scored) {
		n = len(scored)
	}
	byScore := make([]scoredSentence, len(scored))
	copy(byScore, scored)
	sort.SliceStable(byScore, func(i, j int) bool {
		if byScore[i].score != byScore[j].score {
			return byScore[i].score > byScore[j].score
		}
		return byScore[i].index < byScore[j].index
	})

	picked := byScore[:n]
	sort.Slice(picked, func(i, j int) bool { return picked[i].index < picked[j].index })

	out := make([]string, len(picked))
	for i, s := range picked {
		out[i] = s.sentence
	}
	return out
}

// wordFrequency counts lowercased content tokens.
func wordFrequency(tokens []string) (map[string]int, int) {
	freq := make(map[string]int, len(tokens))
	maxFreq := 0
	for _, t := range tokens {
		w := strings.ToLower(t)
		if stopWords[w] || len(w) < 2 {
			continue
		}
		freq[w]++
		if freq[w] > maxFreq {
			maxFreq = freq[w]
		}
	}
	return freq, maxFreq
}

// topWords returns the n most frequent words, count descending,
// alphabetical on ties so output is stable.
func topWords(freq map[string]int, n int) []string {
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if n < len(words) {
		words = words[:n]
	}
	return words
}

// contentTokens lowercases and strips a sentence down to its content words.
func contentTokens(sentence string) []string {
	fields := strings.Fields(sentence)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		t := strings.ToLower(strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		}))
		if t == "" || stopWords[t] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// maxPhraseWords caps a key point phrase length.
const maxPhraseWords = 12

// reduceToPhrase trims a sentence to a short phrase: the first clause,
// capped at maxPhraseWords words, terminal punctuation dropped.
func reduceToPhrase(sentence string) string {
	clause := sentence
	if i := strings.IndexAny(sentence, ",;:"); i > 0 {
		clause = sentence[:i]
	}
	words := strings.Fields(clause)
	if len(words) > maxPhraseWords {
		words = words[:maxPhraseWords]
	}
	return strings.TrimRight(strings.Join(words, " "), ".!?")
}
