package classify

import (
	"strings"

	"github.com/kailas-cloud/docsense/internal/domain/category"
	"github.com/kailas-cloud/docsense/internal/domain/text"
)

// docView precomputes the structural features signals match against, so
// every signal evaluation stays O(1).
type docView struct {
	lower            string
	lowerTokens      map[string]int
	lineCount        int
	indentedLines    int
	semicolonLines   int
	bulletLines      int
	punctDensity     float64
	parenPairs       int
	bracketRefs      int
	commentLines     int
	digitHeavyTokens int
}

func newDocView(n *text.Normalized, raw string) *docView {
	v := &docView{
		lower:       strings.ToLower(raw),
		lowerTokens: make(map[string]int, n.WordCount()),
	}
	for _, t := range n.Tokens() {
		v.lowerTokens[strings.ToLower(t)]++
		if digitRatio(t) > 0.5 {
			v.digitHeavyTokens++
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		v.lineCount++
		if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			v.indentedLines++
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, ";") || strings.HasSuffix(trimmed, "{") || strings.HasSuffix(trimmed, "}") {
			v.semicolonLines++
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") || strings.HasPrefix(trimmed, "• ") {
			v.bulletLines++
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "/*") {
			v.commentLines++
		}
	}

	if len(raw) > 0 {
		var punct int
		for _, r := range raw {
			switch r {
			case '{', '}', ';', '=', '<', '>':
				punct++
			case '(', ')':
				punct++
				if r == '(' {
					v.parenPairs++
				}
			case '[':
				v.bracketRefs++
			}
		}
		v.punctDensity = float64(punct) / float64(len(raw))
	}
	return v
}

func digitRatio(token string) float64 {
	if token == "" {
		return 0
	}
	var digits int
	for _, r := range token {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits) / float64(len([]rune(token)))
}

// hasAnyToken reports whether any of the words appears as a token.
func (v *docView) hasAnyToken(words ...string) bool {
	for _, w := range words {
		if v.lowerTokens[w] > 0 {
			return true
		}
	}
	return false
}

// tokenHits counts how many of the words appear as tokens at least once.
func (v *docView) tokenHits(words ...string) int {
	var hits int
	for _, w := range words {
		if v.lowerTokens[w] > 0 {
			hits++
		}
	}
	return hits
}

func (v *docView) containsAny(phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(v.lower, p) {
			return true
		}
	}
	return false
}

func (v *docView) lineRatio(count int) float64 {
	if v.lineCount == 0 {
		return 0
	}
	return float64(count) / float64(v.lineCount)
}

// signal is one weighted classification marker. Matching adds the fixed
// weight to the category's aggregate score.
type signal struct {
	name   string
	weight float64
	match  func(v *docView) bool
}

var codeKeywords = []string{
	"func", "def", "return", "import", "class", "var", "const", "package",
	"public", "private", "void", "static", "struct", "interface", "elif",
	"nil", "null", "true", "false", "lambda", "fn",
}

var codeSignals = []signal{
	{name: "keyword_tokens", weight: 2.0, match: func(v *docView) bool {
		return v.tokenHits(codeKeywords...) >= 2
	}},
	{name: "punct_density", weight: 2.0, match: func(v *docView) bool {
		return v.punctDensity > 0.02
	}},
	{name: "statement_lines", weight: 1.5, match: func(v *docView) bool {
		return v.lineRatio(v.semicolonLines) > 0.2
	}},
	{name: "indentation", weight: 1.0, match: func(v *docView) bool {
		return v.lineRatio(v.indentedLines) > 0.25
	}},
	{name: "comment_lines", weight: 1.0, match: func(v *docView) bool {
		return v.lineRatio(v.commentLines) > 0.1
	}},
	{name: "call_sites", weight: 0.5, match: func(v *docView) bool {
		return v.parenPairs >= 5
	}},
}

var paperSignals = []signal{
	{name: "abstract", weight: 2.5, match: func(v *docView) bool {
		return v.hasAnyToken("abstract")
	}},
	{name: "references", weight: 2.0, match: func(v *docView) bool {
		return v.containsAny("references", "bibliography")
	}},
	{name: "citations", weight: 1.5, match: func(v *docView) bool {
		return v.containsAny("et al", "doi:", "arxiv") || v.bracketRefs >= 5
	}},
	{name: "section_headers", weight: 1.5, match: func(v *docView) bool {
		return v.tokenHits("introduction", "methodology", "conclusion", "hypothesis", "experiment", "results") >= 2
	}},
	{name: "academic_prose", weight: 0.5, match: func(v *docView) bool {
		return v.containsAny("we propose", "we present", "this paper", "this study")
	}},
}

var businessSignals = []signal{
	{name: "meeting_terms", weight: 2.0, match: func(v *docView) bool {
		return v.tokenHits("meeting", "agenda", "attendees", "minutes") >= 1
	}},
	{name: "action_items", weight: 2.0, match: func(v *docView) bool {
		return v.containsAny("action item", "action items", "follow up", "follow-up", "next steps")
	}},
	{name: "business_terms", weight: 1.5, match: func(v *docView) bool {
		return v.tokenHits("revenue", "quarterly", "stakeholder", "stakeholders", "budget", "forecast", "kpi", "roi") >= 2
	}},
	{name: "deadline_terms", weight: 1.0, match: func(v *docView) bool {
		return v.tokenHits("deadline", "due", "milestone", "deliverable", "deliverables") >= 1
	}},
	{name: "date_heavy", weight: 1.0, match: func(v *docView) bool {
		return v.digitHeavyTokens >= 5 && v.bulletLines >= 2
	}},
	{name: "bullet_structure", weight: 0.5, match: func(v *docView) bool {
		return v.lineRatio(v.bulletLines) > 0.3
	}},
}

// signalTable maps each non-fallback category to its markers.
var signalTable = map[category.Category][]signal{
	category.Code:             codeSignals,
	category.ResearchPaper:    paperSignals,
	category.BusinessDocument: businessSignals,
}
