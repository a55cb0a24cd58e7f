package analyze

import "github.com/kailas-cloud/docsense/internal/domain/category"

// strategy holds the per-category emphasis weights for sentence scoring.
// Only the weights differ across categories; control flow and artifact
// shape stay uniform so callers never branch on category.
type strategy struct {
	positionWeight float64
	densityWeight  float64
	cueWeight      float64
}

// strategyTable maps Category to its emphasis. Code de-emphasizes
// narrative position (source order carries little salience), papers lean
// on position (abstract and conclusion sentences lead sections), business
// documents lean on cue words (action/decision phrasing).
var strategyTable = map[category.Category]strategy{
	category.Code:             {positionWeight: 0.4, densityWeight: 1.2, cueWeight: 0.1},
	category.ResearchPaper:    {positionWeight: 1.2, densityWeight: 0.8, cueWeight: 0.3},
	category.BusinessDocument: {positionWeight: 0.8, densityWeight: 0.8, cueWeight: 0.6},
	category.General:          {positionWeight: 1.0, densityWeight: 1.0, cueWeight: 0.3},
}

// strategyFor returns the category strategy, falling back to General.
func strategyFor(cat category.Category) strategy {
	if st, ok := strategyTable[cat]; ok {
		return st
	}
	return strategyTable[category.General]
}
