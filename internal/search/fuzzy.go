package search

import "github.com/sahilm/fuzzy"

// Scorer rates how well term matches text. The boolean is false when the
// term does not match at all.
type Scorer func(text, term string) (int, bool)

// FuzzyScore scores term against text with sahilm/fuzzy.
func FuzzyScore(text, term string) (int, bool) {
	matches := fuzzy.Find(term, []string{text})
	if len(matches) == 0 {
		return 0, false
	}
	return matches[0].Score, true
}
