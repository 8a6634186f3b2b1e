// Package evidence decides which project achievements count as evidence for
// which job requirements.
package evidence

import "github.com/jonathan/evidence-matcher/internal/textnorm"

// Default scoring constants
const (
	DefaultOverlapWeight = 0.4
	DefaultFuzzyWeight   = 0.6
	DefaultThreshold     = 0.40

	// scoreTolerance absorbs float error when a blended score lands on the threshold.
	scoreTolerance = 1e-9
)

// Weights controls how the two similarity channels combine.
type Weights struct {
	Overlap float64 `json:"overlap"`
	Fuzzy   float64 `json:"fuzzy"`
}

// DefaultWeights returns the tuned 0.4 / 0.6 split.
func DefaultWeights() Weights {
	return Weights{Overlap: DefaultOverlapWeight, Fuzzy: DefaultFuzzyWeight}
}

// Score holds the sub-scores for one achievement/requirement pair.
type Score struct {
	Overlap float64 `json:"overlap"`
	Fuzzy   float64 `json:"fuzzy"`
	Blended float64 `json:"blended"`
}

// Jaccard returns |a ∩ b| / |a ∪ b|. Two empty sets score 0.
func Jaccard(a, b textnorm.TokenSet) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}

	intersection := 0
	for t := range a {
		if b.Has(t) {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Blend combines the overlap and fuzzy scores linearly.
func Blend(overlap, fuzzy float64, w Weights) float64 {
	return w.Overlap*overlap + w.Fuzzy*fuzzy
}

// Accept reports whether a blended score clears the threshold.
func Accept(score, threshold float64) bool {
	return score >= threshold-scoreTolerance
}
