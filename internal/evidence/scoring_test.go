package evidence

import (
	"testing"

	"github.com/jonathan/evidence-matcher/internal/textnorm"
	"github.com/stretchr/testify/assert"
)

func set(tokens ...string) textnorm.TokenSet {
	s := make(textnorm.TokenSet, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     textnorm.TokenSet
		expected float64
	}{
		{"both empty", set(), set(), 0},
		{"one empty", set("go"), set(), 0},
		{"identical", set("go", "docker"), set("go", "docker"), 1},
		{"disjoint", set("go"), set("rust"), 0},
		{"half", set("go", "docker"), set("go", "k8s", "docker", "helm"), 0.5},
		{"one of three", set("a", "b"), set("b", "c"), 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Jaccard(tt.a, tt.b), 1e-12)
			assert.InDelta(t, tt.expected, Jaccard(tt.b, tt.a), 1e-12)
		})
	}
}

func TestJaccard_NormalizedEmptyStrings(t *testing.T) {
	assert.Equal(t, 0.0, Jaccard(textnorm.Normalize(""), textnorm.Normalize("")))
}

func TestBlend(t *testing.T) {
	assert.InDelta(t, 1.0, Blend(1, 1, DefaultWeights()), 1e-12)
	assert.InDelta(t, 0.0, Blend(0, 0, DefaultWeights()), 1e-12)
	assert.InDelta(t, 0.4, Blend(1, 0, DefaultWeights()), 1e-12)
	assert.InDelta(t, 0.6, Blend(0, 1, DefaultWeights()), 1e-12)
	assert.InDelta(t, 0.5, Blend(0.5, 0.5, Weights{Overlap: 0.5, Fuzzy: 0.5}), 1e-12)
}

func TestAccept_Boundary(t *testing.T) {
	assert.True(t, Accept(0.40, DefaultThreshold))
	assert.True(t, Accept(0.41, DefaultThreshold))
	assert.False(t, Accept(0.399999, DefaultThreshold))
	assert.False(t, Accept(0, DefaultThreshold))

	// 0.4*0.25 + 0.6*0.5 lands on the threshold only up to float error
	assert.True(t, Accept(Blend(0.25, 0.5, DefaultWeights()), DefaultThreshold))
}
