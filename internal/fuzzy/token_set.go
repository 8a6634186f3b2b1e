// Package fuzzy provides character-level similarity scores over raw phrases.
//
// TokenSetRatio is the token-set variant of an LCS (insert/delete) ratio:
// both strings are reduced to sorted unique tokens, and the shared tokens
// are compared against each side's remainder. Word order and repeated words
// do not affect the score, and a phrase whose words are a subset of the
// other's scores 1.0.
package fuzzy

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// TokenSetRatio returns the token-set similarity of a and b in [0, 1],
// rounded to whole percent. Either side being empty after processing
// scores 0.
func TokenSetRatio(a, b string) float64 {
	return math.RoundToEven(tokenSetPercent(process(a), process(b))) / 100
}

func tokenSetPercent(a, b string) float64 {
	setA := uniqueTokens(a)
	setB := uniqueTokens(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	var intersect, diffAB, diffBA []string
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersect = append(intersect, t)
		} else {
			diffAB = append(diffAB, t)
		}
	}
	for t := range setB {
		if _, ok := setA[t]; !ok {
			diffBA = append(diffBA, t)
		}
	}

	if len(intersect) > 0 && (len(diffAB) == 0 || len(diffBA) == 0) {
		return 100
	}

	sort.Strings(intersect)
	sort.Strings(diffAB)
	sort.Strings(diffBA)

	ab := []rune(strings.Join(diffAB, " "))
	ba := []rune(strings.Join(diffBA, " "))

	sectLen := utf8.RuneCountInString(strings.Join(intersect, " "))
	sep := 0
	if sectLen > 0 {
		sep = 1
	}
	sectABLen := sectLen + sep + len(ab)
	sectBALen := sectLen + sep + len(ba)

	// "sect ab" vs "sect ba" share their prefix, so their distance is the
	// distance between the remainders.
	result := normalizedSimilarity(indelDistance(ab, ba), sectABLen+sectBALen)
	if sectLen == 0 {
		return result
	}

	// "sect" vs "sect ab" differ only by the appended remainder.
	sectABRatio := normalizedSimilarity(sep+len(ab), sectLen+sectABLen)
	sectBARatio := normalizedSimilarity(sep+len(ba), sectLen+sectBALen)

	return max(result, sectABRatio, sectBARatio)
}

func normalizedSimilarity(dist, lensum int) float64 {
	if lensum == 0 {
		return 100
	}
	return 100 - 100*float64(dist)/float64(lensum)
}

// indelDistance is the number of insertions and deletions needed to turn
// a into b: len(a) + len(b) - 2*LCS(a, b).
func indelDistance(a, b []rune) int {
	return len(a) + len(b) - 2*longestCommonSubsequence(a, b)
}

func longestCommonSubsequence(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else {
				curr[j] = max(prev[j], curr[j-1])
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func uniqueTokens(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// latin1 matches the U+0080..U+00FF block, which processing drops outright.
var latin1 = runes.Predicate(func(r rune) bool {
	return r >= 0x80 && r <= 0xff
})

// process drops Latin-1 supplement runes, turns every rune that is not a
// letter, number or underscore into a space, lowercases and trims.
// Letters outside Latin-1 (Greek, CJK, ...) are kept.
func process(s string) string {
	// transformers carry state, so each call builds its own
	stripped, _, err := transform.String(runes.Remove(latin1), s)
	if err != nil {
		stripped = s
	}

	var sb strings.Builder
	sb.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), r == '_':
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}
