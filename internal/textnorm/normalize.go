// Package textnorm turns free-text achievement and requirement phrases into
// canonical token sets suitable for overlap scoring.
package textnorm

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ngramSeparator joins adjacent tokens into bigrams and trigrams.
const ngramSeparator = "_"

var (
	reWordJoiners = regexp.MustCompile(`[/\-]`)
	reDisallowed  = regexp.MustCompile(`[^a-z0-9_\s]`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// TokenSet is an unordered set of canonical tokens (unigrams, bigrams and trigrams).
type TokenSet map[string]struct{}

// Has reports whether token is in the set.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Len returns the number of distinct tokens.
func (s TokenSet) Len() int {
	return len(s)
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type compiledRule struct {
	re          *regexp.Regexp
	replacement string
}

// Normalizer applies a Vocabulary. It holds no mutable state and is safe
// for concurrent use.
type Normalizer struct {
	special   []Substitution
	phrases   []compiledRule
	stopWords map[string]struct{}
}

// New compiles a Vocabulary into a Normalizer.
func New(v Vocabulary) (*Normalizer, error) {
	n := &Normalizer{
		special:   append([]Substitution(nil), v.SpecialTokens...),
		phrases:   make([]compiledRule, 0, len(v.CanonicalPhrases)),
		stopWords: make(map[string]struct{}, len(v.StopWords)),
	}

	for i, rule := range v.CanonicalPhrases {
		re, err := regexp.Compile("(?i)" + rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("canonical phrase %d (%q): %w", i, rule.Pattern, err)
		}
		n.phrases = append(n.phrases, compiledRule{re: re, replacement: rule.Replacement})
	}

	for _, w := range v.StopWords {
		n.stopWords[strings.ToLower(w)] = struct{}{}
	}

	return n, nil
}

var defaultNormalizer = mustNew(DefaultVocabulary())

func mustNew(v Vocabulary) *Normalizer {
	n, err := New(v)
	if err != nil {
		panic(err)
	}
	return n
}

// Default returns the Normalizer built from DefaultVocabulary.
func Default() *Normalizer {
	return defaultNormalizer
}

// Normalize runs text through the default vocabulary.
func Normalize(text string) TokenSet {
	return defaultNormalizer.Normalize(text)
}

// Normalize returns the canonical token set for text. Empty or
// all-filler input yields an empty set.
func (n *Normalizer) Normalize(text string) TokenSet {
	tokens := n.Tokens(text)

	set := make(TokenSet, len(tokens)*3)
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	addNgrams(set, tokens, 2)
	addNgrams(set, tokens, 3)

	return set
}

// Tokens returns the ordered unigram sequence that Normalize builds its
// set from: canonicalized, stop words removed and suffixes stripped.
func (n *Normalizer) Tokens(text string) []string {
	cleaned := n.canonicalize(text)
	if cleaned == "" {
		return nil
	}

	fields := strings.Split(cleaned, " ")
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		if _, stop := n.stopWords[f]; stop {
			continue
		}
		tokens = append(tokens, stripSuffix(f))
	}
	return tokens
}

// canonicalize performs the string-level rewriting steps, returning a
// single-space separated string.
func (n *Normalizer) canonicalize(text string) string {
	text = strings.TrimSpace(strings.ToLower(text))

	for _, sub := range n.special {
		if sub.From == "" {
			continue
		}
		text = strings.ReplaceAll(text, sub.From, sub.To)
	}

	for _, rule := range n.phrases {
		text = rule.re.ReplaceAllLiteralString(text, rule.replacement)
	}

	text = strings.ReplaceAll(text, "&", " and ")
	text = reWordJoiners.ReplaceAllString(text, " ")
	text = reDisallowed.ReplaceAllString(text, " ")
	text = reSpaces.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// stripSuffix folds plurals, then removes at most one of -ing / -ed from
// long tokens. It is not a stemmer.
func stripSuffix(t string) string {
	switch {
	case len(t) > 4 && strings.HasSuffix(t, "ies"):
		t = t[:len(t)-3] + "y"
	case len(t) > 3 && strings.HasSuffix(t, "s") && !strings.HasSuffix(t, "ss"):
		t = t[:len(t)-1]
	}

	for _, suffix := range []string{"ing", "ed"} {
		if len(t) > 5 && strings.HasSuffix(t, suffix) {
			return t[:len(t)-len(suffix)]
		}
	}
	return t
}

func addNgrams(set TokenSet, tokens []string, n int) {
	if len(tokens) < n {
		return
	}
	for i := 0; i+n <= len(tokens); i++ {
		set[strings.Join(tokens[i:i+n], ngramSeparator)] = struct{}{}
	}
}
