package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/evidence-matcher/internal/schemas"
	"github.com/jonathan/evidence-matcher/internal/textnorm"
	schemafiles "github.com/jonathan/evidence-matcher/schemas"
)

// vocabularyFile mirrors textnorm.Vocabulary but keeps absent tables
// distinguishable from empty ones.
type vocabularyFile struct {
	SpecialTokens    *[]textnorm.Substitution `json:"special_tokens"`
	CanonicalPhrases *[]textnorm.Rule         `json:"canonical_phrases"`
	StopWords        *[]string                `json:"stop_words"`
	ExtraStopWords   []string                 `json:"extra_stop_words"`
	ExtraPhrases     []textnorm.Rule          `json:"extra_canonical_phrases"`
}

// LoadVocabulary reads a vocabulary override. Tables present in the file
// replace the defaults; extra_* tables are appended to whatever is in effect.
func LoadVocabulary(path string) (textnorm.Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return textnorm.Vocabulary{}, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}

	var file vocabularyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return textnorm.Vocabulary{}, fmt.Errorf("failed to parse vocabulary JSON: %w", err)
	}
	if err := schemas.Validate(schemafiles.Vocabulary, data); err != nil {
		return textnorm.Vocabulary{}, fmt.Errorf("invalid vocabulary file %s: %w", path, err)
	}

	vocab := textnorm.DefaultVocabulary()
	if file.SpecialTokens != nil {
		vocab.SpecialTokens = *file.SpecialTokens
	}
	if file.CanonicalPhrases != nil {
		vocab.CanonicalPhrases = *file.CanonicalPhrases
	}
	if file.StopWords != nil {
		vocab.StopWords = *file.StopWords
	}
	vocab.CanonicalPhrases = append(vocab.CanonicalPhrases, file.ExtraPhrases...)
	vocab.StopWords = append(vocab.StopWords, file.ExtraStopWords...)

	return vocab, nil
}
