package textnorm

// Substitution is a literal replacement applied before any punctuation handling.
type Substitution struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Rule folds a phrase matched by Pattern (a regular expression, matched
// case-insensitively against the whole string) into Replacement.
type Rule struct {
	Pattern     string `json:"pattern"`
	Replacement string `json:"replacement"`
}

// Vocabulary holds the lookup tables that drive normalization.
// Tables are ordered: substitutions and rules apply in slice order,
// each one seeing the output of the previous.
type Vocabulary struct {
	SpecialTokens    []Substitution `json:"special_tokens"`
	CanonicalPhrases []Rule         `json:"canonical_phrases"`
	StopWords        []string       `json:"stop_words"`
}

// defaultSpecialTokens protects technology names whose symbols would
// otherwise be destroyed by punctuation stripping.
var defaultSpecialTokens = []Substitution{
	{From: "c++", To: "cpp"},
	{From: "c#", To: "csharp"},
	{From: ".net", To: "dotnet"},
}

var defaultCanonicalPhrases = []Rule{
	{Pattern: `\bci\s*[/\-]\s*cd\b`, Replacement: "ci_cd"},
	{Pattern: `\bcontinuous\s+integration\b`, Replacement: "ci_cd"},
	{Pattern: `\bcontinuous\s+delivery\b`, Replacement: "ci_cd"},
	{Pattern: `\brestful\b`, Replacement: "rest"},
	{Pattern: `\brest\s+api(s)?\b`, Replacement: "rest_api"},
	{Pattern: `\bapi\s+design\b`, Replacement: "api_design"},
	{Pattern: `\bmachine\s+learning\b`, Replacement: "machine_learning"},
	{Pattern: `\bml\b`, Replacement: "machine_learning"},
	{Pattern: `\blarge\s+language\s+model(s)?\b`, Replacement: "llm"},
	{Pattern: `\bllm(s)?\b`, Replacement: "llm"},
	{Pattern: `\bretrieval\s*[- ]\s*augmented\s*[- ]\s*generation\b`, Replacement: "rag"},
	{Pattern: `\brag\b`, Replacement: "rag"},
	{Pattern: `\bvector\s+db\b`, Replacement: "vector_database"},
	{Pattern: `\bvector\s+database\b`, Replacement: "vector_database"},
	{Pattern: `\bnode\.?js\b`, Replacement: "nodejs"},
	{Pattern: `\breact\.?js\b`, Replacement: "react"},
	{Pattern: `\bpostgre\s*sql\b`, Replacement: "postgresql"},
	{Pattern: `\baws\b`, Replacement: "aws"},
	{Pattern: `\bazure\b`, Replacement: "azure"},
}

var defaultStopWords = []string{
	// function words
	"a", "an", "and", "or", "the", "to", "of", "in", "for", "with", "on", "at", "by", "from",
	"as", "is", "are", "be", "will", "may", "must",
	// resume and job-posting filler
	"ability", "able", "strong", "excellent", "good", "proven", "demonstrated",
	"experience", "years", "year", "plus", "required", "preferred", "skills", "skill",
	"knowledge", "familiarity", "understanding", "hands", "hands-on",
	"develop", "developing", "development", "build", "building", "implement", "implementation",
}

// DefaultVocabulary returns a copy of the built-in tables. Callers may
// append to or edit the result freely before passing it to New.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		SpecialTokens:    append([]Substitution(nil), defaultSpecialTokens...),
		CanonicalPhrases: append([]Rule(nil), defaultCanonicalPhrases...),
		StopWords:        append([]string(nil), defaultStopWords...),
	}
}
