package evidence

import (
	"context"
	"runtime"

	"github.com/jonathan/evidence-matcher/internal/fuzzy"
	"github.com/jonathan/evidence-matcher/internal/textnorm"
	"github.com/jonathan/evidence-matcher/internal/types"
	"golang.org/x/sync/errgroup"
)

// SimilarityFunc scores two raw phrases in [0, 1].
type SimilarityFunc func(a, b string) float64

// Config holds the tunable matcher settings.
type Config struct {
	Threshold   float64 `json:"threshold"`
	Weights     Weights `json:"weights"`
	Concurrency int     `json:"concurrency"` // projects scored in parallel; <= 0 means GOMAXPROCS
}

// DefaultConfig returns the standard threshold and weights.
func DefaultConfig() Config {
	return Config{
		Threshold: DefaultThreshold,
		Weights:   DefaultWeights(),
	}
}

// Validate checks that threshold and weights are within [0, 1].
func (c Config) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigError{Field: "threshold", Message: "must be between 0 and 1"}
	}
	if c.Weights.Overlap < 0 || c.Weights.Overlap > 1 {
		return &ConfigError{Field: "weights.overlap", Message: "must be between 0 and 1"}
	}
	if c.Weights.Fuzzy < 0 || c.Weights.Fuzzy > 1 {
		return &ConfigError{Field: "weights.fuzzy", Message: "must be between 0 and 1"}
	}
	return nil
}

// Matcher scores every achievement against every requirement.
// It is stateless after construction and safe for concurrent use.
type Matcher struct {
	cfg        Config
	normalizer *textnorm.Normalizer
	fuzzy      SimilarityFunc
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithNormalizer replaces the default vocabulary.
func WithNormalizer(n *textnorm.Normalizer) Option {
	return func(m *Matcher) {
		m.normalizer = n
	}
}

// WithFuzzy replaces the fuzzy similarity channel.
func WithFuzzy(f SimilarityFunc) Option {
	return func(m *Matcher) {
		m.fuzzy = f
	}
}

// NewMatcher validates cfg and builds a Matcher.
func NewMatcher(cfg Config, opts ...Option) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Matcher{
		cfg:        cfg,
		normalizer: textnorm.Default(),
		fuzzy:      fuzzy.TokenSetRatio,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Config returns the settings the matcher was built with.
func (m *Matcher) Config() Config {
	return m.cfg
}

// Score computes the overlap, fuzzy and blended scores for one pair.
func (m *Matcher) Score(achievement, requirement string) Score {
	return m.score(m.normalizer.Normalize(achievement), achievement, requirement)
}

func (m *Matcher) score(achievementTokens textnorm.TokenSet, achievement, requirement string) Score {
	overlap := Jaccard(achievementTokens, m.normalizer.Normalize(requirement))
	fz := m.fuzzy(achievement, requirement)
	return Score{
		Overlap: overlap,
		Fuzzy:   fz,
		Blended: Blend(overlap, fz, m.cfg.Weights),
	}
}

// Match evaluates the full cross product of achievements and requirements.
// Output order is project, then listing, then achievement, then requirement,
// regardless of how the work was scheduled.
func (m *Matcher) Match(ctx context.Context, projects []types.Project, listings []types.JobListing) (types.MatchCollection, error) {
	perProject := make([]types.MatchCollection, len(projects))

	g, ctx := errgroup.WithContext(ctx)
	limit := m.cfg.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(limit)

	for i := range projects {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			perProject[i] = m.matchProject(&projects[i], listings)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, c := range perProject {
		total += len(c)
	}
	out := make(types.MatchCollection, 0, total)
	for _, c := range perProject {
		out = append(out, c...)
	}
	return out, nil
}

// matchProject scores one project against every listing.
func (m *Matcher) matchProject(project *types.Project, listings []types.JobListing) types.MatchCollection {
	// achievement token sets are reused across listings
	achievementTokens := make([]textnorm.TokenSet, len(project.Achievements))
	for i, a := range project.Achievements {
		achievementTokens[i] = m.normalizer.Normalize(a)
	}

	var matches types.MatchCollection
	for li := range listings {
		listing := &listings[li]
		for ai, achievement := range project.Achievements {
			for _, requirement := range listing.Qualifications {
				s := m.score(achievementTokens[ai], achievement, requirement)
				if !Accept(s.Blended, m.cfg.Threshold) {
					continue
				}
				matches = append(matches, types.Match{
					ProjectTitle:       project.Title,
					ProjectAchievement: achievement,
					JobTitle:           listing.JobTitle,
					CompanyName:        listing.EmployerName,
					Qualification:      requirement,
				})
			}
		}
	}
	return matches
}
