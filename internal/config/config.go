// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/evidence-matcher/internal/evidence"
	"github.com/jonathan/evidence-matcher/internal/textnorm"
)

// Config represents settings that can be loaded from a JSON file or the environment.
// All fields are optional; missing values fall back to Defaults.
type Config struct {
	// Matching
	Threshold      *float64 `json:"threshold,omitempty"`      // Minimum blended score for a match
	OverlapWeight  *float64 `json:"overlap_weight,omitempty"` // Weight of the token-overlap channel
	FuzzyWeight    *float64 `json:"fuzzy_weight,omitempty"`   // Weight of the fuzzy channel
	Concurrency    int      `json:"concurrency,omitempty"`    // Projects scored in parallel
	VocabularyPath string   `json:"vocabulary,omitempty"`     // Path to a JSON vocabulary override

	// Server
	Port           int      `json:"port,omitempty"`
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
	DatabaseURL    string   `json:"database_url,omitempty"`
	RedisAddr      string   `json:"redis_addr,omitempty"`
	RedisDB        int      `json:"redis_db,omitempty"`
	CacheTTL       int      `json:"cache_ttl_seconds,omitempty"`

	// Behavior
	Verbose  bool `json:"verbose,omitempty"`
	LogJSON  bool `json:"log_json,omitempty"`
	LogDebug bool `json:"log_debug,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	threshold := evidence.DefaultThreshold
	overlap := evidence.DefaultOverlapWeight
	fz := evidence.DefaultFuzzyWeight
	return Config{
		Threshold:      &threshold,
		OverlapWeight:  &overlap,
		FuzzyWeight:    &fz,
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000"},
		RedisAddr:      "localhost:6379",
		CacheTTL:       3600,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("config error: 'cache_ttl_seconds' must be non-negative")
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("config error: 'redis_db' must be non-negative")
	}

	if c.VocabularyPath != "" {
		if _, err := os.Stat(c.VocabularyPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: vocabulary file not found: %s", c.VocabularyPath)
		}
	}

	// Matcher ranges are checked by the matcher itself
	mc := c.Matcher()
	if err := mc.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from defaults.
// Values already set on c win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Threshold == nil {
		result.Threshold = defaults.Threshold
	}
	if result.OverlapWeight == nil {
		result.OverlapWeight = defaults.OverlapWeight
	}
	if result.FuzzyWeight == nil {
		result.FuzzyWeight = defaults.FuzzyWeight
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.VocabularyPath == "" {
		result.VocabularyPath = defaults.VocabularyPath
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisAddr == "" {
		result.RedisAddr = defaults.RedisAddr
	}
	if result.RedisDB == 0 {
		result.RedisDB = defaults.RedisDB
	}
	if result.CacheTTL == 0 {
		result.CacheTTL = defaults.CacheTTL
	}

	// Bool fields: cannot distinguish unset from false, so either side enables them
	result.Verbose = result.Verbose || defaults.Verbose
	result.LogJSON = result.LogJSON || defaults.LogJSON
	result.LogDebug = result.LogDebug || defaults.LogDebug

	return result
}

// Matcher converts the matching fields into an evidence.Config.
// Unset fields use the evidence package defaults.
func (c *Config) Matcher() evidence.Config {
	mc := evidence.DefaultConfig()
	if c.Threshold != nil {
		mc.Threshold = *c.Threshold
	}
	if c.OverlapWeight != nil {
		mc.Weights.Overlap = *c.OverlapWeight
	}
	if c.FuzzyWeight != nil {
		mc.Weights.Fuzzy = *c.FuzzyWeight
	}
	mc.Concurrency = c.Concurrency
	return mc
}

// CacheExpiration returns CacheTTL as a duration.
func (c *Config) CacheExpiration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// NewNormalizer returns the normalizer for the configured vocabulary, or the
// default one when no override is set.
func (c *Config) NewNormalizer() (*textnorm.Normalizer, error) {
	if c.VocabularyPath == "" {
		return textnorm.Default(), nil
	}
	vocab, err := LoadVocabulary(c.VocabularyPath)
	if err != nil {
		return nil, err
	}
	n, err := textnorm.New(vocab)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary %s: %w", c.VocabularyPath, err)
	}
	return n, nil
}

// NewMatcher builds the matcher described by the configuration.
func (c *Config) NewMatcher() (*evidence.Matcher, error) {
	n, err := c.NewNormalizer()
	if err != nil {
		return nil, err
	}
	return evidence.NewMatcher(c.Matcher(), evidence.WithNormalizer(n))
}
