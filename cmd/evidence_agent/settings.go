package main

import (
	"fmt"

	"github.com/jonathan/evidence-matcher/internal/config"
	"github.com/jonathan/evidence-matcher/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// loadSettings resolves the effective configuration. Precedence, highest
// first: command-line flags, environment, --config file, built-in defaults.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
	}

	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg. Commands only declare the
// flags that make sense for them, so lookups of absent flags are skipped.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("log-json") {
		cfg.LogJSON = logJSON
	}
	if flags.Changed("log-debug") {
		cfg.LogDebug = logDebug
	}

	if flags.Lookup("threshold") != nil && flags.Changed("threshold") {
		threshold, err := flags.GetFloat64("threshold")
		if err != nil {
			return err
		}
		cfg.Threshold = &threshold
	}
	if flags.Lookup("concurrency") != nil && flags.Changed("concurrency") {
		n, err := flags.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = n
	}
	if flags.Lookup("vocabulary") != nil && flags.Changed("vocabulary") {
		path, err := flags.GetString("vocabulary")
		if err != nil {
			return err
		}
		cfg.VocabularyPath = path
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		port, err := flags.GetInt("port")
		if err != nil {
			return err
		}
		cfg.Port = port
	}
	if flags.Lookup("db-url") != nil && flags.Changed("db-url") {
		url, err := flags.GetString("db-url")
		if err != nil {
			return err
		}
		cfg.DatabaseURL = url
	}
	return nil
}

// addMatcherFlags declares the flags that tune scoring.
func addMatcherFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("threshold", 0, "Minimum blended score for a match (default 0.40)")
	cmd.Flags().Int("concurrency", 0, "Projects scored in parallel (default GOMAXPROCS)")
	cmd.Flags().String("vocabulary", "", "Path to a JSON vocabulary override")
}

// addDatabaseFlag declares --db-url.
func addDatabaseFlag(cmd *cobra.Command) {
	cmd.Flags().String("db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.LogJSON, cfg.LogDebug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}
