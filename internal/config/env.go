package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FromEnv reads configuration from environment variables. Callers load
// .env files (godotenv) before calling it. Unset variables leave fields unset.
func FromEnv() (*Config, error) {
	var cfg Config
	var err error

	if cfg.Threshold, err = getEnvFloat("EVIDENCE_THRESHOLD"); err != nil {
		return nil, err
	}
	if cfg.OverlapWeight, err = getEnvFloat("EVIDENCE_OVERLAP_WEIGHT"); err != nil {
		return nil, err
	}
	if cfg.FuzzyWeight, err = getEnvFloat("EVIDENCE_FUZZY_WEIGHT"); err != nil {
		return nil, err
	}
	if cfg.Concurrency, err = getEnvInt("EVIDENCE_CONCURRENCY"); err != nil {
		return nil, err
	}
	cfg.VocabularyPath = os.Getenv("EVIDENCE_VOCABULARY")

	if cfg.Port, err = getEnvInt("PORT"); err != nil {
		return nil, err
	}
	cfg.AllowedOrigins = parseList(os.Getenv("ALLOWED_ORIGINS"))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if host := os.Getenv("REDIS_HOST"); host != "" {
		port := os.Getenv("REDIS_PORT")
		if port == "" {
			port = "6379"
		}
		cfg.RedisAddr = host + ":" + port
	}
	if cfg.RedisDB, err = getEnvInt("REDIS_DB"); err != nil {
		return nil, err
	}
	if cfg.CacheTTL, err = getEnvInt("CACHE_DEFAULT_TIMEOUT"); err != nil {
		return nil, err
	}

	cfg.LogJSON = getEnvBool("LOG_JSON")
	cfg.LogDebug = getEnvBool("LOG_DEBUG")

	return &cfg, nil
}

func getEnvFloat(key string) (*float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}

func getEnvInt(key string) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && b
}

// parseList splits a comma-separated list, dropping blanks.
func parseList(list string) []string {
	if list == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(list, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
