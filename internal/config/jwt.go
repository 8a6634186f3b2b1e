package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// JWTConfig holds the shared secret used to verify bearer tokens on the
// history endpoints. Tokens are minted by an external identity service.
type JWTConfig struct {
	Secret string
	Issuer string
	// Leeway tolerates clock skew when checking exp and nbf.
	Leeway time.Duration
}

// JWTFromEnv reads JWT_SECRET, JWT_ISSUER and JWT_LEEWAY_SECONDS.
// It returns (nil, nil) when JWT_SECRET is unset, which disables auth.
func JWTFromEnv() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, nil
	}

	cfg := &JWTConfig{
		Secret: secret,
		Issuer: os.Getenv("JWT_ISSUER"),
	}

	if raw := os.Getenv("JWT_LEEWAY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_LEEWAY_SECONDS: %w", err)
		}
		cfg.Leeway = time.Duration(seconds) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects secrets too short for HS256 and negative leeway.
func (c *JWTConfig) Validate() error {
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes, got %d", len(c.Secret))
	}
	if c.Leeway < 0 {
		return fmt.Errorf("JWT_LEEWAY_SECONDS must be non-negative")
	}
	return nil
}
