package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/config"
	"github.com/jonathan/evidence-matcher/internal/server"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the history endpoints",
	Long:  "Signs a token for --user-id with JWT_SECRET (and JWT_ISSUER when set). Intended for local development and scripted tests.",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

var (
	tokenUserID string
	tokenTTL    time.Duration
)

func init() {
	tokenCmd.Flags().StringVar(&tokenUserID, "user-id", "", "User ID to embed in the token (default: random)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "Token lifetime")

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := config.JWTFromEnv()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	userID := uuid.New()
	if tokenUserID != "" {
		if userID, err = uuid.Parse(tokenUserID); err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
	}
	if tokenTTL <= 0 {
		return fmt.Errorf("--ttl must be positive")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(userID, tokenTTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
