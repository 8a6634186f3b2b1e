package main

import (
	"fmt"

	"github.com/jonathan/evidence-matcher/internal/observability"
	"github.com/jonathan/evidence-matcher/internal/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match project achievements against job requirements",
	Long: `Scores every achievement of every project against every requirement of every
listing and writes the accepted pairs as a JSON array.

Inputs are either a UxInformation bundle (--ux-info) or a ProjectList file
(--projects) together with a JSON array of listings (--listings).`,
	RunE: runMatch,
}

var (
	matchProjects string
	matchListings string
	matchUxInfo   string
	matchOutput   string
)

func init() {
	matchCmd.Flags().StringVarP(&matchProjects, "projects", "p", "", "Path to ProjectList JSON file")
	matchCmd.Flags().StringVarP(&matchListings, "listings", "l", "", "Path to job listings JSON array")
	matchCmd.Flags().StringVarP(&matchUxInfo, "ux-info", "u", "", "Path to UxInformation JSON bundle (replaces --projects and --listings)")
	matchCmd.Flags().StringVarP(&matchOutput, "out", "o", "", "Path to output matches JSON file (default stdout)")
	addMatcherFlags(matchCmd)

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	projects, listings, err := loadMatchInputs(matchProjects, matchListings, matchUxInfo)
	if err != nil {
		return err
	}

	m, err := cfg.NewMatcher()
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	matches, err := m.Match(cmd.Context(), projects, listings)
	if err != nil {
		return fmt.Errorf("matching failed: %w", err)
	}
	if matches == nil {
		matches = types.MatchCollection{}
	}

	log.Debug("matched",
		zap.Int("projects", len(projects)),
		zap.Int("listings", len(listings)),
		zap.Int("matches", len(matches)),
		zap.Float64("threshold", m.Config().Threshold))

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatches(matches)
	}

	return writeJSON(cmd.OutOrStdout(), matchOutput, matches)
}
