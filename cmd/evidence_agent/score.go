package main

import (
	"fmt"

	"github.com/jonathan/evidence-matcher/internal/evidence"
	"github.com/jonathan/evidence-matcher/internal/logger"
	"github.com/jonathan/evidence-matcher/internal/observability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one achievement against one requirement",
	Long:  "Prints the overlap, fuzzy and blended scores of a single pair and whether it would be accepted at the configured threshold.",
	RunE:  runScore,
}

var (
	scoreAchievement string
	scoreRequirement string
)

// ScoreReport is the JSON output of the score command.
type ScoreReport struct {
	Achievement string `json:"achievement"`
	Requirement string `json:"requirement"`
	evidence.Score
	Threshold float64 `json:"threshold"`
	Accepted  bool    `json:"accepted"`
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreAchievement, "achievement", "a", "", "Project achievement text (required)")
	scoreCmd.Flags().StringVarP(&scoreRequirement, "requirement", "r", "", "Job requirement text (required)")
	addMatcherFlags(scoreCmd)

	if err := scoreCmd.MarkFlagRequired("achievement"); err != nil {
		panic(fmt.Sprintf("failed to mark achievement flag as required: %v", err))
	}
	if err := scoreCmd.MarkFlagRequired("requirement"); err != nil {
		panic(fmt.Sprintf("failed to mark requirement flag as required: %v", err))
	}

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	m, err := cfg.NewMatcher()
	if err != nil {
		return fmt.Errorf("failed to create matcher: %w", err)
	}

	report := buildScoreReport(m, scoreAchievement, scoreRequirement)
	log.Debug("scored pair",
		zap.String("achievement", logger.Truncate(report.Achievement, 60)),
		zap.String("requirement", logger.Truncate(report.Requirement, 60)),
		zap.Float64("blended", report.Blended),
		zap.Bool("accepted", report.Accepted))

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintScore(report.Achievement, report.Requirement, report.Score, report.Threshold)
	}
	return writeJSON(cmd.OutOrStdout(), "", report)
}

func buildScoreReport(m *evidence.Matcher, achievement, requirement string) ScoreReport {
	score := m.Score(achievement, requirement)
	threshold := m.Config().Threshold
	return ScoreReport{
		Achievement: achievement,
		Requirement: requirement,
		Score:       score,
		Threshold:   threshold,
		Accepted:    evidence.Accept(score.Blended, threshold),
	}
}
