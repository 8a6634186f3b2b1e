package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/evidence-matcher/internal/observability"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize <text>...",
	Short: "Print the token set a phrase normalizes to",
	Long:  "Runs the arguments, joined by spaces, through the normalizer and prints the resulting unigram, bigram and trigram tokens in sorted order.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNormalize,
}

var normalizeJSON bool

func init() {
	normalizeCmd.Flags().BoolVar(&normalizeJSON, "json", false, "Print tokens as a JSON array")
	normalizeCmd.Flags().String("vocabulary", "", "Path to a JSON vocabulary override")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	n, err := cfg.NewNormalizer()
	if err != nil {
		return err
	}

	text := strings.Join(args, " ")
	tokens := n.Normalize(text)

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintTokenSet(text, tokens)
	}

	sorted := tokens.Sorted()
	if normalizeJSON {
		if sorted == nil {
			sorted = []string{}
		}
		return writeJSON(cmd.OutOrStdout(), "", sorted)
	}

	for _, token := range sorted {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), token); err != nil {
			return err
		}
	}
	return nil
}
