package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/evidence-matcher/internal/db"
	"github.com/jonathan/evidence-matcher/internal/observability"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and prune saved matching results",
}

var historyListUserID string

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved results, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, err := parseOptionalUUID(historyListUserID)
		if err != nil {
			return fmt.Errorf("invalid --user-id: %w", err)
		}
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			summaries, err := database.ListHistory(ctx, userID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), "", summaries)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one saved result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid history ID %q: %w", args[0], err)
		}
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			entry, err := database.GetHistory(ctx, id)
			if err != nil {
				return err
			}
			if entry == nil {
				return fmt.Errorf("history not found: %s", id)
			}
			if verbose {
				observability.NewPrinter(cmd.ErrOrStderr()).PrintMatches(entry.Evidence)
			}
			return writeJSON(cmd.OutOrStdout(), "", entry)
		})
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one saved result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid history ID %q: %w", args[0], err)
		}
		return withDatabase(cmd, func(ctx context.Context, database *db.DB) error {
			deleted, err := database.DeleteHistory(ctx, id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("history not found: %s", id)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return err
		})
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historyListUserID, "user-id", "", "Only list results owned by this user")
	for _, c := range []*cobra.Command{historyListCmd, historyShowCmd, historyDeleteCmd} {
		addDatabaseFlag(c)
	}

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

// parseOptionalUUID returns nil for an empty string.
func parseOptionalUUID(s string) (*uuid.UUID, error) {
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
