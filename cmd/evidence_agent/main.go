// Package main provides the evidence_agent CLI and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "evidence_agent",
	Short: "Match project achievements against job requirements",
	Long: `evidence_agent scores every achievement of a set of projects against every
requirement line of a set of job listings and reports the pairs that count as
evidence. It also serves the same matching over HTTP and manages saved results.`,
}

var (
	configPath string
	verbose    bool
	logJSON    bool
	logDebug   bool
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by environment and flags)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Print detailed human-readable output to stderr")
	flags.BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")
	flags.BoolVar(&logDebug, "log-debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
