package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the evidence_agent binary for CLI tests.
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "evidence_agent")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/evidence_agent ./cmd/evidence_agent'", binaryPath)
	}
	return binaryPath
}
