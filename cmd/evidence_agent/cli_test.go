package main

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/evidence-matcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCommand_Success(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "matches.json")

	cmd := exec.Command(binaryPath, "match",
		"--projects", writeFile(t, dir, "projects.json", projectsJSON),
		"--listings", writeFile(t, dir, "listings.json", listingsJSON),
		"--out", out)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, string(output))

	var matches types.MatchCollection
	data := readFile(t, out)
	require.NoError(t, json.Unmarshal(data, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Backend Engineer", matches[0].JobTitle)
}

func TestMatchCommand_MissingInputs(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "match").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "either --ux-info or both")
}

func TestNormalizeCommand(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "normalize", "Docker", "and", "Kubernetes").Output()
	require.NoError(t, err)
	assert.Equal(t, []string{"docker", "docker_kubernete", "kubernete"}, strings.Fields(string(output)))
}

func TestScoreCommand_MissingFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	output, err := exec.Command(binaryPath, "score", "--achievement", "Go").CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "required")
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "token")
	cmd.Env = []string{"PATH=/usr/bin:/bin"}
	cmd.Dir = t.TempDir()
	output, err := cmd.CombinedOutput()
	assert.Error(t, err)
	assert.Contains(t, string(output), "JWT_SECRET")
}
