package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/evidence-matcher/internal/schemas"
	"github.com/jonathan/evidence-matcher/internal/types"
	schemafiles "github.com/jonathan/evidence-matcher/schemas"
)

// loadMatchInputs reads either a UxInformation bundle or a project list and
// a listings array. Every file is schema-checked before it is decoded.
func loadMatchInputs(projectsPath, listingsPath, uxInfoPath string) ([]types.Project, []types.JobListing, error) {
	if uxInfoPath != "" {
		if projectsPath != "" || listingsPath != "" {
			return nil, nil, fmt.Errorf("--ux-info cannot be combined with --projects or --listings")
		}
		var info types.UxInformation
		if err := readValidated(schemafiles.UxInfo, uxInfoPath, &info); err != nil {
			return nil, nil, err
		}
		return info.ProjectList.Projects, info.Evidence, nil
	}

	if projectsPath == "" || listingsPath == "" {
		return nil, nil, fmt.Errorf("either --ux-info or both --projects and --listings must be provided")
	}

	var list types.ProjectList
	if err := readValidated(schemafiles.ProjectList, projectsPath, &list); err != nil {
		return nil, nil, err
	}
	var listings []types.JobListing
	if err := readValidated(schemafiles.JobListings, listingsPath, &listings); err != nil {
		return nil, nil, err
	}
	return list.Projects, listings, nil
}

func readValidated(schema, path string, v any) error {
	if err := schemas.ValidateFile(schema, path); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v indented to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
