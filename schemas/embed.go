// Package schemas embeds the JSON Schemas for every document the matcher
// reads or writes.
package schemas

import "embed"

// Schema file names.
const (
	ProjectList = "project_list.schema.json"
	JobListings = "job_listings.schema.json"
	UxInfo      = "ux_info.schema.json"
	Matches     = "matches.schema.json"
	Vocabulary  = "vocabulary.schema.json"
)

// FS holds the schema files.
//
//go:embed *.schema.json
var FS embed.FS
