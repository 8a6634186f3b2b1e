// Package history derives the title and stored parameters of a saved
// matching run from the search that produced its listings.
package history

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/evidence-matcher/internal/types"
)

const (
	defaultCountryLabel   = "United Kingdom"
	defaultLocationsLabel = "All UK Locations"
	defaultDateLabel      = "All Time"
	defaultTypesLabel     = "All Types"

	// maxTitleLocations is the most locations listed in full in a title.
	maxTitleLocations = 3
)

// Role returns the role searched for: the first query up to " roles in ".
func Role(queries []string) string {
	if len(queries) == 0 {
		return ""
	}
	role, _, _ := strings.Cut(queries[0], " roles in ")
	return strings.TrimSpace(role)
}

// RetrieveLocations extracts the location named after " in " in each query.
// A query naming the whole country ends the scan. Queries without a
// location are skipped. Duplicates are dropped keeping first occurrence,
// and nil is returned when nothing was found.
func RetrieveLocations(queries []string) []string {
	var locations []string
	seen := make(map[string]struct{})
	for _, q := range queries {
		if strings.Contains(q, defaultCountryLabel) {
			break
		}
		_, loc, ok := strings.Cut(q, " in ")
		if !ok {
			continue
		}
		loc = strings.TrimSpace(strings.TrimRight(loc, "."))
		if loc == "" {
			continue
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		locations = append(locations, loc)
	}
	return locations
}

// BuildTitle renders "<role> - <locations> - <Mon YYYY>".
func BuildTitle(params types.SearchParameters, now time.Time) string {
	role := Role(params.Query)
	date := now.Format("Jan 2006")
	locations := RetrieveLocations(params.Query)

	var where string
	switch {
	case len(locations) == 0:
		where = defaultCountryLabel
	case len(locations) > maxTitleLocations:
		where = fmt.Sprintf("%s (+%d more)", locations[0], len(locations)-1)
	default:
		where = strings.Join(locations, ", ")
	}

	return fmt.Sprintf("%s - %s - %s", role, where, date)
}

// ParseParameters converts search parameters into their stored form.
func ParseParameters(params types.SearchParameters) types.SavedParameters {
	saved := types.SavedParameters{
		Role:            Role(params.Query),
		Locations:       RetrieveLocations(params.Query),
		Country:         params.Country,
		OffSite:         params.OffSite,
		DatePosted:      params.DatePosted,
		EmploymentTypes: params.EmploymentTypes,
	}
	if len(saved.Locations) == 0 {
		saved.Locations = []string{defaultLocationsLabel}
	}
	if saved.DatePosted == "" {
		saved.DatePosted = defaultDateLabel
	}
	if len(saved.EmploymentTypes) == 0 {
		saved.EmploymentTypes = []string{defaultTypesLabel}
	}
	return saved
}

// NewEntry assembles a HistoryEntry ready to be stored. ID and CreatedAt
// are assigned by the store.
func NewEntry(info types.UxInformation, evidence types.MatchCollection, now time.Time) types.HistoryEntry {
	if evidence == nil {
		evidence = types.MatchCollection{}
	}
	return types.HistoryEntry{
		Title:       BuildTitle(info.Parameters, now),
		Parameters:  ParseParameters(info.Parameters),
		ProjectList: info.ProjectList,
		Evidence:    evidence,
	}
}
