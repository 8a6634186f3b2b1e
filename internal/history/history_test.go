package history

import (
	"testing"
	"time"

	"github.com/jonathan/evidence-matcher/internal/types"
	"github.com/stretchr/testify/assert"
)

var march2025 = time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestRetrieveLocations(t *testing.T) {
	tests := []struct {
		name     string
		queries  []string
		expected []string
	}{
		{"none", nil, nil},
		{"single", []string{"Data Engineer roles in London."}, []string{"London"}},
		{
			"dedup keeps order",
			[]string{"Go roles in Leeds", "Go roles in Bristol", "Go roles in Leeds."},
			[]string{"Leeds", "Bristol"},
		},
		{"country stops scan", []string{"Go roles in United Kingdom", "Go roles in Leeds"}, nil},
		{"country after locations", []string{"Go roles in Leeds", "Go roles in United Kingdom"}, []string{"Leeds"}},
		{"no location", []string{"Go developer"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RetrieveLocations(tt.queries))
		})
	}
}

func TestBuildTitle(t *testing.T) {
	tests := []struct {
		name     string
		queries  []string
		expected string
	}{
		{"no locations", []string{"Data Engineer roles in United Kingdom"}, "Data Engineer - United Kingdom - Mar 2025"},
		{"one", []string{"Data Engineer roles in London"}, "Data Engineer - London - Mar 2025"},
		{
			"three",
			[]string{"SRE roles in London", "SRE roles in Leeds", "SRE roles in York"},
			"SRE - London, Leeds, York - Mar 2025",
		},
		{
			"more than three",
			[]string{"SRE roles in London", "SRE roles in Leeds", "SRE roles in York", "SRE roles in Bath", "SRE roles in Hull"},
			"SRE - London (+4 more) - Mar 2025",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := types.SearchParameters{Query: tt.queries, Country: "gb"}
			assert.Equal(t, tt.expected, BuildTitle(params, march2025))
		})
	}
}

func TestParseParameters_Defaults(t *testing.T) {
	saved := ParseParameters(types.SearchParameters{
		Query:   []string{"Backend roles in United Kingdom"},
		Country: "gb",
	})

	assert.Equal(t, types.SavedParameters{
		Role:            "Backend",
		Locations:       []string{"All UK Locations"},
		Country:         "gb",
		DatePosted:      "All Time",
		EmploymentTypes: []string{"All Types"},
	}, saved)
}

func TestParseParameters_Explicit(t *testing.T) {
	remote := true
	saved := ParseParameters(types.SearchParameters{
		Query:           []string{"Backend roles in Leeds"},
		Country:         "gb",
		DatePosted:      "week",
		OffSite:         &remote,
		EmploymentTypes: []string{"FULLTIME"},
	})

	assert.Equal(t, "Backend", saved.Role)
	assert.Equal(t, []string{"Leeds"}, saved.Locations)
	assert.Equal(t, "week", saved.DatePosted)
	assert.Equal(t, &remote, saved.OffSite)
	assert.Equal(t, []string{"FULLTIME"}, saved.EmploymentTypes)
}

func TestNewEntry(t *testing.T) {
	info := types.UxInformation{
		Parameters:  types.SearchParameters{Query: []string{"QA roles in York"}, Country: "gb"},
		ProjectList: types.ProjectList{Projects: []types.Project{{Title: "Test Harness"}}},
	}

	entry := NewEntry(info, nil, march2025)
	assert.Equal(t, "QA - York - Mar 2025", entry.Title)
	assert.Equal(t, info.ProjectList, entry.ProjectList)
	assert.NotNil(t, entry.Evidence)
	assert.Empty(t, entry.Evidence)
}
