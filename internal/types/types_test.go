package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_JSONFieldNames(t *testing.T) {
	var p Project
	require.NoError(t, json.Unmarshal([]byte(`{
		"title": "Ledger",
		"achieved_qualifications": ["Go services", "PostgreSQL schema design"]
	}`), &p))

	assert.Equal(t, "Ledger", p.Title)
	assert.Equal(t, []string{"Go services", "PostgreSQL schema design"}, p.Achievements)
}

func TestJobListing_JSONFieldNames(t *testing.T) {
	var l JobListing
	require.NoError(t, json.Unmarshal([]byte(`{
		"job_title": "Platform Engineer",
		"employer_name": "Globex",
		"Qualifications": ["Terraform"]
	}`), &l))

	assert.Equal(t, "Platform Engineer", l.JobTitle)
	assert.Equal(t, "Globex", l.EmployerName)
	assert.Equal(t, []string{"Terraform"}, l.Qualifications)
}

func TestProjectList_Validate(t *testing.T) {
	valid := ProjectList{Projects: []Project{{Title: "A"}, {Title: "B", Achievements: []string{"x"}}}}
	assert.NoError(t, valid.Validate())

	invalid := ProjectList{Projects: []Project{{Title: "A"}, {}}}
	err := invalid.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title")
}

func TestJobListing_Validate(t *testing.T) {
	tests := []struct {
		name    string
		listing JobListing
		wantErr bool
	}{
		{"valid", JobListing{JobTitle: "SRE", EmployerName: "Acme"}, false},
		{"valid apply link", JobListing{JobTitle: "SRE", EmployerName: "Acme", JobApplyLink: "https://acme.example/jobs/1"}, false},
		{"missing title", JobListing{EmployerName: "Acme"}, true},
		{"missing employer", JobListing{JobTitle: "SRE"}, true},
		{"bad apply link", JobListing{JobTitle: "SRE", EmployerName: "Acme", JobApplyLink: "not a url"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.listing.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUxInformation_Validate(t *testing.T) {
	info := UxInformation{
		Parameters:  SearchParameters{Query: []string{"Go roles in Leeds"}, Country: "gb"},
		ProjectList: ProjectList{Projects: []Project{{Title: "A"}}},
		Evidence:    []JobListing{{JobTitle: "SRE", EmployerName: "Acme"}},
	}
	assert.NoError(t, info.Validate())

	noQuery := info
	noQuery.Parameters.Query = nil
	assert.Error(t, noQuery.Validate())

	blankQuery := info
	blankQuery.Parameters.Query = []string{""}
	assert.Error(t, blankQuery.Validate())

	badListing := info
	badListing.Evidence = []JobListing{{JobTitle: "SRE"}}
	assert.Error(t, badListing.Validate())
}

func TestSearchParameters_Validate(t *testing.T) {
	assert.NoError(t, (&SearchParameters{Query: []string{"Go roles in Leeds"}, Country: "gb"}).Validate())
	assert.Error(t, (&SearchParameters{Query: []string{"Go roles in Leeds"}}).Validate())
	assert.Error(t, (&SearchParameters{Country: "gb"}).Validate())
}

func TestMatchCollection_ByProject(t *testing.T) {
	c := MatchCollection{
		{ProjectTitle: "A", Qualification: "q1"},
		{ProjectTitle: "B", Qualification: "q2"},
		{ProjectTitle: "A", Qualification: "q3"},
	}

	grouped := c.ByProject()
	require.Len(t, grouped, 2)
	assert.Equal(t, []string{"q1", "q3"}, []string{grouped["A"][0].Qualification, grouped["A"][1].Qualification})
	assert.Len(t, grouped["B"], 1)
}

func TestMatch_JSON(t *testing.T) {
	data, err := json.Marshal(Match{ProjectTitle: "P", ProjectAchievement: "A", JobTitle: "J", CompanyName: "C", Qualification: "Q"})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"project_title": "P",
		"project_achievement": "A",
		"job_title": "J",
		"company_name": "C",
		"qualification": "Q"
	}`, string(data))
}
