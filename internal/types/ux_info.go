package types

// SearchParameters are the job-search filters a set of listings was fetched with.
type SearchParameters struct {
	Query           []string `json:"query" validate:"required,min=1,dive,required"`
	Country         string   `json:"country" validate:"required"`
	DatePosted      string   `json:"date_posted,omitempty"`
	OffSite         *bool    `json:"off_site,omitempty"`
	EmploymentTypes []string `json:"employment_types,omitempty"`
}

// Validate checks that at least one non-empty query and a country are set.
func (p *SearchParameters) Validate() error {
	return validate.Struct(p)
}

// UxInformation bundles the search, the generated projects and the
// listings they are evaluated against.
type UxInformation struct {
	Parameters  SearchParameters `json:"parameters"`
	ProjectList ProjectList      `json:"project_list"`
	Evidence    []JobListing     `json:"evidence" validate:"dive"`
}

// Validate checks parameters, projects and listings.
func (u *UxInformation) Validate() error {
	return validate.Struct(u)
}
