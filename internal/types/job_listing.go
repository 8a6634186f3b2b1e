package types

// JobListing is one job posting and the requirement lines extracted from it.
// Only JobTitle, EmployerName and Qualifications feed matching; the other
// fields are carried through for display and storage.
type JobListing struct {
	JobID             string   `json:"job_id,omitempty"`
	JobTitle          string   `json:"job_title" validate:"required"`
	EmployerName      string   `json:"employer_name" validate:"required"`
	JobLocation       string   `json:"job_location,omitempty"`
	JobIsRemote       *bool    `json:"job_is_remote,omitempty"`
	JobEmploymentType string   `json:"job_employment_type,omitempty"`
	JobPostedAt       string   `json:"job_posted_at,omitempty"`
	JobApplyLink      string   `json:"job_apply_link,omitempty" validate:"omitempty,url"`
	JobPublisher      string   `json:"job_publisher,omitempty"`
	Qualifications    []string `json:"Qualifications,omitempty"`
}

// Validate checks the identifying fields of the listing.
func (j *JobListing) Validate() error {
	return validate.Struct(j)
}
