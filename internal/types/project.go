package types

// Project is a candidate project and the achievements it claims.
type Project struct {
	Title                string   `json:"title" validate:"required"`
	ProblemStatement     string   `json:"problem_statement,omitempty"`
	TargetUsers          []string `json:"target_users,omitempty"`
	CoreFeatures         []string `json:"core_features,omitempty"`
	RecommendedTechStack []string `json:"recommended_tech_stack,omitempty"`
	Achievements         []string `json:"achieved_qualifications"`
}

// ProjectList wraps the projects proposed for one job search.
type ProjectList struct {
	Projects []Project `json:"projects" validate:"dive"`
}

// Validate checks that every project carries a title.
func (p *Project) Validate() error {
	return validate.Struct(p)
}

// Validate checks every project in the list.
func (l *ProjectList) Validate() error {
	return validate.Struct(l)
}
