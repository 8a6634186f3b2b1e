package types

// Match records one achievement accepted as evidence for one job requirement.
type Match struct {
	ProjectTitle       string `json:"project_title"`
	ProjectAchievement string `json:"project_achievement"`
	JobTitle           string `json:"job_title"`
	CompanyName        string `json:"company_name"`
	Qualification      string `json:"qualification"`
}

// MatchCollection is the ordered output of one matching run.
type MatchCollection []Match

// ByProject groups matches by project title, preserving order within each group.
func (c MatchCollection) ByProject() map[string][]Match {
	grouped := make(map[string][]Match)
	for _, m := range c {
		grouped[m.ProjectTitle] = append(grouped[m.ProjectTitle], m)
	}
	return grouped
}
