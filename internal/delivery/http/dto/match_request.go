package dto

// LocationRequest carries an optional coordinate pair. Locality alone
// is enough for travel-time estimation.
type LocationRequest struct {
	Locality string   `json:"locality"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
}

type PreferencesRequest struct {
	WorkMode          string   `json:"work_mode"`
	MaxCommuteMinutes int      `json:"max_commute_minutes"`
	CommuteMode       string   `json:"commute_mode"`
	AvoidIndustries   []string `json:"avoid_industries"`
}

type CandidateRequest struct {
	ID                string             `json:"id"`
	Skills            []string           `json:"skills"`
	Location          LocationRequest    `json:"location"`
	YearsExperience   int                `json:"years_experience"`
	EducationLevel    string             `json:"education_level"`
	SalaryExpectation int                `json:"salary_expectation"`
	Preferences       PreferencesRequest `json:"preferences"`
}

type JobRequest struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Industry             string          `json:"industry"`
	RequiredSkills       []string        `json:"required_skills"`
	PreferredSkills      []string        `json:"preferred_skills"`
	Location             LocationRequest `json:"location"`
	MinYearsExperience   int             `json:"min_years_experience"`
	MaxYearsExperience   int             `json:"max_years_experience"`
	EducationRequirement string          `json:"education_requirement"`
	SalaryMin            int             `json:"salary_min"`
	SalaryMax            int             `json:"salary_max"`
	WorkMode             string          `json:"work_mode"`
	TechnicalFocus       bool            `json:"technical_focus"`
}

type MatchOptionsRequest struct {
	Algorithm    string  `json:"algorithm"`
	MinScore     float64 `json:"min_score"`
	WithCommute  bool    `json:"with_commute"`
	ForceRefresh bool    `json:"force_refresh"`
	// Diversify ranks batch results by score and spaces out entries
	// sharing an industry. Without it, results keep the input order.
	Diversify bool `json:"diversify"`
}

type MatchRequest struct {
	UserID    string              `json:"user_id"`
	Candidate CandidateRequest    `json:"candidate"`
	Job       JobRequest          `json:"job"`
	Options   MatchOptionsRequest `json:"options"`
}

type BatchMatchRequest struct {
	UserID    string              `json:"user_id"`
	Candidate CandidateRequest    `json:"candidate"`
	Jobs      []JobRequest        `json:"jobs"`
	Options   MatchOptionsRequest `json:"options"`
}

type FeedbackRequest struct {
	UserID  string `json:"user_id"`
	JobID   string `json:"job_id"`
	Outcome string `json:"outcome"`
}
