package profile

import "github.com/google/uuid"

// WorkMode is the working arrangement attached to a job posting or
// requested by a candidate.
type WorkMode string

const (
	WorkModeOnsite WorkMode = "onsite"
	WorkModeHybrid WorkMode = "hybrid"
	WorkModeRemote WorkMode = "remote"
)

// CommuteMode is the mode of transport used for travel-time estimation.
type CommuteMode string

const (
	CommuteDriving   CommuteMode = "driving"
	CommuteTransit   CommuteMode = "transit"
	CommuteBicycling CommuteMode = "bicycling"
	CommuteWalking   CommuteMode = "walking"
)

// Location is a normalized place reference. Coordinates are optional;
// HasCoords reports whether Lat/Lon carry real values.
type Location struct {
	Locality  string
	Lat       float64
	Lon       float64
	HasCoords bool
}

// Preferences holds the candidate-side matching preferences produced by
// the upstream parsing service.
type Preferences struct {
	WorkMode          WorkMode
	MaxCommuteMinutes int
	CommuteMode       CommuteMode
	AvoidIndustries   []string
}

// Candidate is a normalized candidate profile. Records are created
// upstream and passed by value; the match core never mutates them.
type Candidate struct {
	ID                uuid.UUID
	Skills            []string
	Location          Location
	YearsExperience   int
	EducationLevel    string
	SalaryExpectation int
	Preferences       Preferences
}

// Job is a normalized job posting.
type Job struct {
	ID                   uuid.UUID
	Title                string
	Industry             string
	RequiredSkills       []string
	PreferredSkills      []string
	Location             Location
	MinYearsExperience   int
	MaxYearsExperience   int
	EducationRequirement string
	SalaryMin            int
	SalaryMax            int
	WorkMode             WorkMode
	TechnicalFocus       bool
}
