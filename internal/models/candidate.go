// internal/models/candidate.go
package models

import "strings"

// CandidateProfile is built per request by the caller. Only Skills, Interests,
// PreferredSector and PreferredLocations take part in ranking.
type CandidateProfile struct {
	Skills             string `json:"skills"`
	Interests          string `json:"interests"`
	PreferredSector    string `json:"preferredSector"`
	PreferredLocations string `json:"preferredLocations"`

	Name              string `json:"name,omitempty"`
	Age               int    `json:"age,omitempty"`
	EducationLevel    string `json:"educationLevel,omitempty"`
	Location          string `json:"location,omitempty"`
	Language          string `json:"language,omitempty"`
	ExperienceMonths  int    `json:"experienceMonths,omitempty"`
	PreferredDuration int    `json:"preferredDuration,omitempty"`
	MinStipend        int    `json:"minStipend,omitempty"`
}

// QueryText is the candidate's counterpart of InternshipRecord.CombinedText.
func (p CandidateProfile) QueryText() string {
	return strings.Join([]string{p.Skills, p.Interests, p.PreferredSector, p.PreferredLocations}, " ")
}
