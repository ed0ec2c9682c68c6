// internal/models/recommendation.go
package models

type SkillGapAnalysis struct {
	ExistingSkills       []string `json:"existingSkills"`
	MissingSkills        []string `json:"missingSkills"`
	SkillMatchPercentage float64  `json:"skillMatchPercentage"`
}

type Recommendation struct {
	InternshipID    ID               `json:"internshipId"`
	Title           string           `json:"title"`
	Company         string           `json:"company"`
	Location        string           `json:"location"`
	Sector          string           `json:"sector"`
	Stipend         float64          `json:"stipend"`
	DurationMonths  int              `json:"durationMonths"`
	RemoteAvailable bool             `json:"remoteAvailable"`
	DifficultyLevel string           `json:"difficultyLevel"`
	MatchScore      float64          `json:"matchScore"`
	WhyRecommended  string           `json:"whyRecommended"`
	SkillGap        SkillGapAnalysis `json:"skillGap"`
}
