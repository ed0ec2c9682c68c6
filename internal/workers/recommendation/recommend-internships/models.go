// internal/workers/recommendation/recommend-internships/models.go
package recommendinternships

import "internship-recommender/internal/models"

type Input struct {
	CandidateID      string                  `json:"candidateId,omitempty"`
	CandidateProfile models.CandidateProfile `json:"candidateProfile"`
	TopN             *int                    `json:"topN,omitempty"`
}

type Output struct {
	RecommendationID string           `json:"recommendationId"`
	CandidateID      string           `json:"candidateId,omitempty"`
	Recommendations  []Recommendation `json:"recommendations"`
	TotalCount       int              `json:"totalCount"`
	CatalogVersion   string           `json:"catalogVersion"`
	Cached           bool             `json:"cached"`
	GeneratedAt      string           `json:"generatedAt"`
}

// Recommendation is the display form of one ranked internship.
type Recommendation struct {
	InternshipID         models.ID               `json:"internshipId"`
	Title                string                  `json:"title"`
	Company              string                  `json:"company"`
	Location             string                  `json:"location"`
	Sector               string                  `json:"sector"`
	Stipend              float64                 `json:"stipend"`
	Duration             string                  `json:"duration"`
	DurationMonths       int                     `json:"durationMonths"`
	Remote               bool                    `json:"remote"`
	Difficulty           string                  `json:"difficulty"`
	MatchScore           float64                 `json:"matchScore"`
	MatchLevel           string                  `json:"matchLevel"`
	WhyRecommended       string                  `json:"whyRecommended"`
	SkillsToLearn        []string                `json:"skillsToLearn"`
	SkillsYouHave        []string                `json:"skillsYouHave"`
	SkillMatchPercentage float64                 `json:"skillMatchPercentage"`
	SkillGap             models.SkillGapAnalysis `json:"skillGap"`
}
