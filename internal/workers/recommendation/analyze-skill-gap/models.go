// internal/workers/recommendation/analyze-skill-gap/models.go
package analyzeskillgap

import "internship-recommender/internal/models"

type Input struct {
	CandidateSkills string    `json:"candidateSkills"`
	InternshipID    models.ID `json:"internshipId"`
}

type Output struct {
	InternshipID      models.ID               `json:"internshipId"`
	InternshipTitle   string                  `json:"internshipTitle"`
	Company           string                  `json:"company"`
	SkillGap          models.SkillGapAnalysis `json:"skillGap"`
	LearningResources []string                `json:"learningResources"`
}
