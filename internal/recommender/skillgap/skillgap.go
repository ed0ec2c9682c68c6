// Package skillgap compares comma-delimited skill lists.
package skillgap

import (
	"sort"
	"strings"

	"internship-recommender/internal/models"
)

// Normalize splits text on commas, trims and lower-cases each token, drops
// empty tokens and returns the de-duplicated set in sorted order.
func Normalize(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(text, ",") {
		skill := strings.ToLower(strings.TrimSpace(part))
		if skill == "" {
			continue
		}
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// Analyze returns the skills the candidate already has and the ones still
// missing for the required list. The percentage is 0 when nothing is required.
func Analyze(candidateSkills, requiredSkills string) models.SkillGapAnalysis {
	have := make(map[string]struct{})
	for _, s := range Normalize(candidateSkills) {
		have[s] = struct{}{}
	}

	required := Normalize(requiredSkills)
	result := models.SkillGapAnalysis{
		ExistingSkills: []string{},
		MissingSkills:  []string{},
	}
	for _, s := range required {
		if _, ok := have[s]; ok {
			result.ExistingSkills = append(result.ExistingSkills, s)
		} else {
			result.MissingSkills = append(result.MissingSkills, s)
		}
	}
	if len(required) > 0 {
		result.SkillMatchPercentage = float64(len(result.ExistingSkills)) / float64(len(required)) * 100
	}
	return result
}
