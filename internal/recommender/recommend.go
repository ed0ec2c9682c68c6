package recommender

import (
	"fmt"
	"math"
	"sort"

	"internship-recommender/internal/models"
	"internship-recommender/internal/recommender/skillgap"
	"internship-recommender/internal/recommender/tfidf"
)

const DefaultTopN = 5

// Match level buckets derived from a 0-100 match score.
const (
	MatchExcellent = "Excellent Match"
	MatchGood      = "Good Match"
	MatchFair      = "Fair Match"
	MatchWeak      = "Consider Other Options"
)

// Recommend ranks the published catalog against profile.
func Recommend(ix *Index, profile models.CandidateProfile, topN int) ([]models.Recommendation, error) {
	snap, err := ix.Snapshot()
	if err != nil {
		return nil, &StateError{Op: "recommend", Err: ErrNotLoaded}
	}
	return Rank(snap, profile, topN), nil
}

// Rank scores every record of snap by cosine similarity to the profile text
// and returns the best topN, ties kept in catalog order.
func Rank(snap *Snapshot, profile models.CandidateProfile, topN int) []models.Recommendation {
	query := snap.Vectorizer.Transform(profile.QueryText())

	scores := make([]float64, len(snap.Matrix))
	order := make([]int, len(snap.Matrix))
	for i, row := range snap.Matrix {
		scores[i] = tfidf.Cosine(query, row)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	n := clampTopN(topN, len(order))
	out := make([]models.Recommendation, 0, n)
	for _, pos := range order[:n] {
		out = append(out, buildRecommendation(snap.Records[pos], scores[pos], profile.Skills))
	}
	return out
}

// SkillGap analyzes the candidate's skills against one catalog entry.
func SkillGap(ix *Index, candidateSkills string, id models.ID) (models.InternshipRecord, models.SkillGapAnalysis, error) {
	snap, err := ix.Snapshot()
	if err != nil {
		return models.InternshipRecord{}, models.SkillGapAnalysis{}, &StateError{Op: "skill gap", Err: ErrNotLoaded}
	}
	record, err := snap.Lookup(id)
	if err != nil {
		return models.InternshipRecord{}, models.SkillGapAnalysis{}, err
	}
	return record, skillgap.Analyze(candidateSkills, record.SkillsRequired), nil
}

// MatchLevel buckets a match score for display.
func MatchLevel(score float64) string {
	switch {
	case score >= 80:
		return MatchExcellent
	case score >= 60:
		return MatchGood
	case score >= 40:
		return MatchFair
	default:
		return MatchWeak
	}
}

// Justification is the fixed explanation attached to every recommendation.
func Justification(score float64) string {
	return fmt.Sprintf("Matched with profile by text similarity with score %s", formatScore(score))
}

func buildRecommendation(r models.InternshipRecord, similarity float64, candidateSkills string) models.Recommendation {
	score := ScorePercent(similarity)
	return models.Recommendation{
		InternshipID:    r.ID,
		Title:           r.Title,
		Company:         r.Company,
		Location:        r.Location,
		Sector:          r.Sector,
		Stipend:         r.Stipend,
		DurationMonths:  r.DurationMonths,
		RemoteAvailable: r.RemoteAvailable,
		DifficultyLevel: r.DifficultyLevel,
		MatchScore:      score,
		WhyRecommended:  Justification(score),
		SkillGap:        skillgap.Analyze(candidateSkills, r.SkillsRequired),
	}
}

// ScorePercent scales a similarity in [0, 1] to a percentage with two decimals.
func ScorePercent(similarity float64) float64 {
	return Round(similarity*100, 2)
}

// Round rounds x to the given number of decimal places.
func Round(x float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}

func formatScore(score float64) string {
	s := fmt.Sprintf("%.2f", score)
	// 50.00 -> 50.0, 12.30 -> 12.3
	for len(s) > 0 && s[len(s)-1] == '0' && s[len(s)-2] != '.' {
		s = s[:len(s)-1]
	}
	return s
}

func clampTopN(topN, size int) int {
	if topN <= 0 {
		return 0
	}
	if topN > size {
		return size
	}
	return topN
}
