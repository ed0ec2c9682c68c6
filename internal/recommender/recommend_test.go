package recommender

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-recommender/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestCatalog() []models.InternshipRecord {
	return []models.InternshipRecord{
		{ID: "1", Title: "Data Analyst Intern", Company: "Infosys", Location: "Bangalore", Sector: "Technology", SkillsRequired: "python, sql", Stipend: 15000, DurationMonths: 6, DifficultyLevel: "Hard"},
		{ID: "2", Title: "Accounts Assistant", Company: "Tata Steel", Location: "Jamshedpur", Sector: "Finance", SkillsRequired: "excel", Stipend: 8000, DurationMonths: 3, RemoteAvailable: true},
		{ID: "3", Title: "Social Media Intern", Company: "Zomato", Location: "Gurgaon", Sector: "Marketing", SkillsRequired: "social media, content writing", Stipend: 10000, DurationMonths: 3, DifficultyLevel: "Easy"},
		{ID: "4", Title: "Python Developer Intern", Company: "Wipro", Location: "Pune", Sector: "Technology", SkillsRequired: "python, programming, communication", Stipend: 12000, DurationMonths: 6},
		{ID: "5", Title: "Field Sales Trainee", Company: "HUL", Location: "Mumbai", Sector: "Sales", SkillsRequired: "communication", Stipend: 7000, DurationMonths: 2},
	}
}

func loadedIndex(t *testing.T, records []models.InternshipRecord) *Index {
	t.Helper()
	ix := NewIndex()
	_, err := ix.Load(records)
	require.NoError(t, err)
	return ix
}

// ==========================
// Index Tests
// ==========================

func TestIndex_Load(t *testing.T) {
	ix := NewIndex()
	assert.False(t, ix.Loaded())

	snap, err := ix.Load(createTestCatalog())
	require.NoError(t, err)

	assert.True(t, ix.Loaded())
	assert.Equal(t, 5, snap.Size())
	assert.Len(t, snap.Matrix, 5)
	assert.Len(t, snap.Version, 16)
	assert.Greater(t, snap.Vectorizer.VocabularySize(), 0)
	assert.Equal(t, "Medium", snap.Records[1].DifficultyLevel)
	assert.Equal(t, "Hard", snap.Records[0].DifficultyLevel)

	current, err := ix.Snapshot()
	require.NoError(t, err)
	assert.Same(t, snap, current)
}

func TestIndex_LoadEmptyCatalogKeepsPreviousState(t *testing.T) {
	ix := NewIndex()

	_, err := ix.Load(nil)
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
	assert.False(t, ix.Loaded())

	first, err := ix.Load(createTestCatalog())
	require.NoError(t, err)

	_, err = ix.Load([]models.InternshipRecord{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	current, err := ix.Snapshot()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestIndex_LoadStopWordOnlyCatalog(t *testing.T) {
	_, err := NewIndex().Load([]models.InternshipRecord{{ID: "1", Title: "the", Company: "and"}})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestIndex_LoadDuplicateIDs(t *testing.T) {
	records := createTestCatalog()
	records[2].ID = "1"

	_, err := NewIndex().Load(records)
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestIndex_MissingIDsUsePosition(t *testing.T) {
	ix := loadedIndex(t, []models.InternshipRecord{
		{Title: "Python Intern"},
		{Title: "Excel Intern"},
	})
	snap, err := ix.Snapshot()
	require.NoError(t, err)

	rec, err := snap.Lookup("1")
	require.NoError(t, err)
	assert.Equal(t, "Excel Intern", rec.Title)
}

func TestIndex_SnapshotBeforeLoad(t *testing.T) {
	_, err := NewIndex().Snapshot()
	var stateErr *StateError
	require.True(t, errors.As(err, &stateErr))
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestIndex_VersionTracksContent(t *testing.T) {
	a, err := Build(createTestCatalog())
	require.NoError(t, err)
	b, err := Build(createTestCatalog())
	require.NoError(t, err)
	assert.Equal(t, a.Version, b.Version)

	changed := createTestCatalog()
	changed[0].SkillsRequired = "python, sql, tableau"
	c, err := Build(changed)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version, c.Version)
}

// ==========================
// Ranking Tests
// ==========================

func TestRecommend_SortedAndBounded(t *testing.T) {
	ix := loadedIndex(t, createTestCatalog())
	profile := models.CandidateProfile{
		Skills:             "python, sql",
		Interests:          "data analysis",
		PreferredSector:    "Technology",
		PreferredLocations: "Bangalore",
	}

	recs, err := Recommend(ix, profile, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, models.ID("1"), recs[0].InternshipID)
	for i, r := range recs {
		assert.GreaterOrEqual(t, r.MatchScore, 0.0)
		assert.LessOrEqual(t, r.MatchScore, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, recs[i-1].MatchScore, r.MatchScore)
		}
		assert.NotNil(t, r.SkillGap.ExistingSkills)
		assert.NotNil(t, r.SkillGap.MissingSkills)
		assert.Equal(t, Justification(r.MatchScore), r.WhyRecommended)
	}
	assert.Equal(t, []string{"python", "sql"}, recs[0].SkillGap.ExistingSkills)
	assert.Equal(t, 100.0, recs[0].SkillGap.SkillMatchPercentage)
}

func TestRecommend_TopNBoundaries(t *testing.T) {
	ix := loadedIndex(t, createTestCatalog())
	profile := models.CandidateProfile{Skills: "excel"}

	tests := []struct {
		name string
		topN int
		want int
	}{
		{"zero", 0, 0},
		{"negative", -3, 0},
		{"within catalog", 2, 2},
		{"exact catalog size", 5, 5},
		{"larger than catalog", 50, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := Recommend(ix, profile, tt.topN)
			require.NoError(t, err)
			assert.Len(t, recs, tt.want)
			assert.NotNil(t, recs)
		})
	}
}

func TestRecommend_BlankProfileReturnsCatalogOrder(t *testing.T) {
	ix := loadedIndex(t, createTestCatalog())

	recs, err := Recommend(ix, models.CandidateProfile{}, 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	for i, r := range recs {
		assert.Equal(t, 0.0, r.MatchScore)
		assert.Equal(t, createTestCatalog()[i].ID, r.InternshipID)
	}
}

func TestRecommend_TiesKeepCatalogOrder(t *testing.T) {
	records := []models.InternshipRecord{
		{ID: "a", Title: "Python Intern", Location: "Pune"},
		{ID: "b", Title: "Java Intern", Location: "Delhi"},
		{ID: "c", Title: "Python Intern", Location: "Pune"},
		{ID: "d", Title: "Python Intern", Location: "Pune"},
	}
	ix := loadedIndex(t, records)

	recs, err := Recommend(ix, models.CandidateProfile{Skills: "python"}, 4)
	require.NoError(t, err)

	ids := []models.ID{recs[0].InternshipID, recs[1].InternshipID, recs[2].InternshipID, recs[3].InternshipID}
	assert.Equal(t, []models.ID{"a", "c", "d", "b"}, ids)
	assert.Equal(t, 0.0, recs[3].MatchScore)
}

func TestRecommend_DeterministicAcrossRefits(t *testing.T) {
	profile := models.CandidateProfile{Skills: "communication", Interests: "sales marketing", PreferredLocations: "Mumbai"}

	first, err := Recommend(loadedIndex(t, createTestCatalog()), profile, 5)
	require.NoError(t, err)
	second, err := Recommend(loadedIndex(t, createTestCatalog()), profile, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecommend_BeforeLoad(t *testing.T) {
	recs, err := Recommend(NewIndex(), models.CandidateProfile{Skills: "python"}, 5)
	assert.Nil(t, recs)
	var stateErr *StateError
	assert.True(t, errors.As(err, &stateErr))
}

func TestRecommend_SkillGapScenario(t *testing.T) {
	ix := loadedIndex(t, []models.InternshipRecord{
		{ID: "1", SkillsRequired: "python, sql"},
		{ID: "2", SkillsRequired: "excel"},
	})

	recs, err := Recommend(ix, models.CandidateProfile{Skills: "python, excel"}, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := map[models.ID]models.SkillGapAnalysis{}
	for _, r := range recs {
		byID[r.InternshipID] = r.SkillGap
	}
	assert.Equal(t, []string{"python"}, byID["1"].ExistingSkills)
	assert.Equal(t, []string{"sql"}, byID["1"].MissingSkills)
	assert.Equal(t, 50.0, byID["1"].SkillMatchPercentage)
	assert.Equal(t, []string{"excel"}, byID["2"].ExistingSkills)
	assert.Empty(t, byID["2"].MissingSkills)
	assert.Equal(t, 100.0, byID["2"].SkillMatchPercentage)
}

func TestRecommend_ConcurrentReadsDuringReload(t *testing.T) {
	ix := loadedIndex(t, createTestCatalog())
	profile := models.CandidateProfile{Skills: "python"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				recs, err := Recommend(ix, profile, 5)
				if assert.NoError(t, err) {
					assert.Len(t, recs, 5)
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		_, err := ix.Load(createTestCatalog())
		require.NoError(t, err)
	}
	wg.Wait()
}

// ==========================
// Skill Gap / Helpers
// ==========================

func TestSkillGap(t *testing.T) {
	ix := loadedIndex(t, createTestCatalog())

	rec, gap, err := SkillGap(ix, "Python", "4")
	require.NoError(t, err)
	assert.Equal(t, "Python Developer Intern", rec.Title)
	assert.Equal(t, []string{"python"}, gap.ExistingSkills)
	assert.Equal(t, []string{"communication", "programming"}, gap.MissingSkills)
	assert.InDelta(t, 33.333, gap.SkillMatchPercentage, 0.001)

	_, _, err = SkillGap(ix, "python", "404")
	var dataErr *DataError
	require.True(t, errors.As(err, &dataErr))
	assert.ErrorIs(t, err, ErrInternshipNotFound)

	_, _, err = SkillGap(NewIndex(), "python", "1")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestMatchLevel(t *testing.T) {
	assert.Equal(t, MatchExcellent, MatchLevel(80))
	assert.Equal(t, MatchGood, MatchLevel(79.99))
	assert.Equal(t, MatchGood, MatchLevel(60))
	assert.Equal(t, MatchFair, MatchLevel(40))
	assert.Equal(t, MatchWeak, MatchLevel(39.99))
	assert.Equal(t, MatchWeak, MatchLevel(0))
}

func TestScoreFormatting(t *testing.T) {
	assert.Equal(t, 12.35, ScorePercent(0.123456))
	assert.Equal(t, 100.0, ScorePercent(1))
	assert.Equal(t, "Matched with profile by text similarity with score 50.0", Justification(50))
	assert.Equal(t, "Matched with profile by text similarity with score 12.35", Justification(12.35))
	assert.Equal(t, "Matched with profile by text similarity with score 0.0", Justification(0))
}

func TestSnapshot_Browse(t *testing.T) {
	snap, err := Build(createTestCatalog())
	require.NoError(t, err)

	assert.Len(t, snap.Filter("", ""), 5)
	assert.Len(t, snap.Filter("tech", ""), 2)
	assert.Len(t, snap.Filter("technology", "PUNE"), 1)
	assert.Empty(t, snap.Filter("aviation", ""))

	assert.Equal(t, []string{"Finance", "Marketing", "Sales", "Technology"}, snap.Sectors())
	assert.Equal(t, []string{"Bangalore", "Gurgaon", "Jamshedpur", "Mumbai", "Pune"}, snap.Locations())
}
