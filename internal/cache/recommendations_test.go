package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"internship-recommender/internal/models"
)

func createTestRecommendations() []models.Recommendation {
	return []models.Recommendation{{
		InternshipID:    "1",
		Title:           "Data Analyst Intern",
		Company:         "Infosys",
		MatchScore:      72.5,
		WhyRecommended:  "Matched with profile by text similarity with score 72.5",
		DifficultyLevel: "Medium",
		SkillGap: models.SkillGapAnalysis{
			ExistingSkills:       []string{"python"},
			MissingSkills:        []string{"sql"},
			SkillMatchPercentage: 50,
		},
	}}
}

func TestKey(t *testing.T) {
	profile := models.CandidateProfile{Skills: "python, sql", Interests: "data"}

	key := Key("abc123", "cand-1", profile, 5)
	assert.Regexp(t, `^recommendations:abc123:cand-1:[0-9a-f]{16}:5$`, key)

	assert.Equal(t, key, Key("abc123", "cand-1", models.CandidateProfile{Skills: " Python, SQL ", Interests: "DATA", Name: "ignored"}, 5))
	assert.NotEqual(t, key, Key("def456", "cand-1", profile, 5))
	assert.NotEqual(t, key, Key("abc123", "cand-1", profile, 3))
	assert.NotEqual(t, key, Key("abc123", "cand-1", models.CandidateProfile{Skills: "python, sql data"}, 5))
}

func TestRecommendationCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRecommendationCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "rec:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "rec:k", createTestRecommendations()))

	got, ok, err := c.Get(ctx, "rec:k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, createTestRecommendations(), got)
	assert.Equal(t, time.Minute, mr.TTL("rec:k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.Get(ctx, "rec:k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecommendationCache_EmptyListIsAHit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRecommendationCache(client, time.Minute)
	require.NoError(t, c.Set(context.Background(), "rec:empty", []models.Recommendation{}))

	got, ok, err := c.Get(context.Background(), "rec:empty")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestRecommendationCache_Errors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRecommendationCache(client, time.Minute)
	ctx := context.Background()

	mock.ExpectGet("rec:down").SetErr(errors.New("connection refused"))
	_, ok, err := c.Get(ctx, "rec:down")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectGet("rec:corrupt").SetVal("{not json")
	_, ok, err = c.Get(ctx, "rec:corrupt")
	assert.False(t, ok)
	assert.ErrorContains(t, err, "cache decode")

	data, _ := json.Marshal(createTestRecommendations())
	mock.ExpectSet("rec:k", data, time.Minute).SetErr(errors.New("READONLY"))
	assert.ErrorContains(t, c.Set(ctx, "rec:k", createTestRecommendations()), "READONLY")

	assert.NoError(t, mock.ExpectationsWereMet())
}
