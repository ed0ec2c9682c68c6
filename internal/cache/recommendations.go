// Package cache stores ranked recommendations in Redis, keyed by the catalog
// version so a reload never serves results from an older index.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"internship-recommender/internal/models"
)

const keyPrefix = "recommendations"

type RecommendationCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRecommendationCache(client redis.Cmdable, ttl time.Duration) *RecommendationCache {
	return &RecommendationCache{client: client, ttl: ttl}
}

// Key builds the cache key for one request. Only the profile fields that
// influence ranking and skill gaps take part in the fingerprint.
func Key(catalogVersion, candidateID string, profile models.CandidateProfile, topN int) string {
	h := sha256.New()
	for _, part := range []string{profile.Skills, profile.Interests, profile.PreferredSector, profile.PreferredLocations} {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(part))))
		h.Write([]byte{0})
	}
	fingerprint := hex.EncodeToString(h.Sum(nil))[:16]
	return strings.Join([]string{keyPrefix, catalogVersion, candidateID, fingerprint, strconv.Itoa(topN)}, ":")
}

// Get returns the cached list. A miss is reported as ok=false with a nil error.
func (c *RecommendationCache) Get(ctx context.Context, key string) ([]models.Recommendation, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var recs []models.Recommendation
	if err := json.Unmarshal([]byte(val), &recs); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}
	return recs, true, nil
}

func (c *RecommendationCache) Set(ctx context.Context, key string, recs []models.Recommendation) error {
	data, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
