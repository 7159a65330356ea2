package service

import (
	"context"
	"learnhub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cachedResponse(strategy string) model.RecommendationResponse {
	return model.RecommendationResponse{
		Recommendations: []model.Recommendation{{CourseID: 1, CourseTitle: "Go Basics", Score: 85}},
		OverallStrategy: strategy,
		Algorithm:       deterministicEngine,
		GeneratedAt:     time.Now(),
	}
}

func TestCacheHitWithinTTL(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)
	ctx := context.Background()
	fp := Fingerprint(learnerProfile())

	cache.Store(ctx, 1, fp, cachedResponse("first"))

	payload, ok := cache.Lookup(ctx, 1, fp)
	require.True(t, ok)
	assert.Equal(t, "first", payload.OverallStrategy)
}

func TestCacheMissForUnknownUser(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)

	_, ok := cache.Lookup(context.Background(), 42, Fingerprint(learnerProfile()))
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Millisecond)
	ctx := context.Background()
	fp := Fingerprint(learnerProfile())

	cache.Store(ctx, 1, fp, cachedResponse("first"))
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Lookup(ctx, 1, fp)
	assert.False(t, ok, "entry past the TTL must not be served")
}

func TestCacheFingerprintMismatchForcesRecompute(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)
	ctx := context.Background()

	profile := learnerProfile()
	cache.Store(ctx, 1, Fingerprint(profile), cachedResponse("first"))

	changed := profile
	changed.Level = model.LevelAdvanced

	_, ok := cache.Lookup(ctx, 1, Fingerprint(changed))
	assert.False(t, ok, "a changed profile must not see the old payload")
}

func TestCacheStoreSupersedesPreviousEntry(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)
	ctx := context.Background()

	profile := learnerProfile()
	oldFP := Fingerprint(profile)
	cache.Store(ctx, 1, oldFP, cachedResponse("old"))

	changed := profile
	changed.TimeAvailability = model.TimeIntensive
	newFP := Fingerprint(changed)
	cache.Store(ctx, 1, newFP, cachedResponse("new"))

	// The old fingerprint no longer resolves; one live entry per user.
	_, ok := cache.Lookup(ctx, 1, oldFP)
	assert.False(t, ok)

	payload, ok := cache.Lookup(ctx, 1, newFP)
	require.True(t, ok)
	assert.Equal(t, "new", payload.OverallStrategy)
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)
	ctx := context.Background()
	fp := Fingerprint(learnerProfile())

	cache.Store(ctx, 1, fp, cachedResponse("first"))
	cache.Invalidate(ctx, 1)

	_, ok := cache.Lookup(ctx, 1, fp)
	assert.False(t, ok)
}

func TestCacheIsPerUser(t *testing.T) {
	cache := NewRecommendationCache(NewMemoryCacheStore(), time.Hour)
	ctx := context.Background()
	fp := Fingerprint(learnerProfile())

	cache.Store(ctx, 1, fp, cachedResponse("user one"))

	_, ok := cache.Lookup(ctx, 2, fp)
	assert.False(t, ok)
}

func TestFingerprintIgnoresSliceOrder(t *testing.T) {
	a := learnerProfile()
	a.Skills = []string{"go", "sql", "javascript"}
	a.LearningGoals = []string{"backend", "data science"}

	b := learnerProfile()
	b.Skills = []string{"sql", "javascript", "go"}
	b.LearningGoals = []string{"data science", "backend"}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
}

func TestFingerprintChangesWithProfile(t *testing.T) {
	base := learnerProfile()

	changed := base
	changed.CareerStage = model.StageSenior

	assert.NotEqual(t, Fingerprint(base), Fingerprint(changed))
}
