package service

import (
	"context"
	"encoding/json"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *learnerSnapshot {
	catalog := scoringCatalog()
	return &learnerSnapshot{
		profile: learnerProfile(),
		catalog: catalog,
		metrics: NewMetricsService().Aggregate(catalog, nil, time.Now()),
	}
}

// gatewayWithProvider builds a RecommendationService whose provider is
// the given handler. Repositories stay nil: these tests drive the
// generation step directly from a snapshot.
func gatewayWithProvider(t *testing.T, handler http.HandlerFunc) *RecommendationService {
	t.Helper()
	var ai *AIService
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		ai = NewAIService(aiConfig(srv.URL))
	} else {
		ai = NewAIService(config.AIConfig{})
	}

	return NewRecommendationService(
		nil, nil, nil,
		ai,
		NewMetricsService(),
		NewScoringService(),
		NewRecommendationCache(NewMemoryCacheStore(), time.Hour),
	)
}

func chatContent(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestGenerateRecommendationsUnconfiguredProviderUsesFallback(t *testing.T) {
	svc := gatewayWithProvider(t, nil)
	snap := testSnapshot()

	resp := svc.generateRecommendations(context.Background(), snap)

	require.NotNil(t, resp)
	assert.False(t, resp.AIGenerated)
	assert.Equal(t, "rule-scoring-v1", resp.Algorithm)
	assert.LessOrEqual(t, len(resp.Recommendations), 4)
	assert.False(t, resp.GeneratedAt.IsZero())
}

func TestGenerateRecommendationsMalformedPayloadFallsBack(t *testing.T) {
	svc := gatewayWithProvider(t, chatContent(`{"unexpected":"shape"}`))
	snap := testSnapshot()

	resp := svc.generateRecommendations(context.Background(), snap)

	require.NotNil(t, resp)
	assert.False(t, resp.AIGenerated, "a malformed provider payload must degrade to the deterministic path")
	assert.Equal(t, "rule-scoring-v1", resp.Algorithm)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestGenerateRecommendationsProviderOutageFallsBack(t *testing.T) {
	svc := gatewayWithProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	snap := testSnapshot()

	resp := svc.generateRecommendations(context.Background(), snap)

	require.NotNil(t, resp)
	assert.False(t, resp.AIGenerated)
	assert.NotEmpty(t, resp.Recommendations)
}

func TestAttemptAIRecommendationsParsesAndSanitizes(t *testing.T) {
	payload := `{
		"recommendations": [
			{"courseId": 2, "score": 140, "reasoning": "strong fit",
			 "factors": {"goalAlignment": 90, "levelMatch": 85, "skillBuilding": 80, "progressOptimization": 70, "timeCommitment": 60},
			 "learningPath": "continue with algorithms"},
			{"courseId": 999, "score": 90, "reasoning": "hallucinated",
			 "factors": {"goalAlignment": 1, "levelMatch": 1, "skillBuilding": 1, "progressOptimization": 1, "timeCommitment": 1},
			 "learningPath": ""},
			{"courseId": 3, "score": -5, "reasoning": "negative score",
			 "factors": {"goalAlignment": 10, "levelMatch": 10, "skillBuilding": 10, "progressOptimization": 10, "timeCommitment": 10},
			 "learningPath": ""}
		],
		"overallStrategy": "focus on data structures"
	}`
	svc := gatewayWithProvider(t, chatContent(payload))
	snap := testSnapshot()

	resp, err := svc.attemptAIRecommendations(context.Background(), snap)

	require.NoError(t, err)
	assert.True(t, resp.AIGenerated)
	assert.Equal(t, "ai-narrative-v1", resp.Algorithm)
	assert.Equal(t, "focus on data structures", resp.OverallStrategy)

	// Course 999 is not in the catalog and must be dropped silently.
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, uint(2), resp.Recommendations[0].CourseID)
	assert.Equal(t, "Data Structures in JavaScript", resp.Recommendations[0].CourseTitle)
	assert.Equal(t, 100, resp.Recommendations[0].Score, "scores above 100 are clamped")
	assert.Equal(t, 0, resp.Recommendations[1].Score, "negative scores are clamped")

	factors := resp.Recommendations[0].Factors
	require.Len(t, factors, 5)
	assert.Equal(t, "Goal Alignment", factors[0].Name)
	weightSum := 0
	for _, f := range factors {
		weightSum += f.Weight
	}
	assert.Equal(t, 100, weightSum)
}

func TestAttemptAIRecommendationsCapsAtFour(t *testing.T) {
	payload := `{
		"recommendations": [
			{"courseId": 1, "score": 90, "reasoning": "a", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""},
			{"courseId": 2, "score": 80, "reasoning": "b", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""},
			{"courseId": 3, "score": 70, "reasoning": "c", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""},
			{"courseId": 4, "score": 60, "reasoning": "d", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""},
			{"courseId": 5, "score": 50, "reasoning": "e", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""}
		],
		"overallStrategy": "spread wide"
	}`
	svc := gatewayWithProvider(t, chatContent(payload))

	resp, err := svc.attemptAIRecommendations(context.Background(), testSnapshot())

	require.NoError(t, err)
	assert.Len(t, resp.Recommendations, 4)
}

func TestAttemptAIRecommendationsAllUnknownIDsIsMalformed(t *testing.T) {
	payload := `{
		"recommendations": [
			{"courseId": 998, "score": 90, "reasoning": "x", "factors": {"goalAlignment":1,"levelMatch":1,"skillBuilding":1,"progressOptimization":1,"timeCommitment":1}, "learningPath": ""}
		],
		"overallStrategy": "irrelevant"
	}`
	svc := gatewayWithProvider(t, chatContent(payload))

	_, err := svc.attemptAIRecommendations(context.Background(), testSnapshot())

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	var payload aiFeedbackPayload
	err := decodeStrict(`{"aiAnalysis":"a","surprise":"field"}`, &payload)
	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestDecodeStrictRejectsTrailingData(t *testing.T) {
	var payload aiFeedbackPayload
	err := decodeStrict(`{"aiAnalysis":"a"}{"aiAnalysis":"b"}`, &payload)
	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}

func TestFallbackFeedbackShape(t *testing.T) {
	svc := gatewayWithProvider(t, nil)
	snap := testSnapshot()

	feedback := svc.fallbackFeedback(snap)

	assert.False(t, feedback.AIGenerated)
	assert.Equal(t, "rule-scoring-v1", feedback.Algorithm)
	assert.NotEmpty(t, feedback.AIAnalysis)
	assert.NotEmpty(t, feedback.Encouragement)
	assert.NotEmpty(t, feedback.MotivationalPsychology)
	assert.NotEmpty(t, feedback.DataInsights)
	assert.False(t, feedback.GeneratedAt.IsZero())
}

func TestFallbackLearningPathOrdersPhasesByLevel(t *testing.T) {
	svc := gatewayWithProvider(t, nil)
	snap := testSnapshot()

	plan := svc.fallbackLearningPath(snap, nil)

	assert.False(t, plan.AIGenerated)
	require.NotEmpty(t, plan.Phases)
	for i, phase := range plan.Phases {
		assert.Equal(t, i+1, phase.PhaseNumber)
		assert.NotEmpty(t, phase.Courses)
	}
	// Catalog spans all three levels, so the first phase is Foundation.
	assert.Equal(t, "Foundation", plan.Phases[0].Title)
}

func TestFallbackSequentialPathOrdering(t *testing.T) {
	svc := gatewayWithProvider(t, nil)
	snap := testSnapshot()

	path := svc.fallbackSequentialPath(snap, nil)

	assert.False(t, path.AIGenerated)
	require.NotEmpty(t, path.CourseSequence)

	prevLevel, prevHours := -1, -1
	for i, step := range path.CourseSequence {
		assert.Equal(t, i+1, step.Step)
		rank := levelRank(model.SkillLevel(step.Level))
		if rank == prevLevel {
			assert.GreaterOrEqual(t, step.EstimatedHours, prevHours)
		} else {
			assert.Greater(t, rank, prevLevel)
		}
		prevLevel, prevHours = rank, step.EstimatedHours
	}
}

func TestAttemptAISequentialPathFiltersAndRenumbers(t *testing.T) {
	payload := `{
		"pathTitle": "Custom Path",
		"description": "d",
		"totalEstimatedDuration": "6 weeks",
		"difficultyProgression": "beginner to advanced",
		"courseSequence": [
			{"step": 9, "courseId": 999, "courseTitle": "Ghost", "level": "beginner", "category": "X", "estimatedHours": 1, "priority": "high", "reasoning": "", "prerequisites": [], "learningOutcomes": [], "preparesFor": "", "keySkills": [], "currentProgress": 0},
			{"step": 3, "courseId": 2, "courseTitle": "Data Structures in JavaScript", "level": "intermediate", "category": "Data Science", "estimatedHours": 12, "priority": "high", "reasoning": "", "prerequisites": [], "learningOutcomes": [], "preparesFor": "", "keySkills": [], "currentProgress": 250}
		],
		"learningStrategy": "s",
		"milestones": [],
		"tips": [],
		"timeManagement": "t"
	}`
	svc := gatewayWithProvider(t, chatContent(payload))

	path, err := svc.attemptAISequentialPath(context.Background(), testSnapshot(), nil)

	require.NoError(t, err)
	require.Len(t, path.CourseSequence, 1)
	assert.Equal(t, 1, path.CourseSequence[0].Step)
	assert.Equal(t, uint(2), path.CourseSequence[0].CourseID)
	assert.Equal(t, 100, path.CourseSequence[0].CurrentProgress)
	assert.True(t, path.AIGenerated)
}

func TestAttemptAIFeedbackRequiresCoreFields(t *testing.T) {
	payload := `{"aiAnalysis":"","predictiveInsights":[],"personalizedStrategies":[],"motivationalPsychology":"","dataInsights":[],"encouragement":""}`
	svc := gatewayWithProvider(t, chatContent(payload))

	_, err := svc.attemptAIFeedback(context.Background(), testSnapshot())

	assert.ErrorIs(t, err, util.ErrMalformedResponse)
}
