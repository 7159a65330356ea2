package service

import (
	"learnhub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func learnerProfile() model.LearnerProfile {
	return model.LearnerProfile{
		UserID:           1,
		Level:            model.LevelIntermediate,
		CareerStage:      model.StageEarly,
		Skills:           []string{"javascript"},
		LearningGoals:    []string{"data science"},
		TimeAvailability: model.TimeModerate,
		HasPreferences:   true,
	}
}

func scoringCatalog() []model.Course {
	return []model.Course{
		{
			BaseModel:      model.BaseModel{ID: 1},
			Title:          "Programming Fundamentals",
			Level:          model.LevelBeginner,
			Category:       "Programming",
			Tags:           []string{"basics"},
			EstimatedHours: 6,
		},
		{
			BaseModel:      model.BaseModel{ID: 2},
			Title:          "Data Structures in JavaScript",
			Level:          model.LevelIntermediate,
			Category:       "Data Science",
			Tags:           []string{"javascript", "algorithms"},
			EstimatedHours: 12,
		},
		{
			BaseModel:      model.BaseModel{ID: 3},
			Title:          "Web APIs with Go",
			Level:          model.LevelIntermediate,
			Category:       "Backend",
			Tags:           []string{"go", "http"},
			EstimatedHours: 10,
		},
		{
			BaseModel:      model.BaseModel{ID: 4},
			Title:          "Advanced Algorithm Design",
			Level:          model.LevelAdvanced,
			Category:       "Computer Science",
			Tags:           []string{"algorithms"},
			EstimatedHours: 30,
		},
		{
			BaseModel:      model.BaseModel{ID: 5},
			Title:          "Intro to Databases",
			Level:          model.LevelBeginner,
			Category:       "Databases",
			Tags:           []string{"sql"},
			EstimatedHours: 5,
		},
	}
}

func TestRecommendInvariants(t *testing.T) {
	svc := NewScoringService()
	catalog := scoringCatalog()

	resp := svc.Recommend(learnerProfile(), catalog, model.PerformanceMetrics{})

	assert.LessOrEqual(t, len(resp.Recommendations), 4)
	assert.False(t, resp.AIGenerated)
	assert.Equal(t, "rule-scoring-v1", resp.Algorithm)

	validIDs := make(map[uint]bool)
	for _, c := range catalog {
		validIDs[c.ID] = true
	}
	for _, rec := range resp.Recommendations {
		assert.True(t, validIDs[rec.CourseID], "recommendation must reference a catalog course")
		assert.GreaterOrEqual(t, rec.Score, 0)
		assert.LessOrEqual(t, rec.Score, 100)

		weightSum := 0
		for _, f := range rec.Factors {
			weightSum += f.Weight
		}
		assert.Equal(t, 100, weightSum)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	svc := NewScoringService()
	catalog := scoringCatalog()
	metrics := NewMetricsService().Aggregate(catalog, nil, time.Now())

	first := svc.Recommend(learnerProfile(), catalog, metrics)
	second := svc.Recommend(learnerProfile(), catalog, metrics)

	assert.Equal(t, first, second)
}

func TestScoreCourseLevelGoalSkillAndTimeFit(t *testing.T) {
	svc := NewScoringService()
	profile := learnerProfile()
	course := scoringCatalog()[1] // Data Structures in JavaScript

	// Base 50 + level match 25 + goal match on category 20 + skill tag
	// match 15 + novelty 10 + time fit 10 = 130, clamped to 100.
	score := svc.ScoreCourse(profile, course, model.CourseProgress{})
	assert.Equal(t, 100, score)
}

func TestScoreCourseStretchLevel(t *testing.T) {
	svc := NewScoringService()
	profile := model.LearnerProfile{
		Level:            model.LevelBeginner,
		TimeAvailability: model.TimeIntensive,
	}
	course := model.Course{
		BaseModel:      model.BaseModel{ID: 10},
		Title:          "Intermediate Topics",
		Level:          model.LevelIntermediate,
		Category:       "Misc",
		EstimatedHours: 40,
	}

	// Base 50 + stretch 10 + novelty 10 + time fit (buckets 4 vs 4) 10.
	assert.Equal(t, 80, svc.ScoreCourse(profile, course, model.CourseProgress{}))
}

func TestScoreCourseMasteredPenalty(t *testing.T) {
	svc := NewScoringService()
	profile := learnerProfile()
	course := scoringCatalog()[1]

	fresh := svc.ScoreCourse(profile, course, model.CourseProgress{CompletionRate: 0})
	mastered := svc.ScoreCourse(profile, course, model.CourseProgress{CompletionRate: 100, Completed: 5, Total: 5})

	assert.Greater(t, fresh, mastered)
}

func TestRecommendRanksMasteredCourseLower(t *testing.T) {
	svc := NewScoringService()
	catalog := scoringCatalog()
	metrics := model.PerformanceMetrics{
		CourseProgress: []model.CourseProgress{
			{CourseID: 2, Completed: 4, Total: 4, CompletionRate: 100},
		},
	}

	resp := svc.Recommend(learnerProfile(), catalog, metrics)

	require.NotEmpty(t, resp.Recommendations)
	assert.NotEqual(t, uint(2), resp.Recommendations[0].CourseID,
		"a fully mastered course must not rank first")
}

func TestRecommendTieBreakKeepsCatalogOrder(t *testing.T) {
	svc := NewScoringService()
	profile := model.LearnerProfile{Level: model.LevelBeginner, TimeAvailability: model.TimeLight}
	catalog := []model.Course{
		{BaseModel: model.BaseModel{ID: 7}, Title: "First", Level: model.LevelBeginner, Category: "A", EstimatedHours: 5},
		{BaseModel: model.BaseModel{ID: 8}, Title: "Second", Level: model.LevelBeginner, Category: "B", EstimatedHours: 5},
	}

	resp := svc.Recommend(profile, catalog, model.PerformanceMetrics{})

	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, resp.Recommendations[0].Score, resp.Recommendations[1].Score)
	assert.Equal(t, uint(7), resp.Recommendations[0].CourseID)
	assert.Equal(t, uint(8), resp.Recommendations[1].CourseID)
}

func TestDeterministicFactors(t *testing.T) {
	factors := deterministicFactors(80)

	require.Len(t, factors, 3)
	assert.Equal(t, model.RecommendationFactor{Name: "Profile Match", Score: 64, Weight: 50}, factors[0])
	assert.Equal(t, model.RecommendationFactor{Name: "Content Relevance", Score: 72, Weight: 30}, factors[1])
	assert.Equal(t, model.RecommendationFactor{Name: "Learning Path", Score: 56, Weight: 20}, factors[2])
}
