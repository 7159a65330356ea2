package service

import (
	"fmt"
	"learnhub_backend/internal/model"
	"math"
	"sort"
	"strings"
)

const (
	maxRecommendations = 4

	baseScore           = 50
	levelMatchBonus     = 25
	levelStretchBonus   = 10
	goalMatchBonus      = 20
	skillMatchBonus     = 15
	noveltyBonus        = 10
	inProgressBonus     = 5
	masteredPenalty     = 40
	timeFitBonus        = 10
	timeFitBucketSlack  = 1
	deterministicEngine = "rule-scoring-v1"
)

// ScoringService is the deterministic recommender. It needs no network
// access and is the unconditional fallback behind the narrative gateway.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

type scoredCourse struct {
	course model.Course
	score  int
}

// Recommend ranks the catalog for the profile and keeps the top four.
// Equal scores keep catalog order (stable sort); this tie-break is
// deliberate, not an accident of the sort implementation.
func (s *ScoringService) Recommend(profile model.LearnerProfile, catalog []model.Course, metrics model.PerformanceMetrics) model.RecommendationResponse {
	progressByCourse := make(map[uint]model.CourseProgress, len(metrics.CourseProgress))
	for _, cp := range metrics.CourseProgress {
		progressByCourse[cp.CourseID] = cp
	}

	scored := make([]scoredCourse, 0, len(catalog))
	for _, course := range catalog {
		scored = append(scored, scoredCourse{
			course: course,
			score:  s.ScoreCourse(profile, course, progressByCourse[course.ID]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
	if len(scored) > maxRecommendations {
		scored = scored[:maxRecommendations]
	}

	recommendations := make([]model.Recommendation, 0, len(scored))
	for _, sc := range scored {
		recommendations = append(recommendations, model.Recommendation{
			CourseID:    sc.course.ID,
			CourseTitle: sc.course.Title,
			Score:       sc.score,
			Reasoning: fmt.Sprintf("%s fits your %s profile on level, goals and available study time.",
				sc.course.Title, profile.Level),
			Factors:     deterministicFactors(sc.score),
			AIGenerated: false,
		})
	}

	return model.RecommendationResponse{
		Recommendations: recommendations,
		OverallStrategy: "Rule-based matching across level fit, learning goals, declared skills and current progress.",
		AIGenerated:     false,
		Algorithm:       deterministicEngine,
	}
}

// ScoreCourse applies the additive rules and clamps to [0,100].
func (s *ScoringService) ScoreCourse(profile model.LearnerProfile, course model.Course, progress model.CourseProgress) int {
	score := baseScore

	if course.Level == profile.Level {
		score += levelMatchBonus
	} else if isStretchLevel(profile.Level, course.Level) {
		score += levelStretchBonus
	}

	title := strings.ToLower(course.Title)
	category := strings.ToLower(course.Category)
	for _, goal := range profile.LearningGoals {
		g := strings.ToLower(strings.TrimSpace(goal))
		if g == "" {
			continue
		}
		if strings.Contains(title, g) || strings.Contains(category, g) {
			score += goalMatchBonus
			break
		}
	}

	if skillMatches(profile.Skills, course.Tags, title) {
		score += skillMatchBonus
	}

	switch {
	case progress.CompletionRate == 0:
		score += noveltyBonus
	case progress.CompletionRate >= 100:
		score -= masteredPenalty
	default:
		score += inProgressBonus
	}

	if bucketDistance(availabilityBucket(profile.TimeAvailability), hoursBucket(course.EstimatedHours)) <= timeFitBucketSlack {
		score += timeFitBonus
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// isStretchLevel reports whether the course sits exactly one level above
// the learner. The stretch bonus rewards reaching upward, there is no
// penalty for mismatches in the other direction.
func isStretchLevel(profileLevel, courseLevel model.SkillLevel) bool {
	return (profileLevel == model.LevelBeginner && courseLevel == model.LevelIntermediate) ||
		(profileLevel == model.LevelIntermediate && courseLevel == model.LevelAdvanced)
}

func skillMatches(skills, tags []string, loweredTitle string) bool {
	for _, skill := range skills {
		sk := strings.ToLower(strings.TrimSpace(skill))
		if sk == "" {
			continue
		}
		for _, tag := range tags {
			if strings.EqualFold(strings.TrimSpace(tag), sk) {
				return true
			}
		}
		if strings.Contains(loweredTitle, sk) {
			return true
		}
	}
	return false
}

// availabilityBucket maps the weekly time bands onto the coarse 1..4
// scale shared with hoursBucket.
func availabilityBucket(t model.TimeAvailability) int {
	switch t {
	case model.TimeMinimal:
		return 1
	case model.TimeLight:
		return 2
	case model.TimeModerate:
		return 3
	case model.TimeIntensive:
		return 4
	default:
		return 2
	}
}

func hoursBucket(estimatedHours int) int {
	switch {
	case estimatedHours <= 3:
		return 1
	case estimatedHours <= 8:
		return 2
	case estimatedHours <= 20:
		return 3
	default:
		return 4
	}
}

func bucketDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// deterministicFactors derives the fixed factor triple from the final
// score. Weights always sum to 100.
func deterministicFactors(score int) []model.RecommendationFactor {
	return []model.RecommendationFactor{
		{Name: "Profile Match", Score: int(math.Round(0.8 * float64(score))), Weight: 50},
		{Name: "Content Relevance", Score: int(math.Round(0.9 * float64(score))), Weight: 30},
		{Name: "Learning Path", Score: int(math.Round(0.7 * float64(score))), Weight: 20},
	}
}
