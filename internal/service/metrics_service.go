package service

import (
	"learnhub_backend/internal/model"
	"math"
	"sort"
	"time"
)

const (
	velocityWindowDays = 30
	recentWindowDays   = 7

	strongCategoryRate   = 60
	improvementRateLimit = 40

	highVelocityCompletions   = 10
	mediumVelocityCompletions = 5

	// A course is a struggling area once retries outnumber completions
	// three to one.
	strugglingAttemptFactor = 3
)

// MetricsService reduces a learner's attempt history against the course
// catalog into performance summaries. Pure computation: no repository or
// network access, deterministic for identical inputs.
type MetricsService struct{}

func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

type categoryAccum struct {
	category  string
	completed int
	total     int
	attempts  int
	records   int
}

// Aggregate recomputes PerformanceMetrics from scratch. Empty catalogs
// or histories yield all-zero metrics, never an error.
func (s *MetricsService) Aggregate(catalog []model.Course, history []model.AttemptRecord, now time.Time) model.PerformanceMetrics {
	byCourse := make(map[uint][]model.AttemptRecord, len(catalog))
	for _, rec := range history {
		byCourse[rec.CourseID] = append(byCourse[rec.CourseID], rec)
	}

	metrics := model.PerformanceMetrics{
		CourseProgress:      make([]model.CourseProgress, 0, len(catalog)),
		CategoryStats:       []model.CategoryStat{},
		StrongestCategories: []string{},
		ImprovementAreas:    []string{},
		StrugglingAreas:     []string{},
		LearningVelocity:    model.VelocityLow,
	}

	categories := make(map[string]*categoryAccum)
	var categoryOrder []string
	strugglingSeen := make(map[string]bool)
	totalCompleted := 0
	totalQuestions := 0

	for _, course := range catalog {
		total := len(course.Questions)
		completed := 0
		attemptSum := 0
		for _, rec := range byCourse[course.ID] {
			if rec.Completed {
				completed++
			}
			attemptSum += rec.Attempts
		}

		metrics.CourseProgress = append(metrics.CourseProgress, model.CourseProgress{
			CourseID:       course.ID,
			Title:          course.Title,
			Category:       course.Category,
			Completed:      completed,
			Total:          total,
			CompletionRate: percentage(completed, total),
		})

		acc, ok := categories[course.Category]
		if !ok {
			acc = &categoryAccum{category: course.Category}
			categories[course.Category] = acc
			categoryOrder = append(categoryOrder, course.Category)
		}
		acc.completed += completed
		acc.total += total
		acc.attempts += attemptSum
		acc.records += len(byCourse[course.ID])

		if completed > 0 && attemptSum > strugglingAttemptFactor*completed && !strugglingSeen[course.Title] {
			strugglingSeen[course.Title] = true
			metrics.StrugglingAreas = append(metrics.StrugglingAreas, course.Title)
		}

		totalCompleted += completed
		totalQuestions += total
	}

	for _, name := range categoryOrder {
		acc := categories[name]
		avgAttempts := 0.0
		if acc.records > 0 {
			avgAttempts = float64(acc.attempts) / float64(acc.records)
		}
		metrics.CategoryStats = append(metrics.CategoryStats, model.CategoryStat{
			Category:    acc.category,
			Completed:   acc.completed,
			Total:       acc.total,
			Rate:        percentage(acc.completed, acc.total),
			AvgAttempts: avgAttempts,
		})
	}

	metrics.StrongestCategories = topCategories(metrics.CategoryStats,
		func(c model.CategoryStat) bool { return c.Rate >= strongCategoryRate },
		func(a, b model.CategoryStat) bool { return a.Rate > b.Rate })
	metrics.ImprovementAreas = topCategories(metrics.CategoryStats,
		func(c model.CategoryStat) bool { return c.Rate > 0 && c.Rate < improvementRateLimit },
		func(a, b model.CategoryStat) bool { return a.Rate < b.Rate })

	metrics.OverallCompletionRate = percentage(totalCompleted, totalQuestions)

	monthlyCompletions := 0
	for _, rec := range history {
		if rec.CompletedAt == nil {
			continue
		}
		age := now.Sub(*rec.CompletedAt)
		if age < 0 {
			continue
		}
		if age <= velocityWindowDays*24*time.Hour {
			monthlyCompletions++
		}
		if age <= recentWindowDays*24*time.Hour {
			metrics.RecentActivityCount++
		}
	}

	switch {
	case monthlyCompletions >= highVelocityCompletions:
		metrics.LearningVelocity = model.VelocityHigh
	case monthlyCompletions >= mediumVelocityCompletions:
		metrics.LearningVelocity = model.VelocityMedium
	default:
		metrics.LearningVelocity = model.VelocityLow
	}

	return metrics
}

// percentage rounds 100*completed/total, guarding the zero denominator.
func percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// topCategories filters, sorts stably and keeps the first three. Stable
// sort keeps catalog order for equal rates.
func topCategories(stats []model.CategoryStat, keep func(model.CategoryStat) bool, less func(a, b model.CategoryStat) bool) []string {
	filtered := make([]model.CategoryStat, 0, len(stats))
	for _, c := range stats {
		if keep(c) {
			filtered = append(filtered, c)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool { return less(filtered[i], filtered[j]) })

	names := make([]string, 0, 3)
	for _, c := range filtered {
		names = append(names, c.Category)
		if len(names) == 3 {
			break
		}
	}
	return names
}
