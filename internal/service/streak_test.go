package service

import (
	"learnhub_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func streakRecord(daysAgo int, now time.Time) model.AttemptRecord {
	ts := now.Add(-time.Duration(daysAgo) * 24 * time.Hour)
	return model.AttemptRecord{
		UserID:        1,
		QuestionID:    uint(1000 + daysAgo),
		Completed:     true,
		CompletedAt:   &ts,
		LastAttemptAt: &ts,
	}
}

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		daysAgo  []int
		expected int
	}{
		{"no history", nil, 0},
		{"single day today", []int{0}, 1},
		{"streak ending today", []int{0, 1, 2}, 3},
		{"streak ending yesterday", []int{1, 2, 3}, 3},
		{"gap stops the walk", []int{0, 1, 2, 4}, 3},
		{"last activity two days ago", []int{2, 3}, 0},
		{"unordered input", []int{2, 0, 1}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var history []model.AttemptRecord
			for _, d := range tc.daysAgo {
				history = append(history, streakRecord(d, now))
			}
			assert.Equal(t, tc.expected, CalculateStreak(history, now))
		})
	}
}

func TestCalculateStreakSameDayCountsOnce(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 0, 0, 0, time.UTC)
	morning := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 21, 0, 0, 0, time.UTC)

	history := []model.AttemptRecord{
		{UserID: 1, QuestionID: 1, Completed: true, CompletedAt: &morning, LastAttemptAt: &morning},
		{UserID: 1, QuestionID: 2, Completed: true, CompletedAt: &evening, LastAttemptAt: &evening},
	}

	assert.Equal(t, 1, CalculateStreak(history, now))
}

func TestCalculateStreakIgnoresIncompleteAttempts(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	ts := now.Add(-2 * time.Hour)

	history := []model.AttemptRecord{
		{UserID: 1, QuestionID: 1, Completed: false, LastAttemptAt: &ts},
	}

	assert.Equal(t, 0, CalculateStreak(history, now))
}

func TestCalculateStreakFallsBackToCompletedAt(t *testing.T) {
	now := time.Date(2026, 3, 15, 14, 0, 0, 0, time.UTC)
	ts := now.Add(-3 * time.Hour)

	history := []model.AttemptRecord{
		{UserID: 1, QuestionID: 1, Completed: true, CompletedAt: &ts},
	}

	assert.Equal(t, 1, CalculateStreak(history, now))
}
