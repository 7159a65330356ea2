package service

import (
	"learnhub_backend/internal/model"
	"sort"
	"time"
)

// CalculateStreak counts consecutive calendar days with at least one
// completed attempt, ending today or the day before. Multiple attempts
// on the same day count once; the first gap stops the walk.
func CalculateStreak(history []model.AttemptRecord, now time.Time) int {
	today := truncateToDay(now)

	daySet := make(map[int]bool)
	for _, rec := range history {
		if !rec.Completed {
			continue
		}
		ts := rec.ActiveDay()
		if ts == nil {
			continue
		}
		offset := int(today.Sub(truncateToDay(*ts)).Hours() / 24)
		if offset >= 0 {
			daySet[offset] = true
		}
	}

	if len(daySet) == 0 {
		return 0
	}

	offsets := make([]int, 0, len(daySet))
	for offset := range daySet {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	// A streak may end today or yesterday; anything older is broken.
	if offsets[0] > 1 {
		return 0
	}

	streak := 0
	expected := offsets[0]
	for _, offset := range offsets {
		if offset != expected {
			break
		}
		streak++
		expected++
	}
	return streak
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
