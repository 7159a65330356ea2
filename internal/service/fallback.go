package service

import (
	"fmt"
	"learnhub_backend/internal/model"
	"sort"
	"strings"
	"time"
)

// Deterministic generators backing the narrative operations. They use
// only the snapshot, so two calls over the same data render the same
// document apart from the generation timestamp.

func (s *RecommendationService) fallbackFeedback(snap *learnerSnapshot) *model.ProgressFeedback {
	m := snap.metrics

	analysis := fmt.Sprintf(
		"You have completed %d%% of the available material and your learning velocity over the last month is %s. In the last week you worked through %d exercises.",
		m.OverallCompletionRate, strings.ToLower(string(m.LearningVelocity)), m.RecentActivityCount)

	insights := make([]string, 0, 3)
	if len(m.StrongestCategories) > 0 {
		insights = append(insights, fmt.Sprintf("Your strongest area is %s, which positions you well for more advanced material there.", m.StrongestCategories[0]))
	}
	for _, area := range m.ImprovementAreas {
		insights = append(insights, fmt.Sprintf("Completion in %s is lagging behind your other categories; a focused session there would raise your overall rate.", area))
	}

	strategies := make([]string, 0, 3)
	switch snap.profile.TimeAvailability {
	case model.TimeMinimal, model.TimeLight:
		strategies = append(strategies, "With a limited weekly budget, short daily sessions of one or two exercises beat occasional long sittings.")
	default:
		strategies = append(strategies, "Your weekly time budget allows pairing a main course with a lighter secondary topic.")
	}
	for _, title := range m.StrugglingAreas {
		strategies = append(strategies, fmt.Sprintf("You are retrying exercises in %q more than usual. Revisit the fundamentals before the next attempt.", title))
	}

	dataInsights := []string{
		fmt.Sprintf("Overall completion rate: %d%%.", m.OverallCompletionRate),
		fmt.Sprintf("Exercises completed in the last 7 days: %d.", m.RecentActivityCount),
	}
	for _, stat := range m.CategoryStats {
		if stat.Completed > 0 {
			dataInsights = append(dataInsights, fmt.Sprintf("%s: %d of %d exercises done (%d%%).", stat.Category, stat.Completed, stat.Total, stat.Rate))
		}
	}

	motivation := "Consistent practice compounds. Each completed exercise makes the next one easier to start."
	encouragement := "Keep the streak going, you are making measurable progress."
	if m.LearningVelocity == model.VelocityHigh {
		encouragement = "Excellent pace this month. You are completing material faster than most learners."
	} else if m.OverallCompletionRate == 0 {
		encouragement = "Every path starts with the first exercise. Pick one course and complete a single question today."
	}

	return &model.ProgressFeedback{
		AIAnalysis:             analysis,
		PredictiveInsights:     insights,
		PersonalizedStrategies: strategies,
		MotivationalPsychology: motivation,
		DataInsights:           dataInsights,
		Encouragement:          encouragement,
		AIGenerated:            false,
		Algorithm:              deterministicEngine,
		GeneratedAt:            time.Now(),
	}
}

func (s *RecommendationService) fallbackLearningPath(snap *learnerSnapshot, subset []model.Recommendation) *model.LearningPathPlan {
	courses := subsetCourses(snap.catalog, subset)
	if len(courses) == 0 {
		courses = snap.catalog
	}

	phaseDefs := []struct {
		level model.SkillLevel
		title string
		desc  string
	}{
		{model.LevelBeginner, "Foundation", "Build the fundamentals before moving on."},
		{model.LevelIntermediate, "Core Skills", "Apply the fundamentals to realistic problems."},
		{model.LevelAdvanced, "Advanced Practice", "Tackle advanced material and consolidate your expertise."},
	}

	var phases []model.PathPhase
	totalHours := 0
	for _, def := range phaseDefs {
		var titles []string
		var objectives []string
		hours := 0
		for _, c := range courses {
			if c.Level != def.level {
				continue
			}
			titles = append(titles, c.Title)
			objectives = append(objectives, fmt.Sprintf("Complete %s (%s).", c.Title, c.Category))
			hours += c.EstimatedHours
		}
		if len(titles) == 0 {
			continue
		}
		totalHours += hours
		phase := model.PathPhase{
			PhaseNumber:        len(phases) + 1,
			Title:              def.title,
			Description:        def.desc,
			Duration:           fmt.Sprintf("about %d hours", hours),
			Courses:            titles,
			LearningObjectives: objectives,
		}
		if len(phases) > 0 {
			phase.Prerequisites = []string{phases[len(phases)-1].Title}
		}
		phases = append(phases, phase)
	}

	milestones := make([]string, 0, len(phases))
	for _, p := range phases {
		milestones = append(milestones, fmt.Sprintf("Finish the %s phase.", p.Title))
	}

	return &model.LearningPathPlan{
		PathTitle:         "Structured Learning Path",
		Description:       fmt.Sprintf("A level-ordered plan for a %s learner, built from your current recommendations.", snap.profile.Level),
		EstimatedDuration: fmt.Sprintf("about %d hours total", totalHours),
		Phases:            phases,
		Tips: []string{
			"Finish one phase before starting the next.",
			"Retry failed exercises the following day rather than immediately.",
		},
		Milestones:  milestones,
		AIGenerated: false,
		Algorithm:   deterministicEngine,
		GeneratedAt: time.Now(),
	}
}

func (s *RecommendationService) fallbackSequentialPath(snap *learnerSnapshot, subset []model.Recommendation) *model.SequentialPath {
	courses := subsetCourses(snap.catalog, subset)
	if len(courses) == 0 {
		courses = snap.catalog
	}

	ordered := make([]model.Course, len(courses))
	copy(ordered, courses)
	sort.SliceStable(ordered, func(i, j int) bool {
		li, lj := levelRank(ordered[i].Level), levelRank(ordered[j].Level)
		if li != lj {
			return li < lj
		}
		return ordered[i].EstimatedHours < ordered[j].EstimatedHours
	})

	progressByID := make(map[uint]int, len(snap.metrics.CourseProgress))
	for _, cp := range snap.metrics.CourseProgress {
		progressByID[cp.CourseID] = cp.CompletionRate
	}

	totalHours := 0
	sequence := make([]model.SequenceStep, 0, len(ordered))
	for i, c := range ordered {
		totalHours += c.EstimatedHours
		priority := "recommended"
		if i == 0 {
			priority = "start here"
		}
		step := model.SequenceStep{
			Step:           i + 1,
			CourseID:       c.ID,
			CourseTitle:    c.Title,
			Level:          string(c.Level),
			Category:       c.Category,
			EstimatedHours: c.EstimatedHours,
			Priority:       priority,
			Reasoning:      fmt.Sprintf("Placed at step %d by level and workload.", i+1),
			KeySkills:      c.Tags,
			LearningOutcomes: []string{
				fmt.Sprintf("Work through the %s exercises in %s.", c.Category, c.Title),
			},
			CurrentProgress: progressByID[c.ID],
		}
		if i > 0 {
			step.Prerequisites = []string{ordered[i-1].Title}
		}
		if i < len(ordered)-1 {
			step.PreparesFor = ordered[i+1].Title
		}
		sequence = append(sequence, step)
	}

	progression := "steady"
	if len(ordered) > 1 && levelRank(ordered[0].Level) != levelRank(ordered[len(ordered)-1].Level) {
		progression = fmt.Sprintf("%s to %s", ordered[0].Level, ordered[len(ordered)-1].Level)
	}

	return &model.SequentialPath{
		PathTitle:              "Step-by-Step Course Sequence",
		Description:            "Your recommended courses ordered from lightest to most demanding.",
		TotalEstimatedDuration: fmt.Sprintf("about %d hours total", totalHours),
		DifficultyProgression:  progression,
		CourseSequence:         sequence,
		LearningStrategy:       "Complete each course before starting the next so every step builds on the previous one.",
		Milestones:             []string{"Finish the first course.", "Reach the halfway point of the sequence.", "Complete the final course."},
		Tips: []string{
			"Block recurring time slots that match your weekly availability.",
			"Review your analytics after each course to catch weak spots early.",
		},
		TimeManagement: fmt.Sprintf("Plan around your %s weekly availability.", snap.profile.TimeAvailability),
		AIGenerated:    false,
		Algorithm:      deterministicEngine,
		GeneratedAt:    time.Now(),
	}
}

func levelRank(level model.SkillLevel) int {
	switch level {
	case model.LevelBeginner:
		return 0
	case model.LevelIntermediate:
		return 1
	case model.LevelAdvanced:
		return 2
	default:
		return 1
	}
}
