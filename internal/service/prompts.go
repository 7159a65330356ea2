package service

import (
	"encoding/json"
	"fmt"
	"learnhub_backend/internal/model"
	"strings"
)

const recommendationSystemPrompt = `You are a learning advisor for a programming education platform.
Respond with a single JSON object and nothing else. Schema:
{"recommendations":[{"courseId":number,"score":number,"reasoning":string,"factors":{"goalAlignment":number,"levelMatch":number,"skillBuilding":number,"progressOptimization":number,"timeCommitment":number},"learningPath":string}],"overallStrategy":string}
Scores are integers from 0 to 100. Recommend at most 4 courses. Only use courseId values from the provided catalog. Do not add fields.`

const feedbackSystemPrompt = `You are a learning coach analyzing a student's progress data.
Respond with a single JSON object and nothing else. Schema:
{"aiAnalysis":string,"predictiveInsights":[string],"personalizedStrategies":[string],"motivationalPsychology":string,"dataInsights":[string],"encouragement":string}
Ground every statement in the supplied metrics. Do not add fields.`

const learningPathSystemPrompt = `You are a curriculum designer building a phased learning path.
Respond with a single JSON object and nothing else. Schema:
{"pathTitle":string,"description":string,"estimatedDuration":string,"phases":[{"phaseNumber":number,"title":string,"description":string,"duration":string,"courses":[string],"learningObjectives":[string],"prerequisites":[string]}],"tips":[string],"milestones":[string]}
Only reference course titles from the provided list. Do not add fields.`

const sequentialPathSystemPrompt = `You are a curriculum designer ordering courses into a step-by-step sequence.
Respond with a single JSON object and nothing else. Schema:
{"pathTitle":string,"description":string,"totalEstimatedDuration":string,"difficultyProgression":string,"courseSequence":[{"step":number,"courseId":number,"courseTitle":string,"level":string,"category":string,"estimatedHours":number,"priority":string,"reasoning":string,"prerequisites":[string],"learningOutcomes":[string],"preparesFor":string,"keySkills":[string],"currentProgress":number}],"learningStrategy":string,"milestones":[string],"tips":[string],"timeManagement":string}
Only use courseId values from the provided list. Do not add fields.`

// promptCourse is the catalog projection embedded in prompts. Keeps
// question banks and timestamps out of the provider payload.
type promptCourse struct {
	ID             uint     `json:"id"`
	Title          string   `json:"title"`
	Level          string   `json:"level"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	EstimatedHours int      `json:"estimatedHours"`
}

func promptCatalog(catalog []model.Course) []promptCourse {
	out := make([]promptCourse, 0, len(catalog))
	for _, c := range catalog {
		out = append(out, promptCourse{
			ID:             c.ID,
			Title:          c.Title,
			Level:          string(c.Level),
			Category:       c.Category,
			Tags:           c.Tags,
			EstimatedHours: c.EstimatedHours,
		})
	}
	return out
}

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func writeProfileAndMetrics(b *strings.Builder, snap *learnerSnapshot) {
	fmt.Fprintf(b, "Learner profile:\n%s\n\n", mustJSON(snap.profile))
	fmt.Fprintf(b, "Performance metrics:\n%s\n\n", mustJSON(snap.metrics))
}

func buildRecommendationPrompt(snap *learnerSnapshot) string {
	var b strings.Builder
	b.WriteString("Recommend the next courses for this learner.\n\n")
	writeProfileAndMetrics(&b, snap)
	fmt.Fprintf(&b, "Course catalog:\n%s\n", mustJSON(promptCatalog(snap.catalog)))
	return b.String()
}

func buildFeedbackPrompt(snap *learnerSnapshot) string {
	var b strings.Builder
	b.WriteString("Analyze this learner's progress and produce coaching feedback.\n\n")
	writeProfileAndMetrics(&b, snap)
	return b.String()
}

func buildLearningPathPrompt(snap *learnerSnapshot, subset []model.Recommendation) string {
	var b strings.Builder
	b.WriteString("Design a phased learning path from the recommended courses below.\n\n")
	writeProfileAndMetrics(&b, snap)
	fmt.Fprintf(&b, "Recommended courses:\n%s\n", mustJSON(subset))
	return b.String()
}

func buildSequentialPathPrompt(snap *learnerSnapshot, subset []model.Recommendation) string {
	var b strings.Builder
	b.WriteString("Order the recommended courses below into a step-by-step sequence.\n\n")
	writeProfileAndMetrics(&b, snap)
	fmt.Fprintf(&b, "Recommended courses:\n%s\n\n", mustJSON(subset))
	fmt.Fprintf(&b, "Course details:\n%s\n", mustJSON(promptCatalog(subsetCourses(snap.catalog, subset))))
	return b.String()
}

// subsetCourses resolves recommendations back to catalog entries,
// preserving recommendation order.
func subsetCourses(catalog []model.Course, subset []model.Recommendation) []model.Course {
	byID := make(map[uint]model.Course, len(catalog))
	for _, c := range catalog {
		byID[c.ID] = c
	}
	out := make([]model.Course, 0, len(subset))
	for _, rec := range subset {
		if c, ok := byID[rec.CourseID]; ok {
			out = append(out, c)
		}
	}
	return out
}
