package model

import "time"

// LearningVelocity buckets how much the learner completed in the
// trailing 30 days.
type LearningVelocity string

const (
	VelocityLow    LearningVelocity = "Low"
	VelocityMedium LearningVelocity = "Medium"
	VelocityHigh   LearningVelocity = "High"
)

// CourseProgress is the per-course completion summary.
type CourseProgress struct {
	CourseID       uint   `json:"courseId"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Completed      int    `json:"completed"`
	Total          int    `json:"total"`
	CompletionRate int    `json:"completionRate"` // 0-100, 0 when total==0
}

// CategoryStat aggregates completion and retry effort per course category.
type CategoryStat struct {
	Category    string  `json:"category"`
	Completed   int     `json:"completed"`
	Total       int     `json:"total"`
	Rate        int     `json:"rate"` // 0-100
	AvgAttempts float64 `json:"avgAttempts"`
}

// PerformanceMetrics is derived on every call from the catalog and the
// learner's attempt history. Never persisted.
type PerformanceMetrics struct {
	CourseProgress        []CourseProgress `json:"courseProgress"`
	CategoryStats         []CategoryStat   `json:"categoryStats"`
	OverallCompletionRate int              `json:"overallCompletionRate"`
	LearningVelocity      LearningVelocity `json:"learningVelocity"`
	StrongestCategories   []string         `json:"strongestCategories"` // <=3, rate desc
	ImprovementAreas      []string         `json:"improvementAreas"`    // <=3, rate asc
	StrugglingAreas       []string         `json:"strugglingAreas"`     // dedup course titles
	RecentActivityCount   int              `json:"recentActivityCount"` // trailing 7 days
}

// RecommendationFactor is one named component of a recommendation score.
type RecommendationFactor struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Weight int    `json:"weight"`
}

// Recommendation is one ranked course suggestion. Produced fresh per
// request, never stored server-side.
type Recommendation struct {
	CourseID     uint                   `json:"courseId"`
	CourseTitle  string                 `json:"courseTitle"`
	Score        int                    `json:"score"` // 0-100
	Reasoning    string                 `json:"reasoning"`
	Factors      []RecommendationFactor `json:"factors"`
	LearningPath string                 `json:"learningPath,omitempty"`
	AIGenerated  bool                   `json:"aiGenerated"`
}

// RecommendationResponse is the payload served by the recommendations
// endpoint and memoized by the cache.
type RecommendationResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	OverallStrategy string           `json:"overallStrategy"`
	AIGenerated     bool             `json:"aiGenerated"`
	Algorithm       string           `json:"algorithm"`
	GeneratedAt     time.Time        `json:"generatedAt"`
}

// ProgressFeedback is the narrative progress analysis document.
type ProgressFeedback struct {
	AIAnalysis             string    `json:"aiAnalysis"`
	PredictiveInsights     []string  `json:"predictiveInsights"`
	PersonalizedStrategies []string  `json:"personalizedStrategies"`
	MotivationalPsychology string    `json:"motivationalPsychology"`
	DataInsights           []string  `json:"dataInsights"`
	Encouragement          string    `json:"encouragement"`
	AIGenerated            bool      `json:"aiGenerated"`
	Algorithm              string    `json:"algorithm"`
	GeneratedAt            time.Time `json:"generatedAt"`
}

// PathPhase is one stage of a phased learning path.
type PathPhase struct {
	PhaseNumber        int      `json:"phaseNumber"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Duration           string   `json:"duration"`
	Courses            []string `json:"courses"`
	LearningObjectives []string `json:"learningObjectives"`
	Prerequisites      []string `json:"prerequisites"`
}

// LearningPathPlan is the phased plan document.
type LearningPathPlan struct {
	PathTitle         string      `json:"pathTitle"`
	Description       string      `json:"description"`
	EstimatedDuration string      `json:"estimatedDuration"`
	Phases            []PathPhase `json:"phases"`
	Tips              []string    `json:"tips"`
	Milestones        []string    `json:"milestones"`
	AIGenerated       bool        `json:"aiGenerated"`
	Algorithm         string      `json:"algorithm"`
	GeneratedAt       time.Time   `json:"generatedAt"`
}

// SequenceStep is one ordered entry of a sequential path.
type SequenceStep struct {
	Step             int      `json:"step"`
	CourseID         uint     `json:"courseId"`
	CourseTitle      string   `json:"courseTitle"`
	Level            string   `json:"level"`
	Category         string   `json:"category"`
	EstimatedHours   int      `json:"estimatedHours"`
	Priority         string   `json:"priority"`
	Reasoning        string   `json:"reasoning"`
	Prerequisites    []string `json:"prerequisites"`
	LearningOutcomes []string `json:"learningOutcomes"`
	PreparesFor      string   `json:"preparesFor"`
	KeySkills        []string `json:"keySkills"`
	CurrentProgress  int      `json:"currentProgress"`
}

// SequentialPath is the ordered course plan document.
type SequentialPath struct {
	PathTitle              string         `json:"pathTitle"`
	Description            string         `json:"description"`
	TotalEstimatedDuration string         `json:"totalEstimatedDuration"`
	DifficultyProgression  string         `json:"difficultyProgression"`
	CourseSequence         []SequenceStep `json:"courseSequence"`
	LearningStrategy       string         `json:"learningStrategy"`
	Milestones             []string       `json:"milestones"`
	Tips                   []string       `json:"tips"`
	TimeManagement         string         `json:"timeManagement"`
	AIGenerated            bool           `json:"aiGenerated"`
	Algorithm              string         `json:"algorithm"`
	GeneratedAt            time.Time      `json:"generatedAt"`
}

// AnalyticsOverview is the payload of the analytics endpoint: derived
// metrics plus the activity streak.
type AnalyticsOverview struct {
	Metrics    PerformanceMetrics `json:"metrics"`
	StreakDays int                `json:"streakDays"`
}
