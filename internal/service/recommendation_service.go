package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const aiEngine = "ai-narrative-v1"

// RecommendationService is the narrative gateway. Every operation
// attempts the generative provider and falls through to a deterministic
// generator on any failure, so the caller always receives a well-formed
// payload once the learner and catalog exist.
type RecommendationService struct {
	UserRepo    *repository.UserRepository
	CourseRepo  *repository.CourseRepository
	AttemptRepo *repository.AttemptRepository
	AI          *AIService
	Metrics     *MetricsService
	Scoring     *ScoringService
	Cache       *RecommendationCache
}

func NewRecommendationService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	attemptRepo *repository.AttemptRepository,
	ai *AIService,
	metrics *MetricsService,
	scoring *ScoringService,
	cache *RecommendationCache,
) *RecommendationService {
	return &RecommendationService{
		UserRepo:    userRepo,
		CourseRepo:  courseRepo,
		AttemptRepo: attemptRepo,
		AI:          ai,
		Metrics:     metrics,
		Scoring:     scoring,
		Cache:       cache,
	}
}

// learnerSnapshot bundles the immutable inputs of one computation.
type learnerSnapshot struct {
	profile model.LearnerProfile
	catalog []model.Course
	metrics model.PerformanceMetrics
}

func (s *RecommendationService) loadSnapshot(userID uint) (*learnerSnapshot, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.CourseRepo.Catalog()
	if err != nil {
		return nil, err
	}

	history, err := s.AttemptRepo.HistoryForUser(userID)
	if err != nil {
		return nil, err
	}

	return &learnerSnapshot{
		profile: user.Profile(),
		catalog: catalog,
		metrics: s.Metrics.Aggregate(catalog, history, time.Now()),
	}, nil
}

// GetRecommendations serves the memoized payload when the profile
// fingerprint is unchanged and fresh; forceRefresh bypasses the check
// but still writes through the same key.
func (s *RecommendationService) GetRecommendations(ctx context.Context, userID uint, forceRefresh bool) (*model.RecommendationResponse, error) {
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}

	fingerprint := Fingerprint(snap.profile)
	if !forceRefresh {
		if payload, ok := s.Cache.Lookup(ctx, userID, fingerprint); ok {
			return payload, nil
		}
	}

	resp := s.generateRecommendations(ctx, snap)
	s.Cache.Store(ctx, userID, fingerprint, *resp)
	return resp, nil
}

// InvalidateCache drops the learner's memoized payload, e.g. after a
// preferences update.
func (s *RecommendationService) InvalidateCache(ctx context.Context, userID uint) {
	s.Cache.Invalidate(ctx, userID)
}

func (s *RecommendationService) generateRecommendations(ctx context.Context, snap *learnerSnapshot) *model.RecommendationResponse {
	requestID := uuid.NewString()

	if s.AI.Configured() {
		resp, err := s.attemptAIRecommendations(ctx, snap)
		if err == nil {
			monitoring.NarrativeOutcomes.WithLabelValues("recommendations", "ai").Inc()
			return resp
		}
		logger.Log.Warn("narrative provider failed, serving deterministic recommendations",
			zap.String("request_id", requestID), zap.Error(err))
	}

	monitoring.NarrativeOutcomes.WithLabelValues("recommendations", "fallback").Inc()
	resp := s.Scoring.Recommend(snap.profile, snap.catalog, snap.metrics)
	resp.GeneratedAt = time.Now()
	return &resp
}

// GetProgressFeedback returns the narrative progress analysis.
func (s *RecommendationService) GetProgressFeedback(ctx context.Context, userID uint) (*model.ProgressFeedback, error) {
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}

	if s.AI.Configured() {
		feedback, aiErr := s.attemptAIFeedback(ctx, snap)
		if aiErr == nil {
			monitoring.NarrativeOutcomes.WithLabelValues("feedback", "ai").Inc()
			return feedback, nil
		}
		logger.Log.Warn("narrative provider failed, serving deterministic feedback", zap.Error(aiErr))
	}

	monitoring.NarrativeOutcomes.WithLabelValues("feedback", "fallback").Inc()
	return s.fallbackFeedback(snap), nil
}

// GetLearningPath returns the phased plan document.
func (s *RecommendationService) GetLearningPath(ctx context.Context, userID uint) (*model.LearningPathPlan, error) {
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}

	subset := s.recommendedSubset(ctx, userID, snap)

	if s.AI.Configured() {
		plan, aiErr := s.attemptAILearningPath(ctx, snap, subset)
		if aiErr == nil {
			monitoring.NarrativeOutcomes.WithLabelValues("learning_path", "ai").Inc()
			return plan, nil
		}
		logger.Log.Warn("narrative provider failed, serving deterministic learning path", zap.Error(aiErr))
	}

	monitoring.NarrativeOutcomes.WithLabelValues("learning_path", "fallback").Inc()
	return s.fallbackLearningPath(snap, subset), nil
}

// GetSequentialLearningPath returns the ordered course plan.
func (s *RecommendationService) GetSequentialLearningPath(ctx context.Context, userID uint) (*model.SequentialPath, error) {
	snap, err := s.loadSnapshot(userID)
	if err != nil {
		return nil, err
	}

	subset := s.recommendedSubset(ctx, userID, snap)

	if s.AI.Configured() {
		path, aiErr := s.attemptAISequentialPath(ctx, snap, subset)
		if aiErr == nil {
			monitoring.NarrativeOutcomes.WithLabelValues("sequential_path", "ai").Inc()
			return path, nil
		}
		logger.Log.Warn("narrative provider failed, serving deterministic sequential path", zap.Error(aiErr))
	}

	monitoring.NarrativeOutcomes.WithLabelValues("sequential_path", "fallback").Inc()
	return s.fallbackSequentialPath(snap, subset), nil
}

// recommendedSubset resolves the course set the learner currently sees:
// the cached payload when one is live, otherwise the deterministic
// selection. Path and feedback prompts embed this subset, never the
// whole catalog, to keep the narrative consistent with the visible
// recommendations.
func (s *RecommendationService) recommendedSubset(ctx context.Context, userID uint, snap *learnerSnapshot) []model.Recommendation {
	if payload, ok := s.Cache.Lookup(ctx, userID, Fingerprint(snap.profile)); ok {
		return payload.Recommendations
	}
	return s.Scoring.Recommend(snap.profile, snap.catalog, snap.metrics).Recommendations
}

// --- provider wire schemas, one closed struct set per operation ---

type aiRecommendationFactors struct {
	GoalAlignment        int `json:"goalAlignment"`
	LevelMatch           int `json:"levelMatch"`
	SkillBuilding        int `json:"skillBuilding"`
	ProgressOptimization int `json:"progressOptimization"`
	TimeCommitment       int `json:"timeCommitment"`
}

type aiRecommendationItem struct {
	CourseID     uint                    `json:"courseId"`
	Score        int                     `json:"score"`
	Reasoning    string                  `json:"reasoning"`
	Factors      aiRecommendationFactors `json:"factors"`
	LearningPath string                  `json:"learningPath"`
}

type aiRecommendationPayload struct {
	Recommendations []aiRecommendationItem `json:"recommendations"`
	OverallStrategy string                 `json:"overallStrategy"`
}

type aiFeedbackPayload struct {
	AIAnalysis             string   `json:"aiAnalysis"`
	PredictiveInsights     []string `json:"predictiveInsights"`
	PersonalizedStrategies []string `json:"personalizedStrategies"`
	MotivationalPsychology string   `json:"motivationalPsychology"`
	DataInsights           []string `json:"dataInsights"`
	Encouragement          string   `json:"encouragement"`
}

type aiPathPhase struct {
	PhaseNumber        int      `json:"phaseNumber"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Duration           string   `json:"duration"`
	Courses            []string `json:"courses"`
	LearningObjectives []string `json:"learningObjectives"`
	Prerequisites      []string `json:"prerequisites"`
}

type aiLearningPathPayload struct {
	PathTitle         string        `json:"pathTitle"`
	Description       string        `json:"description"`
	EstimatedDuration string        `json:"estimatedDuration"`
	Phases            []aiPathPhase `json:"phases"`
	Tips              []string      `json:"tips"`
	Milestones        []string      `json:"milestones"`
}

type aiSequenceStep struct {
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

type aiSequentialPathPayload struct {
	PathTitle              string           `json:"pathTitle"`
	Description            string           `json:"description"`
	TotalEstimatedDuration string           `json:"totalEstimatedDuration"`
	DifficultyProgression  string           `json:"difficultyProgression"`
	CourseSequence         []aiSequenceStep `json:"courseSequence"`
	LearningStrategy       string           `json:"learningStrategy"`
	Milestones             []string         `json:"milestones"`
	Tips                   []string         `json:"tips"`
	TimeManagement         string           `json:"timeManagement"`
}

// decodeStrict parses a provider payload against a closed schema. Any
// unknown field, trailing data or type mismatch counts as a malformed
// response and sends the caller down the deterministic path.
func decodeStrict(content string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", util.ErrMalformedResponse, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", util.ErrMalformedResponse)
	}
	return nil
}

func (s *RecommendationService) attemptAIRecommendations(ctx context.Context, snap *learnerSnapshot) (*model.RecommendationResponse, error) {
	content, err := s.AI.ChatJSON(ctx, recommendationSystemPrompt, buildRecommendationPrompt(snap))
	if err != nil {
		return nil, err
	}

	var payload aiRecommendationPayload
	if err := decodeStrict(content, &payload); err != nil {
		return nil, err
	}
	if len(payload.Recommendations) == 0 || payload.OverallStrategy == "" {
		return nil, fmt.Errorf("%w: missing recommendations or strategy", util.ErrMalformedResponse)
	}

	catalogByID := make(map[uint]model.Course, len(snap.catalog))
	for _, course := range snap.catalog {
		catalogByID[course.ID] = course
	}

	recommendations := make([]model.Recommendation, 0, maxRecommendations)
	for _, item := range payload.Recommendations {
		course, ok := catalogByID[item.CourseID]
		if !ok {
			// Provider hallucinated an id; filter it, never error.
			continue
		}
		recommendations = append(recommendations, model.Recommendation{
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			Score:        clampScore(item.Score),
			Reasoning:    item.Reasoning,
			Factors:      aiFactorList(item.Factors),
			LearningPath: item.LearningPath,
			AIGenerated:  true,
		})
		if len(recommendations) == maxRecommendations {
			break
		}
	}

	if len(recommendations) == 0 {
		return nil, fmt.Errorf("%w: no recommendation referenced a catalog course", util.ErrMalformedResponse)
	}

	return &model.RecommendationResponse{
		Recommendations: recommendations,
		OverallStrategy: payload.OverallStrategy,
		AIGenerated:     true,
		Algorithm:       aiEngine,
		GeneratedAt:     time.Now(),
	}, nil
}

func (s *RecommendationService) attemptAIFeedback(ctx context.Context, snap *learnerSnapshot) (*model.ProgressFeedback, error) {
	content, err := s.AI.ChatJSON(ctx, feedbackSystemPrompt, buildFeedbackPrompt(snap))
	if err != nil {
		return nil, err
	}

	var payload aiFeedbackPayload
	if err := decodeStrict(content, &payload); err != nil {
		return nil, err
	}
	if payload.AIAnalysis == "" || payload.Encouragement == "" {
		return nil, fmt.Errorf("%w: missing required feedback fields", util.ErrMalformedResponse)
	}

	return &model.ProgressFeedback{
		AIAnalysis:             payload.AIAnalysis,
		PredictiveInsights:     payload.PredictiveInsights,
		PersonalizedStrategies: payload.PersonalizedStrategies,
		MotivationalPsychology: payload.MotivationalPsychology,
		DataInsights:           payload.DataInsights,
		Encouragement:          payload.Encouragement,
		AIGenerated:            true,
		Algorithm:              aiEngine,
		GeneratedAt:            time.Now(),
	}, nil
}

func (s *RecommendationService) attemptAILearningPath(ctx context.Context, snap *learnerSnapshot, subset []model.Recommendation) (*model.LearningPathPlan, error) {
	content, err := s.AI.ChatJSON(ctx, learningPathSystemPrompt, buildLearningPathPrompt(snap, subset))
	if err != nil {
		return nil, err
	}

	var payload aiLearningPathPayload
	if err := decodeStrict(content, &payload); err != nil {
		return nil, err
	}
	if payload.PathTitle == "" || len(payload.Phases) == 0 {
		return nil, fmt.Errorf("%w: missing path title or phases", util.ErrMalformedResponse)
	}

	phases := make([]model.PathPhase, 0, len(payload.Phases))
	for _, p := range payload.Phases {
		phases = append(phases, model.PathPhase(p))
	}

	return &model.LearningPathPlan{
		PathTitle:         payload.PathTitle,
		Description:       payload.Description,
		EstimatedDuration: payload.EstimatedDuration,
		Phases:            phases,
		Tips:              payload.Tips,
		Milestones:        payload.Milestones,
		AIGenerated:       true,
		Algorithm:         aiEngine,
		GeneratedAt:       time.Now(),
	}, nil
}

func (s *RecommendationService) attemptAISequentialPath(ctx context.Context, snap *learnerSnapshot, subset []model.Recommendation) (*model.SequentialPath, error) {
	content, err := s.AI.ChatJSON(ctx, sequentialPathSystemPrompt, buildSequentialPathPrompt(snap, subset))
	if err != nil {
		return nil, err
	}

	var payload aiSequentialPathPayload
	if err := decodeStrict(content, &payload); err != nil {
		return nil, err
	}
	if payload.PathTitle == "" || len(payload.CourseSequence) == 0 {
		return nil, fmt.Errorf("%w: missing path title or course sequence", util.ErrMalformedResponse)
	}

	catalogByID := make(map[uint]model.Course, len(snap.catalog))
	for _, course := range snap.catalog {
		catalogByID[course.ID] = course
	}

	sequence := make([]model.SequenceStep, 0, len(payload.CourseSequence))
	for _, raw := range payload.CourseSequence {
		if _, ok := catalogByID[raw.CourseID]; !ok {
			continue
		}
		step := model.SequenceStep(raw)
		step.Step = len(sequence) + 1
		step.CurrentProgress = clampScore(step.CurrentProgress)
		sequence = append(sequence, step)
	}

	if len(sequence) == 0 {
		return nil, fmt.Errorf("%w: no sequence step referenced a catalog course", util.ErrMalformedResponse)
	}

	return &model.SequentialPath{
		PathTitle:              payload.PathTitle,
		Description:            payload.Description,
		TotalEstimatedDuration: payload.TotalEstimatedDuration,
		DifficultyProgression:  payload.DifficultyProgression,
		CourseSequence:         sequence,
		LearningStrategy:       payload.LearningStrategy,
		Milestones:             payload.Milestones,
		Tips:                   payload.Tips,
		TimeManagement:         payload.TimeManagement,
		AIGenerated:            true,
		Algorithm:              aiEngine,
		GeneratedAt:            time.Now(),
	}, nil
}

func clampScore(score int) int {
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// aiFactorList maps the provider's named factor object onto the ordered
// factor list, weights summing to 100.
func aiFactorList(f aiRecommendationFactors) []model.RecommendationFactor {
	return []model.RecommendationFactor{
		{Name: "Goal Alignment", Score: clampScore(f.GoalAlignment), Weight: 30},
		{Name: "Level Match", Score: clampScore(f.LevelMatch), Weight: 25},
		{Name: "Skill Building", Score: clampScore(f.SkillBuilding), Weight: 20},
		{Name: "Progress Optimization", Score: clampScore(f.ProgressOptimization), Weight: 15},
		{Name: "Time Commitment", Score: clampScore(f.TimeCommitment), Weight: 10},
	}
}
