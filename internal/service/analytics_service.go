package service

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"time"
)

// AnalyticsService serves the progress dashboard: derived metrics plus
// the activity streak, both recomputed from the attempt history on
// every call.
type AnalyticsService struct {
	UserRepo    *repository.UserRepository
	CourseRepo  *repository.CourseRepository
	AttemptRepo *repository.AttemptRepository
	Metrics     *MetricsService
}

func NewAnalyticsService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	attemptRepo *repository.AttemptRepository,
	metrics *MetricsService,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:    userRepo,
		CourseRepo:  courseRepo,
		AttemptRepo: attemptRepo,
		Metrics:     metrics,
	}
}

func (s *AnalyticsService) GetOverview(userID uint) (*model.AnalyticsOverview, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
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

	now := time.Now()
	return &model.AnalyticsOverview{
		Metrics:    s.Metrics.Aggregate(catalog, history, now),
		StreakDays: CalculateStreak(history, now),
	}, nil
}

func (s *AnalyticsService) GetStreak(userID uint) (int, error) {
	if _, err := s.UserRepo.FindByID(userID); err != nil {
		return 0, err
	}

	history, err := s.AttemptRepo.HistoryForUser(userID)
	if err != nil {
		return 0, err
	}
	return CalculateStreak(history, time.Now()), nil
}
