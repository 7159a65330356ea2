package service

import (
	"context"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
)

// PreferencesUpdate carries the learner-profile fields the preferences
// endpoint may change.
type PreferencesUpdate struct {
	Level            model.SkillLevel       `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	CareerStage      model.CareerStage      `json:"careerStage" binding:"required,oneof=student early mid senior"`
	Skills           []string               `json:"skills"`
	LearningGoals    []string               `json:"learningGoals"`
	TimeAvailability model.TimeAvailability `json:"timeAvailability" binding:"required,oneof=minimal light moderate intensive"`
}

type UserService struct {
	UserRepo *repository.UserRepository
	Cache    *RecommendationCache
}

func NewUserService(userRepo *repository.UserRepository, cache *RecommendationCache) *UserService {
	return &UserService{UserRepo: userRepo, Cache: cache}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(userID)
}

// UpdatePreferences writes the new profile and drops the learner's
// memoized recommendations so the next read recomputes against the
// changed fingerprint.
func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, update PreferencesUpdate) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	user.Level = update.Level
	user.CareerStage = update.CareerStage
	user.Skills = update.Skills
	user.LearningGoals = update.LearningGoals
	user.TimeAvailability = update.TimeAvailability
	user.HasPreferences = true

	if err := s.UserRepo.UpdateProfile(user); err != nil {
		return nil, err
	}

	s.Cache.Invalidate(ctx, userID)
	return user, nil
}
