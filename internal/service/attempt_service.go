package service

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
)

// AttemptService records submission outcomes reported by the exercise
// judge. Only the bookkeeping the analytics and recommendation reads
// consume is stored here; grading itself happens elsewhere.
type AttemptService struct {
	CourseRepo  *repository.CourseRepository
	AttemptRepo *repository.AttemptRepository
}

func NewAttemptService(courseRepo *repository.CourseRepository, attemptRepo *repository.AttemptRepository) *AttemptService {
	return &AttemptService{CourseRepo: courseRepo, AttemptRepo: attemptRepo}
}

// RecordSubmission validates the question against the catalog and
// upserts the (user, question) record.
func (s *AttemptService) RecordSubmission(userID, questionID uint, completed bool) (*model.AttemptRecord, error) {
	question, err := s.CourseRepo.FindQuestion(questionID)
	if err != nil {
		return nil, err
	}
	return s.AttemptRepo.RecordAttempt(userID, question.CourseID, questionID, completed)
}
