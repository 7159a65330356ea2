package repository

import (
	"errors"
	"learnhub_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// HistoryForUser returns the learner's full attempt history. One record
// per (user, question) is guaranteed by the unique index.
func (r *AttemptRepository) HistoryForUser(userID uint) ([]model.AttemptRecord, error) {
	var records []model.AttemptRecord
	err := r.DB.Where("user_id = ?", userID).Find(&records).Error
	return records, err
}

// RecordAttempt bumps the attempt counter for (user, question) and marks
// completion when the external judge accepted the submission.
func (r *AttemptRepository) RecordAttempt(userID, courseID, questionID uint, completed bool) (*model.AttemptRecord, error) {
	now := time.Now()

	var record model.AttemptRecord
	err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).First(&record).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		record = model.AttemptRecord{
			UserID:     userID,
			CourseID:   courseID,
			QuestionID: questionID,
		}
	}

	record.Attempts++
	record.LastAttemptAt = &now
	if completed && !record.Completed {
		record.Completed = true
		record.CompletedAt = &now
	}

	if record.ID == 0 {
		err = r.DB.Create(&record).Error
	} else {
		err = r.DB.Save(&record).Error
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CountCompletedSince counts completions inside the trailing window,
// used by the analytics endpoint for quick activity snapshots.
func (r *AttemptRepository) CountCompletedSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.AttemptRecord{}).
		Where("user_id = ? AND completed = ? AND completed_at >= ?", userID, true, since).
		Count(&count).Error
	return count, err
}
