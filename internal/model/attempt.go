package model

import "time"

// AttemptRecord tracks one learner's history with one question. One row
// per (user, question); the submission handler upserts into it, this
// subsystem only reads.
// swagger:model AttemptRecord
type AttemptRecord struct {
	BaseModel
	UserID        uint       `gorm:"uniqueIndex:idx_user_question;not null" json:"userId"`
	QuestionID    uint       `gorm:"uniqueIndex:idx_user_question;not null" json:"questionId"`
	CourseID      uint       `gorm:"index;not null" json:"courseId"`
	Completed     bool       `gorm:"default:false" json:"completed"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	Attempts      int        `gorm:"default:0" json:"attempts"`
	LastAttemptAt *time.Time `json:"lastAttemptAt,omitempty"`
}

func (AttemptRecord) TableName() string {
	return "attempt_records"
}

// ActiveDay returns the day the record last saw activity, preferring
// the last attempt timestamp over the completion timestamp.
func (a *AttemptRecord) ActiveDay() *time.Time {
	if a.LastAttemptAt != nil {
		return a.LastAttemptAt
	}
	return a.CompletedAt
}
