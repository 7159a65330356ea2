package model

import (
	"time"
)

type UserRole string

const (
	Learner UserRole = "learner"
	Admin   UserRole = "admin"
)

// SkillLevel is the learner's self-declared proficiency band.
type SkillLevel string

const (
	LevelBeginner     SkillLevel = "beginner"
	LevelIntermediate SkillLevel = "intermediate"
	LevelAdvanced     SkillLevel = "advanced"
)

// CareerStage buckets how far along the learner is professionally.
type CareerStage string

const (
	StageStudent CareerStage = "student"
	StageEarly   CareerStage = "early"
	StageMid     CareerStage = "mid"
	StageSenior  CareerStage = "senior"
)

// TimeAvailability is a fixed enumeration of weekly study-hour bands.
type TimeAvailability string

const (
	TimeMinimal   TimeAvailability = "minimal"   // under 2h/week
	TimeLight     TimeAvailability = "light"     // 2-5h/week
	TimeModerate  TimeAvailability = "moderate"  // 5-10h/week
	TimeIntensive TimeAvailability = "intensive" // 10h+/week
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('learner','admin');default:'learner'" json:"role"`

	// Learner profile. Mutated only through the preferences-update
	// operation; every recommendation computation reads a snapshot.
	Level            SkillLevel       `gorm:"size:20;default:'beginner'" json:"level"`
	CareerStage      CareerStage      `gorm:"size:20;default:'student'" json:"careerStage"`
	Skills           []string         `gorm:"type:json" json:"skills"`
	LearningGoals    []string         `gorm:"type:json" json:"learningGoals"`
	TimeAvailability TimeAvailability `gorm:"size:20;default:'light'" json:"timeAvailability"`
	HasPreferences   bool             `gorm:"default:false" json:"hasPreferences"`

	LastLogin time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen  time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// LearnerProfile is the snapshot of profile fields the recommendation
// engine consumes. It is derived from User and immutable within one
// computation.
type LearnerProfile struct {
	UserID           uint             `json:"userId"`
	Level            SkillLevel       `json:"level"`
	CareerStage      CareerStage      `json:"careerStage"`
	Skills           []string         `json:"skills"`
	LearningGoals    []string         `json:"learningGoals"`
	TimeAvailability TimeAvailability `json:"timeAvailability"`
	HasPreferences   bool             `json:"hasPreferences"`
}

// Profile extracts the recommendation-facing snapshot.
func (u *User) Profile() LearnerProfile {
	return LearnerProfile{
		UserID:           u.ID,
		Level:            u.Level,
		CareerStage:      u.CareerStage,
		Skills:           u.Skills,
		LearningGoals:    u.LearningGoals,
		TimeAvailability: u.TimeAvailability,
		HasPreferences:   u.HasPreferences,
	}
}
