package model

// swagger:model Course
type Course struct {
	BaseModel
	Title          string           `gorm:"size:255;not null" json:"title"`
	Description    string           `gorm:"type:text" json:"description"`
	Level          SkillLevel       `gorm:"size:20;not null;index" json:"level"`
	Category       string           `gorm:"size:100;not null;index" json:"category"`
	Tags           []string         `gorm:"type:json" json:"tags"`
	EstimatedHours int              `gorm:"default:0" json:"estimatedHours"`
	Order          int              `gorm:"default:0" json:"order"`
	Questions      []CourseQuestion `gorm:"foreignKey:CourseID" json:"questions,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseQuestion is one exercise inside a course. The judging of
// submissions happens in an external service; this subsystem only reads
// the question list to size completion rates.
// swagger:model CourseQuestion
type CourseQuestion struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Difficulty  string `gorm:"size:20;default:'medium'" json:"difficulty"` // easy, medium, hard
	Order       int    `gorm:"default:0" json:"order"`
	Description string `gorm:"type:text" json:"description"`
}

func (CourseQuestion) TableName() string {
	return "course_questions"
}
