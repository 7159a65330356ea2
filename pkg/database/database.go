package database

import (
	"fmt"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.CourseQuestion{},
		&model.AttemptRecord{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedDemoAccount(db)
	seedCatalog(db)

	return db, nil
}

// seedDemoAccount creates a disabled-by-default demo learner so a fresh
// install has something to log in with.
func seedDemoAccount(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("learnhub-demo"), bcrypt.DefaultCost)
	if err != nil {
		return
	}

	db.Create(&model.User{
		Name:             "Demo Learner",
		Email:            "demo@learnhub.local",
		Password:         string(hash),
		Role:             model.Learner,
		Level:            model.LevelBeginner,
		CareerStage:      model.StageStudent,
		TimeAvailability: model.TimeLight,
	})
}

// seedCatalog inserts a starter course catalog when the table is empty.
func seedCatalog(db *gorm.DB) {
	var count int64
	db.Model(&model.Course{}).Count(&count)
	if count > 0 {
		return
	}

	defaultCourses := []model.Course{
		{
			Title:          "Programming Fundamentals",
			Description:    "Variables, control flow and functions from scratch.",
			Level:          model.LevelBeginner,
			Category:       "Programming Basics",
			Tags:           []string{"variables", "functions", "loops"},
			EstimatedHours: 6,
			Order:          1,
			Questions: []model.CourseQuestion{
				{Title: "Hello output", Difficulty: "easy", Order: 1},
				{Title: "Branching practice", Difficulty: "easy", Order: 2},
				{Title: "Loop drills", Difficulty: "medium", Order: 3},
			},
		},
		{
			Title:          "Data Structures in JavaScript",
			Description:    "Arrays, maps, stacks and queues with hands-on exercises.",
			Level:          model.LevelIntermediate,
			Category:       "Data Science",
			Tags:           []string{"javascript", "arrays", "algorithms"},
			EstimatedHours: 10,
			Order:          2,
			Questions: []model.CourseQuestion{
				{Title: "Array rotation", Difficulty: "medium", Order: 1},
				{Title: "Stack evaluator", Difficulty: "medium", Order: 2},
				{Title: "Queue scheduler", Difficulty: "hard", Order: 3},
			},
		},
		{
			Title:          "Web APIs with Go",
			Description:    "REST services, middleware and JSON handling.",
			Level:          model.LevelIntermediate,
			Category:       "Backend Development",
			Tags:           []string{"go", "http", "rest"},
			EstimatedHours: 12,
			Order:          3,
			Questions: []model.CourseQuestion{
				{Title: "Routing basics", Difficulty: "easy", Order: 1},
				{Title: "Middleware chain", Difficulty: "medium", Order: 2},
			},
		},
		{
			Title:          "Advanced Algorithm Design",
			Description:    "Dynamic programming, graphs and complexity analysis.",
			Level:          model.LevelAdvanced,
			Category:       "Algorithms",
			Tags:           []string{"graphs", "dp", "complexity"},
			EstimatedHours: 20,
			Order:          4,
			Questions: []model.CourseQuestion{
				{Title: "Shortest paths", Difficulty: "hard", Order: 1},
				{Title: "Knapsack variants", Difficulty: "hard", Order: 2},
			},
		},
	}

	for i := range defaultCourses {
		db.Create(&defaultCourses[i])
	}
}
