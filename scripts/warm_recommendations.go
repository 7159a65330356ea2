// Manually warm the recommendation cache for every learner.
//
// The cache normally fills lazily on first read. Run this after a
// catalog import or a cold deploy so the first page load per user does
// not pay the full computation.
//
// Usage: go run scripts/warm_recommendations.go

package main

import (
	"context"
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/service"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("cannot read config file: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("cannot parse config file: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	ttl := time.Duration(cfg.Cache.TTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}
	cache := service.NewRecommendationCache(service.NewMemoryCacheStore(), ttl)
	if cfg.Cache.Backend == "redis" {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		cache = service.NewRecommendationCache(service.NewRedisCacheStore(rdb, ttl), ttl)
	}

	recommender := service.NewRecommendationService(
		userRepo, courseRepo, attemptRepo,
		service.NewAIService(cfg.AI),
		service.NewMetricsService(),
		service.NewScoringService(),
		cache,
	)

	var users []model.User
	if err := db.Find(&users).Error; err != nil {
		log.Fatalf("cannot list users: %v", err)
	}

	log.Printf("warming recommendations for %d users...", len(users))
	ctx := context.Background()
	for _, user := range users {
		if _, err := recommender.GetRecommendations(ctx, user.ID, true); err != nil {
			log.Printf("user %d: %v", user.ID, err)
		}
	}
	log.Println("done")
}
