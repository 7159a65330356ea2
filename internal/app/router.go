package app

import (
	"learnhub_backend/internal/config"
	"learnhub_backend/internal/middleware"
	"learnhub_backend/internal/model"
	"learnhub_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/auth/register", c.auth.Register)
		public.POST("/auth/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.user.GetProfile)
		authGroup.PUT("/profile", c.user.UpdatePreferences)

		authGroup.GET("/courses", c.course.GetCatalog)
		authGroup.GET("/courses/:id", c.course.GetCourse)

		authGroup.POST("/attempts", c.attempt.RecordSubmission)

		recommendations := authGroup.Group("/recommendations")
		{
			recommendations.GET("", c.recommendation.GetRecommendations)
			recommendations.GET("/feedback", c.recommendation.GetProgressFeedback)
			recommendations.GET("/learning-path", c.recommendation.GetLearningPath)
			recommendations.GET("/sequential-path", c.recommendation.GetSequentialPath)
			recommendations.POST("/invalidate", c.recommendation.InvalidateCache)
		}

		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/overview", c.analytics.GetOverview)
			analytics.GET("/streak", c.analytics.GetStreak)
		}

		admin := authGroup.Group("/admin")
		admin.Use(middleware.RoleMiddleware(model.Admin))
		{
			admin.POST("/users/:id/invalidate-cache", c.recommendation.InvalidateCacheForUser)
		}
	}
}
