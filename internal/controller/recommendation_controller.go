package controller

import (
	"errors"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type RecommendationController struct {
	RecommendationService *service.RecommendationService
}

func NewRecommendationController(recommendationService *service.RecommendationService) *RecommendationController {
	return &RecommendationController{RecommendationService: recommendationService}
}

// @Summary Get course recommendations
// @Description Returns the learner's ranked course recommendations, cached for up to an hour per profile state
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param refresh query bool false "Bypass the cache and recompute" default(false)
// @Success 200 {object} util.Response
// @Router /api/recommendations [get]
func (c *RecommendationController) GetRecommendations(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	forceRefresh := ctx.Query("refresh") == "true"

	resp, err := c.RecommendationService.GetRecommendations(ctx.Request.Context(), user.UserID, forceRefresh)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// @Summary Get progress feedback
// @Description Returns the narrative analysis of the learner's progress
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/recommendations/feedback [get]
func (c *RecommendationController) GetProgressFeedback(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	feedback, err := c.RecommendationService.GetProgressFeedback(ctx.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, feedback)
}

// @Summary Get phased learning path
// @Description Returns a multi-phase study plan built from the learner's recommendations
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/recommendations/learning-path [get]
func (c *RecommendationController) GetLearningPath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.RecommendationService.GetLearningPath(ctx.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// @Summary Get sequential learning path
// @Description Returns the learner's recommended courses ordered into a step-by-step sequence
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/recommendations/sequential-path [get]
func (c *RecommendationController) GetSequentialPath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.RecommendationService.GetSequentialLearningPath(ctx.Request.Context(), user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, path)
}

// @Summary Invalidate cached recommendations
// @Description Drops the learner's memoized recommendation payload
// @Tags recommendations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/recommendations/invalidate [post]
func (c *RecommendationController) InvalidateCache(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	c.RecommendationService.InvalidateCache(ctx.Request.Context(), user.UserID)
	util.Success(ctx, gin.H{"message": "Recommendation cache invalidated"})
}

// @Summary Invalidate a learner's cached recommendations
// @Description Admin operation, used after catalog edits that should reach a learner immediately
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} util.Response
// @Router /api/admin/users/{id}/invalidate-cache [post]
func (c *RecommendationController) InvalidateCacheForUser(ctx *gin.Context) {
	userID := util.MustParseUint(ctx.Param("id"))
	if userID == 0 {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}

	c.RecommendationService.InvalidateCache(ctx.Request.Context(), userID)
	util.Success(ctx, gin.H{"message": "Recommendation cache invalidated"})
}
