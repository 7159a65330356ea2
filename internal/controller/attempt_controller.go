package controller

import (
	"errors"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

type submissionRequest struct {
	QuestionID uint `json:"questionId" binding:"required"`
	Completed  bool `json:"completed"`
}

// @Summary Record a submission outcome
// @Description Upserts the attempt record for the authenticated learner and question
// @Tags attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param submission body submissionRequest true "Judge outcome"
// @Success 200 {object} util.Response
// @Router /api/attempts [post]
func (c *AttemptController) RecordSubmission(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req submissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.AttemptService.RecordSubmission(user.UserID, req.QuestionID, req.Completed)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, record)
}
