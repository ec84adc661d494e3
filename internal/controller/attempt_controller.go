package controller

import (
	"errors"

	"secaware_backend/internal/service"
	"secaware_backend/internal/util"
	"secaware_backend/pkg/logger"
	"secaware_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// GetEligibility godoc
// @Summary 查询答题资格
// @Description 返回最近一次答题记录、剩余次数和是否可重考
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=service.Eligibility}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id}/attempt [get]
func (c *AttemptController) GetEligibility(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	eligibility, err := c.AttemptService.GetEligibility(user.UserID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		logger.Log.Error("Error fetching quiz eligibility",
			zap.Uint("userId", user.UserID),
			zap.String("quizId", ctx.Param("id")),
			zap.Error(err),
		)
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, eligibility)
}

// Submit godoc
// @Summary 提交一次完成的测验
// @Description 服务端按题目正确答案重新判分并写入台账，次数用尽时返回409
// @Tags 测验
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body service.SubmitRequest true "作答内容"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/quizzes/{id}/attempt [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quizID := ctx.Param("id")
	result, err := c.AttemptService.Submit(user.UserID, quizID, req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAttemptsExhausted):
			monitoring.QuizSubmissionCounter.WithLabelValues("rejected").Inc()
			util.Conflict(ctx, "Maximum attempts reached")
		default:
			logger.Log.Error("Error recording quiz attempt",
				zap.Uint("userId", user.UserID),
				zap.String("quizId", quizID),
				zap.Error(err),
			)
			util.InternalServerError(ctx)
		}
		return
	}

	if result.Passed {
		monitoring.QuizSubmissionCounter.WithLabelValues("passed").Inc()
	} else {
		monitoring.QuizSubmissionCounter.WithLabelValues("failed").Inc()
	}

	util.Success(ctx, result)
}

// MarkAsDone godoc
// @Summary 确认测验已完成
// @Description 幂等操作，要求最近一次答题已通过
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /api/quizzes/{id}/mark-as-done [post]
func (c *AttemptController) MarkAsDone(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID := ctx.Param("id")
	if err := c.AttemptService.MarkAsDone(user.UserID, quizID); err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrIncompleteAttempt):
			util.BadRequest(ctx, "Cannot mark incomplete quiz as done")
		default:
			logger.Log.Error("Error marking quiz as done",
				zap.Uint("userId", user.UserID),
				zap.String("quizId", quizID),
				zap.Error(err),
			)
			util.InternalServerError(ctx)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "Quiz marked as done"})
}
