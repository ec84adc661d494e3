package controller

import (
	"errors"

	"secaware_backend/internal/model"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListPublic godoc
// @Summary 学员可见的测验目录
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param search query string false "按标题或岗位名称搜索"
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) ListPublic(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListPublic(ctx.Query("search"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetForTaking godoc
// @Summary 答题用的测验详情
// @Description 返回题目和选项，不包含正确答案标记
// @Tags 测验
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetForTaking(ctx *gin.Context) {
	quiz, err := c.QuizService.GetForTaking(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// ListAll godoc
// @Summary 全部测验（管理端）
// @Tags 测验管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/quizzes [get]
func (c *QuizController) ListAll(ctx *gin.Context) {
	quizzes, err := c.QuizService.ListAll()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// GetFull godoc
// @Summary 测验详情（管理端，含正确答案）
// @Tags 测验管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) GetFull(ctx *gin.Context) {
	quiz, err := c.QuizService.GetFull(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

type QuizCreateRequest struct {
	Title string `json:"title" binding:"required"`
}

// Create godoc
// @Summary 创建测验
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body QuizCreateRequest true "测验标题"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Router /api/admin/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req QuizCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Create(req.Title)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, quiz)
}

type QuizVisibilityRequest struct {
	Visibility model.Visibility `json:"visibility" binding:"required"`
}

// UpdateVisibility godoc
// @Summary 更新测验可见性
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body QuizVisibilityRequest true "可见性"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{id}/visibility [patch]
func (c *QuizController) UpdateVisibility(ctx *gin.Context) {
	var req QuizVisibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateVisibility(ctx.Param("id"), req.Visibility)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, quiz)
}

// Update godoc
// @Summary 编辑测验（整体替换题目和答案）
// @Tags 测验管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Param body body service.QuizUpdateRequest true "测验内容"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	var req service.QuizUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case err.Error() == "each question needs at least two answers",
			err.Error() == "each question needs at least one correct answer":
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验及其题目、答案和答题记录
// @Tags 测验管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	if err := c.QuizService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Quiz and related data deleted successfully"})
}
