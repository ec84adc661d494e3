package controller

import (
	"errors"

	"secaware_backend/internal/model"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
}

func NewLearningController(learningService *service.LearningService) *LearningController {
	return &LearningController{LearningService: learningService}
}

// ListPublic godoc
// @Summary 学员可见的学习资料
// @Tags 学习资料
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/learnings [get]
func (c *LearningController) ListPublic(ctx *gin.Context) {
	learnings, err := c.LearningService.List(true)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, learnings)
}

// Get godoc
// @Summary 学习资料详情
// @Tags 学习资料
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Success 200 {object} util.Response{data=model.Learning}
// @Failure 404 {object} util.Response
// @Router /api/learnings/{id} [get]
func (c *LearningController) Get(ctx *gin.Context) {
	learning, err := c.LearningService.Get(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrLearningNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, learning)
}

// ListAll godoc
// @Summary 全部学习资料（管理端）
// @Tags 学习资料管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/learnings [get]
func (c *LearningController) ListAll(ctx *gin.Context) {
	learnings, err := c.LearningService.List(false)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, learnings)
}

type LearningCreateRequest struct {
	Title string             `json:"title" binding:"required"`
	Type  model.LearningType `json:"type" binding:"required"`
}

// Create godoc
// @Summary 创建学习资料
// @Tags 学习资料管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body LearningCreateRequest true "标题与类型"
// @Success 201 {object} util.Response{data=model.Learning}
// @Router /api/admin/learnings [post]
func (c *LearningController) Create(ctx *gin.Context) {
	var req LearningCreateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learning, err := c.LearningService.Create(req.Title, req.Type)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, learning)
}

type LearningVisibilityRequest struct {
	Visibility model.Visibility `json:"visibility" binding:"required"`
}

// UpdateVisibility godoc
// @Summary 更新学习资料可见性
// @Tags 学习资料管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Param body body LearningVisibilityRequest true "可见性"
// @Success 200 {object} util.Response{data=model.Learning}
// @Failure 404 {object} util.Response
// @Router /api/admin/learnings/{id}/visibility [patch]
func (c *LearningController) UpdateVisibility(ctx *gin.Context) {
	var req LearningVisibilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learning, err := c.LearningService.UpdateVisibility(ctx.Param("id"), req.Visibility)
	if err != nil {
		if errors.Is(err, util.ErrLearningNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, learning)
}

// Update godoc
// @Summary 编辑学习资料（整体替换内容与岗位关联）
// @Tags 学习资料管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Param body body service.LearningUpdateRequest true "资料内容"
// @Success 200 {object} util.Response{data=model.Learning}
// @Failure 404 {object} util.Response
// @Router /api/admin/learnings/{id} [put]
func (c *LearningController) Update(ctx *gin.Context) {
	var req service.LearningUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	learning, err := c.LearningService.Update(ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrLearningNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, learning)
}

// Delete godoc
// @Summary 删除学习资料及其内容
// @Tags 学习资料管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "资料ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/learnings/{id} [delete]
func (c *LearningController) Delete(ctx *gin.Context) {
	if err := c.LearningService.Delete(ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrLearningNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}
