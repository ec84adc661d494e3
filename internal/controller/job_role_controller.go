package controller

import (
	"errors"
	"strconv"

	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobRoleController struct {
	JobRoleService *service.JobRoleService
}

func NewJobRoleController(jobRoleService *service.JobRoleService) *JobRoleController {
	return &JobRoleController{JobRoleService: jobRoleService}
}

type JobRoleRequest struct {
	Name string `json:"name" binding:"required"`
}

// List godoc
// @Summary 岗位列表
// @Tags 岗位管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /api/admin/job-roles [get]
func (c *JobRoleController) List(ctx *gin.Context) {
	roles, err := c.JobRoleService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, roles)
}

// Create godoc
// @Summary 创建岗位
// @Tags 岗位管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body JobRoleRequest true "岗位名称"
// @Success 201 {object} util.Response{data=model.JobRole}
// @Router /api/admin/job-roles [post]
func (c *JobRoleController) Create(ctx *gin.Context) {
	var req JobRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.JobRoleService.Create(req.Name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, role)
}

// Update godoc
// @Summary 修改岗位名称
// @Tags 岗位管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "岗位ID"
// @Param body body JobRoleRequest true "新名称"
// @Success 200 {object} util.Response{data=model.JobRole}
// @Failure 404 {object} util.Response
// @Router /api/admin/job-roles/{id} [put]
func (c *JobRoleController) Update(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid job role id")
		return
	}

	var req JobRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	role, err := c.JobRoleService.Update(uint(id), req.Name)
	if err != nil {
		if errors.Is(err, util.ErrJobRoleNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, role)
}

// Delete godoc
// @Summary 删除岗位
// @Tags 岗位管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "岗位ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/job-roles/{id} [delete]
func (c *JobRoleController) Delete(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid job role id")
		return
	}

	if err := c.JobRoleService.Delete(uint(id)); err != nil {
		if errors.Is(err, util.ErrJobRoleNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"success": true})
}
