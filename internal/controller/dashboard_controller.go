package controller

import (
	"errors"
	"strconv"

	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// GetLeaderboard godoc
// @Summary 积分排行榜
// @Description 按累计得分排序，每次请求重新计算
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "名次数量，默认7"
// @Param completedOnly query bool false "只统计已通过的记录"
// @Success 200 {object} util.Response
// @Router /api/leaderboard [get]
func (c *DashboardController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "7"))
	completedOnly := ctx.Query("completedOnly") == "true"

	leaderboard, err := c.DashboardService.GetLeaderboard(limit, completedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, leaderboard)
}

// GetUserDashboard godoc
// @Summary 用户仪表盘
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.UserDashboard}
// @Failure 401 {object} util.Response
// @Router /api/dashboard [get]
func (c *DashboardController) GetUserDashboard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.DashboardService.GetUserDashboard(user.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetAdminDashboard godoc
// @Summary 管理员仪表盘
// @Tags 仪表盘
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.AdminDashboard}
// @Router /api/admin/dashboard [get]
func (c *DashboardController) GetAdminDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetAdminDashboard()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}
