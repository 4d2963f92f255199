package controller

import (
	"errors"
	"math_practice_backend/internal/service"
	"math_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 仪表盘统计
// @Description 到期题数、活跃专题数和连续打卡天数
// @Tags 仪表盘
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/dashboard/{userId}/stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	stats, err := c.DashboardService.GetStats(ctx.Param("userId"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary 仪表盘专题列表
// @Description 用户年级下各专题的到期题数、掌握度和状态
// @Tags 仪表盘
// @Produce json
// @Param userId path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/dashboard/{userId}/topics [get]
func (c *DashboardController) GetTopics(ctx *gin.Context) {
	stats, err := c.DashboardService.GetTopicStats(ctx.Param("userId"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
