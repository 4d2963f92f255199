package controller

import (
	"errors"
	"math_practice_backend/internal/service"
	"math_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TopicController struct {
	TopicService *service.TopicService
}

func NewTopicController(topicService *service.TopicService) *TopicController {
	return &TopicController{TopicService: topicService}
}

// @Summary 专题列表
// @Description 用户年级段下覆盖其班级年级的专题
// @Tags 专题
// @Produce json
// @Param user_id query string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/topics [get]
func (c *TopicController) ListTopics(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		util.BadRequest(ctx, "user_id is required")
		return
	}

	topics, err := c.TopicService.ListForUser(userID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, topics)
}
