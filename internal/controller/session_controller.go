package controller

import (
	"errors"
	"math_practice_backend/internal/service"
	"math_practice_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type CreateSessionRequest struct {
	UserID  string `json:"userId" binding:"required"`
	TopicID string `json:"topicId" binding:"required"`
	// SessionSize 缺省时使用服务端默认题量
	SessionSize *int `json:"sessionSize"`
}

// @Summary 开始练习会话
// @Description 按到期复习、新题、兜底三级优先组卷，返回不含答案的题目列表
// @Tags 会话
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "组卷参数"
// @Success 201 {object} util.Response
// @Router /api/sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.BuildSession(req.UserID, req.TopicID, req.SessionSize)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound), errors.Is(err, util.ErrTopicNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrNoQuestions):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

type SubmitAnswerRequest struct {
	UserID     string `json:"userId" binding:"required"`
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
}

// @Summary 提交答案
// @Description 大小写不敏感、去除首尾空白后判定，不回传正确选项
// @Tags 会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Param request body SubmitAnswerRequest true "作答内容"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/answer [post]
func (c *SessionController) SubmitAnswer(ctx *gin.Context) {
	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.SubmitAnswer(ctx.Param("id"), req.UserID, req.QuestionID, req.Answer)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSessionItemNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

type sessionActionRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// @Summary 完成会话
// @Description 对每道已作答的题应用一次间隔复习更新并终结会话
// @Tags 会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/complete [post]
func (c *SessionController) CompleteSession(ctx *gin.Context) {
	var req sessionActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SessionService.CompleteSession(ctx.Param("id"), req.UserID); err != nil {
		c.sessionActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "completed"})
}

// @Summary 放弃会话
// @Tags 会话
// @Accept json
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/sessions/{id}/abandon [post]
func (c *SessionController) AbandonSession(ctx *gin.Context) {
	var req sessionActionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SessionService.AbandonSession(ctx.Param("id"), req.UserID); err != nil {
		c.sessionActionError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": "abandoned"})
}

func (c *SessionController) sessionActionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrSessionNotActive):
		util.Error(ctx, http.StatusConflict, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
