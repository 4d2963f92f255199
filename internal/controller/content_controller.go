package controller

import (
	"errors"
	"math_practice_backend/internal/service"
	"math_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// @Summary 创建专题
// @Tags 内容管理
// @Accept json
// @Produce json
// @Param request body service.CreateTopicRequest true "专题"
// @Success 201 {object} util.Response
// @Router /api/admin/topics [post]
func (c *ContentController) CreateTopic(ctx *gin.Context) {
	var req service.CreateTopicRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	topic, err := c.ContentService.CreateTopic(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidGradeLevel), errors.Is(err, util.ErrInvalidClassLevel):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, topic)
}

// @Summary 创建题目
// @Tags 内容管理
// @Accept json
// @Produce json
// @Param request body service.CreateQuestionRequest true "题目"
// @Success 201 {object} util.Response
// @Router /api/admin/questions [post]
func (c *ContentController) CreateQuestion(ctx *gin.Context) {
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.ContentService.CreateQuestion(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrTopicNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidClassLevel):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, question)
}

// @Summary 上传题目配图
// @Tags 内容管理
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "题目ID"
// @Param file formData file true "图片文件"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id}/image [post]
func (c *ContentController) UploadQuestionImage(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	url, err := c.ContentService.UploadQuestionImage(
		ctx.Request.Context(),
		ctx.Param("id"),
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"url": url})
}
