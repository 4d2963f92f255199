package controller

import (
	"errors"
	"math_practice_backend/internal/service"
	"math_practice_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// @Summary 创建用户
// @Description 生成 8 位数字 ID 并创建用户，年级信息可选
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.CreateUserRequest true "年级信息"
// @Success 201 {object} util.Response
// @Router /api/users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.CreateUser(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidGradeLevel), errors.Is(err, util.ErrInvalidClassLevel):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"userId": user.ID,
		"user":   user,
	})
}

// @Summary 查询用户
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	user, err := c.UserService.GetUser(ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// @Summary 更新用户年级信息
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body service.UpdateUserRequest true "年级信息"
// @Success 200 {object} util.Response
// @Router /api/users/{id} [patch]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidGradeLevel), errors.Is(err, util.ErrInvalidClassLevel):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, user)
}

// @Summary 校验用户 ID
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} util.Response
// @Router /api/users/{id}/validate [get]
func (c *UserController) ValidateUser(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.UserService.ValidateUser(id); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"valid": true, "userId": id})
}
