package controller

import (
	"errors"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

type CreateClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create godoc
// @Summary 创建课堂
// @Description 教师创建课堂，系统生成 8 位邀请码，初始状态为候课室
// @Tags 课堂
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateClassRequest true "课堂信息"
// @Success 201 {object} util.Response{data=model.Class}
// @Failure 400 {object} util.Response
// @Router /api/classes [post]
func (c *ClassController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.Create(req.Name, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// List godoc
// @Summary 教师的课堂列表
// @Tags 课堂
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Class}
// @Router /api/classes [get]
func (c *ClassController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classes, err := c.ClassService.ListByTeacher(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

// Detail godoc
// @Summary 课堂详情
// @Description 名册、课件与测验槽位；学生必须已选课
// @Tags 课堂
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response{data=service.ClassDetail}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId} [get]
func (c *ClassController) Detail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	detail, err := c.ClassService.Detail(ctx.Param("classId"), claims)
	if err != nil {
		respondClassError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

type UpdateClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// Update godoc
// @Summary 修改课堂信息
// @Tags 课堂
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   body body UpdateClassRequest true "课堂信息"
// @Success 200 {object} util.Response{data=model.Class}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId} [put]
func (c *ClassController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.Update(ctx.Param("classId"), claims.UserID, req.Name)
	if err != nil {
		respondClassError(ctx, err)
		return
	}
	util.Success(ctx, class)
}

// Delete godoc
// @Summary 删除课堂
// @Tags 课堂
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId} [delete]
func (c *ClassController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ClassService.Delete(ctx.Param("classId"), claims.UserID); err != nil {
		respondClassError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// respondClassError 把课堂归属类错误映射为 HTTP 状态码
func respondClassError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrClassNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
