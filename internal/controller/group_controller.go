package controller

import (
	"errors"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	GroupService *service.GroupService
}

func NewGroupController(groupService *service.GroupService) *GroupController {
	return &GroupController{GroupService: groupService}
}

type AssignGroupsRequest struct {
	Assignments []service.GroupAssignment `json:"assignments" binding:"required"`
}

// Assign godoc
// @Summary 手动分组
// @Description 整批覆盖指定学生的分组号，groupNumber 为 null 表示撤销分组
// @Tags 分组
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   body body AssignGroupsRequest true "分组指令"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Router /api/classes/{classId}/groups [put]
func (c *GroupController) Assign(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AssignGroupsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.GroupService.Assign(ctx.Param("classId"), claims.UserID, req.Assignments); err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type AutoAssignRequest struct {
	GroupCount int `json:"groupCount" binding:"required"`
}

// AutoAssign godoc
// @Summary 自动分组
// @Description 随机把未分组学生轮转填入指定数量的小组，已分组学生不动
// @Tags 分组
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   body body AutoAssignRequest true "分组数量"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Failure 400 {object} util.Response "分组数量不合法"
// @Failure 403 {object} util.Response
// @Router /api/classes/{classId}/groups/auto [post]
func (c *GroupController) AutoAssign(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AutoAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollments, err := c.GroupService.AutoAssign(ctx.Param("classId"), claims.UserID, req.GroupCount)
	if err != nil {
		respondGroupError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// Overview godoc
// @Summary 分组概览
// @Tags 分组
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response{data=service.GroupOverview}
// @Router /api/classes/{classId}/groups [get]
func (c *GroupController) Overview(ctx *gin.Context) {
	overview, err := c.GroupService.Overview(ctx.Param("classId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

func respondGroupError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidGroupCount), errors.Is(err, util.ErrInvalidGroupNumber):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrClassNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}
