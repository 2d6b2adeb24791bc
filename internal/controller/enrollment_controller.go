package controller

import (
	"errors"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

type EnrollRequest struct {
	ClassCode string `json:"classCode" binding:"required"`
}

// Enroll godoc
// @Summary 学生通过邀请码加入课堂
// @Tags 选课
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body EnrollRequest true "8 位邀请码"
// @Success 201 {object} util.Response{data=model.Class}
// @Failure 404 {object} util.Response "邀请码无效"
// @Failure 409 {object} util.Response "已加入该课堂"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.EnrollmentService.EnrollByCode(req.ClassCode, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrClassNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, class)
}

// MyClasses godoc
// @Summary 学生已加入的课堂列表
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.StudentClassView}
// @Router /api/enrollments [get]
func (c *EnrollmentController) MyClasses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	views, err := c.EnrollmentService.ListForStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// Roster godoc
// @Summary 课堂学生名册
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments/{classId} [get]
func (c *EnrollmentController) Roster(ctx *gin.Context) {
	enrollments, err := c.EnrollmentService.Roster(ctx.Param("classId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}
