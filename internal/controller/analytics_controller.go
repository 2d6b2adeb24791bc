package controller

import (
	"errors"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// Report godoc
// @Summary 课堂学习成效报表
// @Description 前后测均分、提升幅度及性别维度拆分
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response{data=service.ClassAnalytics}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId}/analytics [get]
func (c *AnalyticsController) Report(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	report, err := c.AnalyticsService.Report(ctx.Param("classId"), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrClassNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, report)
}
