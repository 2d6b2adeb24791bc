package controller

import (
	"errors"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MaterialController struct {
	MaterialService *service.MaterialService
}

func NewMaterialController(materialService *service.MaterialService) *MaterialController {
	return &MaterialController{MaterialService: materialService}
}

// Upload godoc
// @Summary 上传课件
// @Description 表单带 file 字段时上传 pdf/docx 文件，带 url 字段时保存 YouTube 链接
// @Tags 课件
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   title formData string false "课件标题"
// @Param   file formData file false "pdf 或 docx 文件"
// @Param   url formData string false "YouTube 链接"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response "不支持的文件类型"
// @Failure 403 {object} util.Response
// @Router /api/classes/{classId}/materials [post]
func (c *MaterialController) Upload(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := ctx.Param("classId")
	title := ctx.PostForm("title")

	if url := ctx.PostForm("url"); url != "" {
		material, err := c.MaterialService.AddLink(classID, claims.UserID, title, url)
		if err != nil {
			respondMaterialError(ctx, err)
			return
		}
		util.Created(ctx, material)
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "either file or url is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	material, err := c.MaterialService.UploadFile(ctx.Request.Context(), classID, claims.UserID, title, header, file)
	if err != nil {
		respondMaterialError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// List godoc
// @Summary 课件列表
// @Tags 课件
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/classes/{classId}/materials [get]
func (c *MaterialController) List(ctx *gin.Context) {
	materials, err := c.MaterialService.List(ctx.Param("classId"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// Delete godoc
// @Summary 删除课件
// @Tags 课件
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "课件 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [delete]
func (c *MaterialController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.MaterialService.Delete(ctx.Request.Context(), ctx.Param("id"), claims.UserID); err != nil {
		respondMaterialError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func respondMaterialError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrClassNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.BadRequest(ctx, err.Error())
	}
}
