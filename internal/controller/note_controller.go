package controller

import (
	"strconv"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService *service.NoteService
}

func NewNoteController(noteService *service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

// Get godoc
// @Summary 小组协作笔记
// @Description 晚加入的成员用它拉取当前内容，尚无笔记时返回空内容
// @Tags 笔记
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   groupNumber path int true "小组号"
// @Success 200 {object} util.Response{data=model.GroupNote}
// @Failure 400 {object} util.Response
// @Router /api/classes/{classId}/notes/{groupNumber} [get]
func (c *NoteController) Get(ctx *gin.Context) {
	groupNumber, err := strconv.Atoi(ctx.Param("groupNumber"))
	if err != nil || groupNumber <= 0 {
		util.BadRequest(ctx, "groupNumber must be a positive integer")
		return
	}

	note, err := c.NoteService.Get(ctx.Param("classId"), groupNumber)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, note)
}
