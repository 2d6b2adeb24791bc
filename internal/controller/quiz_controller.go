package controller

import (
	"errors"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// quizKindFromQuery ?type=PRETEST|POSTTEST
func quizKindFromQuery(ctx *gin.Context) model.QuizKind {
	return model.QuizKind(ctx.Query("type"))
}

// Set godoc
// @Summary 保存测验（整卷覆盖）
// @Description 同一课堂同一类型只有一份测验，重复保存会替换全部题目
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   type query string true "PRETEST 或 POSTTEST"
// @Param   body body service.QuizInput true "题目列表"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 400 {object} util.Response "题目不合法"
// @Failure 403 {object} util.Response
// @Router /api/classes/{classId}/quiz [put]
func (c *QuizController) Set(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.QuizInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.SetQuiz(ctx.Param("classId"), claims.UserID, quizKindFromQuery(ctx), req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Get godoc
// @Summary 学生取卷
// @Description 返回的题目不含正确答案
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   type query string true "PRETEST 或 POSTTEST"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId}/quiz [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	view, err := c.QuizService.GetQuiz(ctx.Param("classId"), claims.UserID, quizKindFromQuery(ctx))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// GetWithAnswers godoc
// @Summary 教师取卷（含答案）
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   type query string true "PRETEST 或 POSTTEST"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId}/quiz/answers [get]
func (c *QuizController) GetWithAnswers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.GetQuizWithAnswers(ctx.Param("classId"), claims.UserID, quizKindFromQuery(ctx))
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   classId path string true "课堂 ID"
// @Param   type query string true "PRETEST 或 POSTTEST"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/classes/{classId}/quiz [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.DeleteQuiz(ctx.Param("classId"), claims.UserID, quizKindFromQuery(ctx)); err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type SubmitRequest struct {
	ClassID  string `json:"classId" binding:"required"`
	QuizType string `json:"quizType" binding:"required,oneof=PRETEST POSTTEST"`
	Answers  []int  `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary 学生交卷
// @Description 按题目顺序判分，一人一卷只能交一次
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubmitRequest true "答案下标列表"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 403 {object} util.Response "未选课"
// @Failure 404 {object} util.Response "测验不存在"
// @Failure 409 {object} util.Response "重复交卷"
// @Router /api/quizzes/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.Submit(req.ClassID, claims.UserID, model.QuizKind(req.QuizType), req.Answers)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

func respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidQuizKind):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrQuizNotFound), errors.Is(err, util.ErrClassNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied), errors.Is(err, util.ErrNotEnrolled):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrQuizAlreadyTaken):
		util.Conflict(ctx, err.Error())
	default:
		util.BadRequest(ctx, err.Error())
	}
}
