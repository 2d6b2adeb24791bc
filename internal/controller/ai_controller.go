package controller

import (
	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	AIService   *service.AIService
	ChatService *service.ChatService
}

func NewAIController(aiService *service.AIService, chatService *service.ChatService) *AIController {
	return &AIController{AIService: aiService, ChatService: chatService}
}

type AIQueryRequest struct {
	Prompt      string                  `json:"prompt" binding:"required"`
	History     []service.AIChatMessage `json:"history"`
	ClassID     string                  `json:"classId"`
	GroupNumber *int                    `json:"groupId"`
}

type AIQueryResponse struct {
	Response string `json:"response"`
}

// Query godoc
// @Summary 课堂 AI 助教
// @Description 转发到 AI 服务，带上课堂 ID 时回答会尽力记入聊天记录
// @Tags AI
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AIQueryRequest true "问题与上下文"
// @Success 200 {object} util.Response{data=AIQueryResponse}
// @Failure 400 {object} util.Response
// @Failure 502 {object} util.Response "AI 服务不可用"
// @Router /api/ai/query [post]
func (c *AIController) Query(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req AIQueryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AIService.Ask(req.Prompt, req.History)
	if err != nil {
		util.Error(ctx, 502, err.Error())
		return
	}

	// 指定课堂时把问答记入聊天流，失败不影响返回
	if req.ClassID != "" {
		c.ChatService.LogAIMessage(req.ClassID, req.GroupNumber, claims.UserID, answer)
	}

	util.Success(ctx, AIQueryResponse{Response: answer})
}
