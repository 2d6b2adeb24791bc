package controller

import (
	"errors"
	"strconv"

	"smart_classroom_backend/internal/service"
	"smart_classroom_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
	Hub         *service.ClassroomHub
	Gateway     *service.ClassroomGateway
}

func NewChatController(chatService *service.ChatService, hub *service.ClassroomHub, gateway *service.ClassroomGateway) *ChatController {
	return &ChatController{ChatService: chatService, Hub: hub, Gateway: gateway}
}

// HandleWS godoc
// @Summary 课堂实时通道
// @Description WebSocket 升级入口，令牌通过 ?token= 传递
// @Tags 实时
// @Param   token query string true "JWT"
// @Router /api/classroom/ws [get]
func (c *ChatController) HandleWS(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeClassroomWs(c.Hub, c.Gateway, ctx.Writer, ctx.Request, claims)
}

// groupNumberFromQuery ?groupId= 为空表示全班频道
func groupNumberFromQuery(ctx *gin.Context) (*int, error) {
	raw := ctx.Query("groupId")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return nil, errors.New("groupId must be a positive integer")
	}
	return &n, nil
}

// History godoc
// @Summary 聊天记录
// @Description 返回最近的消息，按时间升序
// @Tags 聊天
// @Produce  json
// @Security BearerAuth
// @Param   classId query string true "课堂 ID"
// @Param   groupId query int false "小组号，缺省为全班频道"
// @Param   limit query int false "条数上限，默认 50"
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Router /api/chat/history [get]
func (c *ChatController) History(ctx *gin.Context) {
	classID := ctx.Query("classId")
	if classID == "" {
		util.BadRequest(ctx, "classId is required")
		return
	}
	groupNumber, err := groupNumberFromQuery(ctx)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	msgs, err := c.ChatService.History(classID, groupNumber, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, msgs)
}

type SendMessageRequest struct {
	ClassID     string `json:"classId" binding:"required"`
	GroupNumber *int   `json:"groupId"`
	Message     string `json:"message" binding:"required"`
}

// Send godoc
// @Summary 发送消息（REST 备用通道）
// @Description 落库并广播给房间内的在线成员
// @Tags 聊天
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.ChatMessage}
// @Failure 400 {object} util.Response "消息为空"
// @Failure 403 {object} util.Response "未选课或不在该小组"
// @Router /api/chat/messages [post]
func (c *ChatController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.ChatService.Send(req.ClassID, req.GroupNumber, claims.UserID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmptyMessage):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrClassNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled), errors.Is(err, util.ErrNotGroupMember):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	room := service.ClassRoomKey(req.ClassID)
	if req.GroupNumber != nil {
		room = service.GroupRoomKey(req.ClassID, *req.GroupNumber)
	}
	c.Hub.Broadcast(room, service.Encode(service.EvChatReceived, msg), nil)

	util.Created(ctx, msg)
}

// Delete godoc
// @Summary 删除消息
// @Description 发送者本人或课堂教师可删，删除后广播撤回通知
// @Tags 聊天
// @Produce  json
// @Security BearerAuth
// @Param   messageId path string true "消息 ID"
// @Success 200 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/chat/messages/{messageId} [delete]
func (c *ChatController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	msg, err := c.ChatService.Delete(ctx.Param("messageId"), claims)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMessageNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	room := service.ClassRoomKey(msg.ClassID)
	if msg.GroupNumber != nil {
		room = service.GroupRoomKey(msg.ClassID, *msg.GroupNumber)
	}
	c.Hub.Broadcast(room, service.Encode(service.EvChatDeleted, gin.H{"messageId": msg.ID}), nil)

	util.Success(ctx, nil)
}
