package service

import (
	"encoding/json"
	"errors"
	"time"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"
	"smart_classroom_backend/pkg/logger"
	"smart_classroom_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ClassroomGateway 把上行事件分发到各业务服务，
// 所有权限判断在这里完成，hub 只管投递。
type ClassroomGateway struct {
	Hub       *ClassroomHub
	ClassRepo *repository.ClassRepository
	ClassSvc  *ClassService
	EnrollSvc *EnrollmentService
	GroupSvc  *GroupService
	ChatSvc   *ChatService
	NoteSvc   *NoteService
}

func NewClassroomGateway(hub *ClassroomHub, classRepo *repository.ClassRepository, classSvc *ClassService, enrollSvc *EnrollmentService, groupSvc *GroupService, chatSvc *ChatService, noteSvc *NoteService) *ClassroomGateway {
	return &ClassroomGateway{
		Hub:       hub,
		ClassRepo: classRepo,
		ClassSvc:  classSvc,
		EnrollSvc: enrollSvc,
		GroupSvc:  groupSvc,
		ChatSvc:   chatSvc,
		NoteSvc:   noteSvc,
	}
}

func (g *ClassroomGateway) HandleEvent(c *ClassroomClient, ev *WSEvent) {
	switch ev.Event {
	case EvJoinRoom:
		g.handleJoinRoom(c, ev.Data)
	case EvNoteUpdate:
		g.handleNoteUpdate(c, ev.Data)
	case EvChatMessage:
		g.handleChatMessage(c, ev.Data)
	case EvChatHistory:
		g.handleChatHistory(c, ev.Data)
	case EvChatTyping:
		g.handleChatTyping(c, ev.Data)
	case EvStartClass, EvActivateGroups, EvEndClass:
		g.handleTeacherAction(c, ev.Event, ev.Data)
	}
}

func (g *ClassroomGateway) handleJoinRoom(c *ClassroomClient, data json.RawMessage) {
	var p JoinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		g.replyError(c, EvProtocolError, ErrMalformedEvent.Error())
		return
	}

	teacherOwned, err := g.isParticipant(p.ClassID, c)
	if err != nil {
		g.replyError(c, EvProtocolError, err.Error())
		return
	}

	if p.GroupNumber != nil {
		if !teacherOwned {
			member, err := g.GroupSvc.MemberOfGroup(p.ClassID, c.UserID, *p.GroupNumber)
			if err != nil {
				g.replyError(c, EvProtocolError, err.Error())
				return
			}
			if !member {
				g.replyError(c, EvProtocolError, util.ErrNotGroupMember.Error())
				return
			}
		}
		g.Hub.JoinRoom(c, GroupRoomKey(p.ClassID, *p.GroupNumber))
		return
	}

	g.Hub.JoinRoom(c, ClassRoomKey(p.ClassID))
	g.Hub.RegisterPresence(c, p.ClassID, c.UserID)
	g.countOut(EvUsersOnline)
}

func (g *ClassroomGateway) handleNoteUpdate(c *ClassroomClient, data json.RawMessage) {
	var p NoteUpdatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		g.replyError(c, EvNoteError, ErrMalformedEvent.Error())
		return
	}

	teacherOwned, err := g.isParticipant(p.ClassID, c)
	if err != nil {
		g.replyError(c, EvNoteError, err.Error())
		return
	}
	if !teacherOwned {
		member, err := g.GroupSvc.MemberOfGroup(p.ClassID, c.UserID, p.GroupNumber)
		if err != nil {
			g.replyError(c, EvNoteError, err.Error())
			return
		}
		if !member {
			g.replyError(c, EvNoteError, util.ErrNotGroupMember.Error())
			return
		}
	}

	updatedAt, err := g.NoteSvc.Update(p.ClassID, p.GroupNumber, p.Content, c.UserID)
	if err != nil {
		logger.Log.Error("note update failed", zap.Error(err), zap.String("classId", p.ClassID), zap.Int("group", p.GroupNumber))
		g.replyError(c, EvNoteError, "failed to save note")
		return
	}

	// 发起端本地已是最新内容，只广播给组内其他人
	g.Hub.Broadcast(GroupRoomKey(p.ClassID, p.GroupNumber), Encode(EvNoteUpdated, map[string]interface{}{
		"classId":   p.ClassID,
		"groupId":   p.GroupNumber,
		"content":   p.Content,
		"updatedBy": c.UserID,
		"updatedAt": updatedAt.Format(time.RFC3339),
	}), c)
	g.countOut(EvNoteUpdated)
}

func (g *ClassroomGateway) handleChatMessage(c *ClassroomClient, data json.RawMessage) {
	var p ChatMessagePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		g.replyError(c, EvChatError, ErrMalformedEvent.Error())
		return
	}

	room, err := g.resolveChatRoom(c, p.ClassID, p.GroupNumber)
	if err != nil {
		g.replyError(c, EvChatError, err.Error())
		return
	}

	msg, err := g.ChatSvc.Send(p.ClassID, p.GroupNumber, c.UserID, p.Message)
	if err != nil {
		g.replyError(c, EvChatError, err.Error())
		return
	}

	// 发起端也等服务器回执，保证全房间看到同一条消息
	g.Hub.Broadcast(room, Encode(EvChatReceived, msg), nil)
	g.countOut(EvChatReceived)
}

func (g *ClassroomGateway) handleChatHistory(c *ClassroomClient, data json.RawMessage) {
	var p ChatHistoryPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		g.replyError(c, EvChatError, ErrMalformedEvent.Error())
		return
	}

	if _, err := g.resolveChatRoom(c, p.ClassID, p.GroupNumber); err != nil {
		g.replyError(c, EvChatError, err.Error())
		return
	}

	msgs, err := g.ChatSvc.History(p.ClassID, p.GroupNumber, p.Limit)
	if err != nil {
		g.replyError(c, EvChatError, "failed to load chat history")
		return
	}

	c.Reply(Encode(EvChatHistoryDone, map[string]interface{}{
		"classId":  p.ClassID,
		"groupId":  p.GroupNumber,
		"messages": msgs,
	}))
	g.countOut(EvChatHistoryDone)
}

func (g *ClassroomGateway) handleChatTyping(c *ClassroomClient, data json.RawMessage) {
	var p ChatTypingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		return // 瞬时事件，坏包直接丢弃
	}

	room := ClassRoomKey(p.ClassID)
	if p.GroupNumber != nil {
		room = GroupRoomKey(p.ClassID, *p.GroupNumber)
	}
	if !g.Hub.InRoom(c, room) {
		return
	}

	userName := c.UserName
	if userName == "" {
		userName = p.UserName
	}
	g.Hub.Broadcast(room, Encode(EvTypingIndicator, map[string]interface{}{
		"classId":  p.ClassID,
		"groupId":  p.GroupNumber,
		"userId":   c.UserID,
		"userName": userName,
		"isTyping": p.IsTyping,
	}), c)
	g.countOut(EvTypingIndicator)
}

// handleTeacherAction 先持久化状态再广播，失败只通知发起教师
func (g *ClassroomGateway) handleTeacherAction(c *ClassroomClient, action string, data json.RawMessage) {
	var p TeacherActionPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Validate() != nil {
		g.replyError(c, EvTeacherError, ErrMalformedEvent.Error())
		return
	}

	if c.Role != string(model.Teacher) {
		g.replyError(c, EvTeacherError, util.ErrPermissionDenied.Error())
		return
	}

	status, message, err := g.ClassSvc.Transition(p.ClassID, c.UserID, action)
	if err != nil {
		logger.Log.Warn("class transition rejected",
			zap.Error(err),
			zap.String("classId", p.ClassID),
			zap.String("action", action),
			zap.String("teacherId", c.UserID))
		g.replyError(c, EvTeacherError, err.Error())
		return
	}

	logger.Log.Info("class state changed",
		zap.String("classId", p.ClassID),
		zap.String("status", string(status)),
		zap.String("teacherId", c.UserID))

	g.Hub.Broadcast(ClassRoomKey(p.ClassID), Encode(EvStateChanged, map[string]interface{}{
		"classId": p.ClassID,
		"status":  status,
		"message": message,
	}), nil)
	g.countOut(EvStateChanged)
}

// resolveChatRoom 校验归属并返回消息应投递的房间
func (g *ClassroomGateway) resolveChatRoom(c *ClassroomClient, classID string, groupNumber *int) (string, error) {
	teacherOwned, err := g.isParticipant(classID, c)
	if err != nil {
		return "", err
	}
	if groupNumber == nil {
		return ClassRoomKey(classID), nil
	}
	if !teacherOwned {
		member, err := g.GroupSvc.MemberOfGroup(classID, c.UserID, *groupNumber)
		if err != nil {
			return "", err
		}
		if !member {
			return "", util.ErrNotGroupMember
		}
	}
	return GroupRoomKey(classID, *groupNumber), nil
}

// isParticipant 返回是否为课堂归属教师；学生必须已选课
func (g *ClassroomGateway) isParticipant(classID string, c *ClassroomClient) (bool, error) {
	class, err := g.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrClassNotFound
		}
		return false, err
	}
	if class.TeacherID == c.UserID {
		return true, nil
	}
	enrolled, err := g.EnrollSvc.IsEnrolled(classID, c.UserID)
	if err != nil {
		return false, err
	}
	if !enrolled {
		return false, util.ErrNotEnrolled
	}
	return false, nil
}

func (g *ClassroomGateway) replyError(c *ClassroomClient, event, message string) {
	c.Reply(Encode(event, map[string]string{"message": message}))
	g.countOut(event)
}

func (g *ClassroomGateway) countOut(event string) {
	monitoring.WSEventCounter.WithLabelValues(event, "out").Inc()
}
