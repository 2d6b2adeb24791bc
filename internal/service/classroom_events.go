package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// 客户端上行事件
const (
	EvJoinRoom       = "join_room"
	EvNoteUpdate     = "note:update"
	EvChatMessage    = "chat:message"
	EvChatHistory    = "chat:history"
	EvChatTyping     = "chat:typing"
	EvStartClass     = "teacher:start-class"
	EvActivateGroups = "teacher:activate-groups"
	EvEndClass       = "teacher:end-class"
)

// 服务端下行事件
const (
	EvUsersOnline     = "users:online"
	EvNoteUpdated     = "note:updated"
	EvNoteError       = "note:error"
	EvChatReceived    = "chat:message:received"
	EvChatDeleted     = "chat:message:deleted"
	EvChatError       = "chat:error"
	EvChatHistoryDone = "chat:history:loaded"
	EvTypingIndicator = "chat:typing:indicator"
	EvStateChanged    = "class:state-changed"
	EvTeacherError    = "teacher:error"
	EvProtocolError   = "error"
)

var (
	ErrUnknownEvent   = errors.New("unknown event")
	ErrMalformedEvent = errors.New("malformed event payload")
)

// inboundEvents 封闭的上行事件集合，不在集合内的一律拒绝
var inboundEvents = map[string]bool{
	EvJoinRoom:       true,
	EvNoteUpdate:     true,
	EvChatMessage:    true,
	EvChatHistory:    true,
	EvChatTyping:     true,
	EvStartClass:     true,
	EvActivateGroups: true,
	EvEndClass:       true,
}

// WSEvent 统一信封 {"event": ..., "data": {...}}
type WSEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ParseEvent 边界校验：未知事件和坏信封直接拒绝
func ParseEvent(raw []byte) (*WSEvent, error) {
	var ev WSEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, ErrMalformedEvent
	}
	if ev.Event == "" {
		return nil, ErrMalformedEvent
	}
	if !inboundEvents[ev.Event] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Event)
	}
	return &ev, nil
}

// Encode 序列化下行事件，data 不可序列化属于编程错误
func Encode(event string, data interface{}) []byte {
	payload, _ := json.Marshal(data)
	raw, _ := json.Marshal(WSEvent{Event: event, Data: payload})
	return raw
}

type JoinRoomPayload struct {
	ClassID     string `json:"classId"`
	GroupNumber *int   `json:"groupId,omitempty"`
	UserID      string `json:"userId,omitempty"`
}

func (p *JoinRoomPayload) Validate() error {
	if p.ClassID == "" {
		return ErrMalformedEvent
	}
	if p.GroupNumber != nil && *p.GroupNumber <= 0 {
		return ErrMalformedEvent
	}
	return nil
}

type NoteUpdatePayload struct {
	ClassID     string `json:"classId"`
	GroupNumber int    `json:"groupId"`
	Content     string `json:"content"`
	UserID      string `json:"userId"`
}

func (p *NoteUpdatePayload) Validate() error {
	if p.ClassID == "" || p.GroupNumber <= 0 {
		return ErrMalformedEvent
	}
	return nil
}

type ChatMessagePayload struct {
	ClassID     string `json:"classId"`
	GroupNumber *int   `json:"groupId,omitempty"`
	Message     string `json:"message"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName"`
}

func (p *ChatMessagePayload) Validate() error {
	if p.ClassID == "" || strings.TrimSpace(p.Message) == "" {
		return ErrMalformedEvent
	}
	if p.GroupNumber != nil && *p.GroupNumber <= 0 {
		return ErrMalformedEvent
	}
	return nil
}

type ChatHistoryPayload struct {
	ClassID     string `json:"classId"`
	GroupNumber *int   `json:"groupId,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

func (p *ChatHistoryPayload) Validate() error {
	if p.ClassID == "" {
		return ErrMalformedEvent
	}
	return nil
}

type ChatTypingPayload struct {
	ClassID     string `json:"classId"`
	GroupNumber *int   `json:"groupId,omitempty"`
	UserName    string `json:"userName"`
	IsTyping    bool   `json:"isTyping"`
}

func (p *ChatTypingPayload) Validate() error {
	if p.ClassID == "" {
		return ErrMalformedEvent
	}
	return nil
}

type TeacherActionPayload struct {
	ClassID string `json:"classId"`
}

func (p *TeacherActionPayload) Validate() error {
	if p.ClassID == "" {
		return ErrMalformedEvent
	}
	return nil
}

// ClassRoomKey 全班广播域
func ClassRoomKey(classID string) string {
	return "class_" + classID
}

// GroupRoomKey 分组广播域 class × group
func GroupRoomKey(classID string, groupNumber int) string {
	return fmt.Sprintf("group_%s_%d", classID, groupNumber)
}
