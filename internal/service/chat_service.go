package service

import (
	"errors"
	"strings"
	"time"

	"smart_classroom_backend/internal/model"
	"smart_classroom_backend/internal/repository"
	"smart_classroom_backend/internal/util"
	"smart_classroom_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultHistoryLimit = 50

type ChatService struct {
	ChatRepo   *repository.ChatRepository
	ClassRepo  *repository.ClassRepository
	EnrollRepo *repository.EnrollmentRepository
	UserRepo   *repository.UserRepository
}

func NewChatService(chatRepo *repository.ChatRepository, classRepo *repository.ClassRepository, enrollRepo *repository.EnrollmentRepository, userRepo *repository.UserRepository) *ChatService {
	return &ChatService{ChatRepo: chatRepo, ClassRepo: classRepo, EnrollRepo: enrollRepo, UserRepo: userRepo}
}

// Send 落库并返回带发送者信息的完整消息
func (s *ChatService) Send(classID string, groupNumber *int, senderID, text string) (*model.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, util.ErrEmptyMessage
	}

	if err := s.requireParticipant(classID, senderID, groupNumber); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		ClassID:     classID,
		GroupNumber: groupNumber,
		SenderID:    senderID,
		Text:        text,
		Timestamp:   time.Now(),
	}
	if err := s.ChatRepo.Create(msg); err != nil {
		return nil, err
	}

	sender, err := s.UserRepo.FindByID(senderID)
	if err == nil {
		msg.Sender = sender
	}
	return msg, nil
}

func (s *ChatService) History(classID string, groupNumber *int, limit int) ([]model.ChatMessage, error) {
	if limit <= 0 || limit > 200 {
		limit = defaultHistoryLimit
	}
	return s.ChatRepo.History(classID, groupNumber, limit)
}

// Delete 发送者本人或课堂教师可删
func (s *ChatService) Delete(messageID string, claims *util.Claims) (*model.ChatMessage, error) {
	msg, err := s.ChatRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMessageNotFound
		}
		return nil, err
	}

	if msg.SenderID != claims.UserID {
		class, err := s.ClassRepo.FindByID(msg.ClassID)
		if err != nil || class.TeacherID != claims.UserID {
			return nil, util.ErrPermissionDenied
		}
	}

	if err := s.ChatRepo.Delete(messageID); err != nil {
		return nil, err
	}
	return msg, nil
}

// LogAIMessage AI 回复尽力落库，失败只记日志不阻断会话
func (s *ChatService) LogAIMessage(classID string, groupNumber *int, senderID, text string) *model.ChatMessage {
	msg := &model.ChatMessage{
		ClassID:     classID,
		GroupNumber: groupNumber,
		SenderID:    senderID,
		Text:        text,
		IsAI:        true,
		Timestamp:   time.Now(),
	}
	if err := s.ChatRepo.Create(msg); err != nil {
		logger.Log.Error("failed to persist AI message", zap.Error(err), zap.String("classId", classID))
		return nil
	}
	return msg
}

// requireParticipant 选课学生或课堂教师；发到小组频道的学生还须属于该小组
func (s *ChatService) requireParticipant(classID, userID string, groupNumber *int) error {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrClassNotFound
		}
		return err
	}
	if class.TeacherID == userID {
		return nil
	}
	enrollment, err := s.EnrollRepo.Find(classID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrNotEnrolled
		}
		return err
	}
	if groupNumber != nil && !enrollmentInGroup(enrollment, *groupNumber) {
		return util.ErrNotGroupMember
	}
	return nil
}

// enrollmentInGroup 学生是否被分到指定小组
func enrollmentInGroup(e *model.Enrollment, groupNumber int) bool {
	return e != nil && e.GroupNumber != nil && *e.GroupNumber == groupNumber
}
