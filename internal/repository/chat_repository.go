package repository

import (
	"smart_classroom_backend/internal/model"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(msg *model.ChatMessage) error {
	return r.DB.Create(msg).Error
}

func (r *ChatRepository) FindByID(id string) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.DB.First(&msg, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// History 取最近 limit 条后按时间升序返回
func (r *ChatRepository) History(classID string, groupNumber *int, limit int) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	query := r.DB.Preload("Sender").Where("class_id = ?", classID)
	if groupNumber != nil {
		query = query.Where("group_number = ?", *groupNumber)
	} else {
		query = query.Where("group_number IS NULL")
	}
	err := query.Order("timestamp desc").Limit(limit).Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// 倒序查询结果翻转为升序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Delete 物理删除，聊天消息不留软删墓碑
func (r *ChatRepository) Delete(id string) error {
	return r.DB.Unscoped().Delete(&model.ChatMessage{}, "id = ?", id).Error
}
