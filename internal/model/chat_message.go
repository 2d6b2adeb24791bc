package model

import "time"

// ChatMessage GroupNumber 为 nil 表示全班消息
// swagger:model ChatMessage
type ChatMessage struct {
	UUIDBase
	ClassID     string    `gorm:"index:idx_class_group;type:varchar(36);not null" json:"classId"`
	GroupNumber *int      `gorm:"index:idx_class_group" json:"groupNumber"`
	SenderID    string    `gorm:"index;type:varchar(36);not null" json:"senderId"`
	Sender      *User     `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsAI        bool      `gorm:"default:false" json:"isAI"`
	Timestamp   time.Time `gorm:"index" json:"timestamp"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
