package model

import "encoding/json"

// QuizKind 每个课堂固定两个测验槽位
type QuizKind string

const (
	Pretest  QuizKind = "PRETEST"
	Posttest QuizKind = "POSTTEST"
)

func ValidQuizKind(k QuizKind) bool {
	return k == Pretest || k == Posttest
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	ClassID          string     `gorm:"uniqueIndex:idx_class_kind;type:varchar(36);not null" json:"classId"`
	Kind             QuizKind   `gorm:"uniqueIndex:idx_class_kind;type:enum('PRETEST','POSTTEST');not null" json:"kind"`
	Title            string     `gorm:"size:255" json:"title"`
	TimeLimitMinutes int        `gorm:"default:0" json:"timeLimitMinutes"`
	Questions        []Question `gorm:"foreignKey:QuizID" json:"questions"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// Question 题目顺序即判分顺序，由 Position 决定
// swagger:model Question
type Question struct {
	UUIDBase
	QuizID             string          `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Text               string          `gorm:"type:text;not null" json:"text"`
	Options            json.RawMessage `gorm:"type:json" json:"options"` // JSON: []string，至少两项
	CorrectAnswerIndex int             `gorm:"not null" json:"correctAnswerIndex"`
	Position           int             `gorm:"default:0" json:"position"`
}

func (Question) TableName() string {
	return "questions"
}

// OptionList 解码 Options 字段
func (q *Question) OptionList() []string {
	var opts []string
	if len(q.Options) > 0 {
		json.Unmarshal(q.Options, &opts)
	}
	return opts
}
