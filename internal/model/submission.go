package model

import "time"

// QuizSubmission 每个 (student, quiz) 至多一条，不保存原始答案
// swagger:model QuizSubmission
type QuizSubmission struct {
	UUIDBase
	QuizID      string    `gorm:"uniqueIndex:idx_quiz_student;type:varchar(36);not null" json:"quizId"`
	StudentID   string    `gorm:"uniqueIndex:idx_quiz_student;type:varchar(36);not null" json:"studentId"`
	Score       float64   `json:"score"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func (QuizSubmission) TableName() string {
	return "quiz_submissions"
}
