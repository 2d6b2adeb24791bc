package model

// Enrollment 学生与课堂的关联记录，携带前后测成绩与分组号
// swagger:model Enrollment
type Enrollment struct {
	UUIDBase
	ClassID       string   `gorm:"uniqueIndex:idx_class_student;type:varchar(36);not null" json:"classId"`
	StudentID     string   `gorm:"uniqueIndex:idx_class_student;type:varchar(36);not null" json:"studentId"`
	Student       *User    `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	PretestScore  *float64 `json:"pretestScore"`
	PosttestScore *float64 `json:"posttestScore"`
	GroupNumber   *int     `json:"groupNumber"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
