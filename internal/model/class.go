package model

// ClassStatus 课堂生命周期状态，只能由教师指令推进
type ClassStatus string

const (
	StatusWaitingRoom  ClassStatus = "WAITING_ROOM"
	StatusMainSession  ClassStatus = "MAIN_SESSION"
	StatusGroupSession ClassStatus = "GROUP_SESSION"
	StatusPosttest     ClassStatus = "POSTTEST"
	StatusEnded        ClassStatus = "ENDED"
)

// ValidStatus 校验状态值是否属于五个已定义状态之一
func ValidStatus(s ClassStatus) bool {
	switch s {
	case StatusWaitingRoom, StatusMainSession, StatusGroupSession, StatusPosttest, StatusEnded:
		return true
	}
	return false
}

// swagger:model Class
type Class struct {
	UUIDBase
	Name      string      `gorm:"size:255;not null" json:"name"`
	JoinCode  string      `gorm:"size:8;unique;not null" json:"joinCode"`
	TeacherID string      `gorm:"index;type:varchar(36);not null" json:"teacherId"`
	Teacher   *User       `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Status    ClassStatus `gorm:"type:enum('WAITING_ROOM','MAIN_SESSION','GROUP_SESSION','POSTTEST','ENDED');default:'WAITING_ROOM'" json:"status"`
}

func (Class) TableName() string {
	return "classes"
}
